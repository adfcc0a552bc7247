package commands

import (
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var tableStyles = map[string]table.Style{
	"default": table.StyleDefault,
	"light":   table.StyleLight,
	"rounded": table.StyleRounded,
	"bold":    table.StyleBold,
	"double":  table.StyleDouble,
}

// newTable creates a table writer in the configured style.
func (a *app) newTable() table.Writer {
	tbl := table.NewWriter()

	style, ok := tableStyles[a.cfg.Render.Style]
	if !ok {
		style = table.StyleLight
	}

	// Footers keep the case they are written in.
	style.Format.Footer = text.FormatDefault

	tbl.SetStyle(style)

	return tbl
}

// paint returns a color honoring the configured color mode.
func (a *app) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)

	switch a.cfg.Render.Color {
	case "always":
		c.EnableColor()
	case "never":
		c.DisableColor()
	}

	return c
}
