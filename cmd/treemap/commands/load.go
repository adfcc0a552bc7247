package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/treemap/pkg/treemap"
)

const (
	loadCmdUse   = "load <input>"
	loadCmdShort = "Load a YAML or JSON key/value document into a snapshot"
	loadCmdLong  = `Load reads a document mapping integer keys to string values and stores
it as a snapshot. YAML documents are mappings with integer keys; JSON
documents are objects whose property names are decimal integers.`

	formatFlag  = "format"
	formatAuto  = "auto"
	formatYAML  = "yaml"
	formatJSON  = "json"
	loadArgsNum = 1
)

// documentSchema describes JSON input documents.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "patternProperties": {
    "^-?[0-9]+$": {"type": "string"}
  },
  "additionalProperties": false
}`

var (
	// ErrUnknownFormat is returned for input formats other than YAML and JSON.
	ErrUnknownFormat = errors.New("unknown input format")
	// ErrInvalidDocument is returned when a JSON document does not match the schema.
	ErrInvalidDocument = errors.New("invalid document")
)

func newLoadCommand(a *app) *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   loadCmdUse,
		Short: loadCmdShort,
		Long:  loadCmdLong,
		Args:  cobra.ExactArgs(loadArgsNum),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return ErrNoOutput
			}

			return a.run(cmd, func(ctx context.Context) error {
				return a.runLoad(ctx, args[0], output, format)
			})
		},
	}

	cmd.Flags().StringVarP(&output, outputFlag, outputShort, "", "snapshot file to write")
	cmd.Flags().StringVar(&format, formatFlag, formatAuto, "input format: auto, yaml or json")

	return cmd
}

func (a *app) runLoad(ctx context.Context, input, output, format string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	doc, err := parseDocument(data, resolveFormat(input, format))
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	m := a.newMap()

	err = m.PutAll(treemap.Pairs(doc))
	if err != nil {
		return fmt.Errorf("build map: %w", err)
	}

	size, err := a.saveSnapshot(ctx, output, m)
	if err != nil {
		return err
	}

	a.printf("loaded %s pairs into %s (%s)\n", humanize.Comma(int64(m.Len())), output, humanize.Bytes(uint64(max(size, 0))))

	return nil
}

func resolveFormat(input, format string) string {
	if format != formatAuto {
		return format
	}

	switch strings.ToLower(filepath.Ext(input)) {
	case ".json":
		return formatJSON
	default:
		return formatYAML
	}
}

func parseDocument(data []byte, format string) (map[int]string, error) {
	switch format {
	case formatYAML:
		return parseYAML(data)
	case formatJSON:
		return parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func parseYAML(data []byte) (map[int]string, error) {
	doc := map[int]string{}

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	return doc, nil
}

func parseJSON(data []byte) (map[int]string, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			problems = append(problems, verr.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(problems, "; "))
	}

	var raw map[string]string

	err = json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	doc := make(map[int]string, len(raw))

	for key, value := range raw {
		intKey, convErr := strconv.Atoi(key)
		if convErr != nil {
			return nil, fmt.Errorf("%w: key %q: %w", ErrInvalidDocument, key, convErr)
		}

		doc[intKey] = value
	}

	return doc, nil
}
