package rbtree

import (
	"bufio"
	"fmt"
	"io"
)

// WriteDot outputs the structure of the tree in Graphviz DOT format. Nodes
// are labeled with their keys and filled with their color; missing children
// are drawn as small empty circles.
func (tree *Tree[V]) WriteDot(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "strict digraph {")
	fmt.Fprintln(bw, "\tnode [fontname=Arial,fontsize=12,style=filled,fontcolor=white];")

	var edges []string

	for n := tree.First(); n != Nil; n = tree.Next(n) {
		fill := "black"
		if tree.IsRed(n) {
			fill = "red"
		}

		fmt.Fprintf(bw, "\t\"%d\" [label=\"%d\",fillcolor=%s];\n", n, tree.Key(n), fill)

		for i, child := range [2]Node{tree.Left(n), tree.Right(n)} {
			if child != Nil {
				edges = append(edges, fmt.Sprintf("\t\"%d\" -> \"%d\";\n", n, child))

				continue
			}

			leaf := fmt.Sprintf("nil%d_%d", n, i)
			fmt.Fprintf(bw, "\t\"%s\" [label=\"\",shape=circle,fixedsize=true,width=.2,fillcolor=black];\n", leaf)
			edges = append(edges, fmt.Sprintf("\t\"%d\" -> \"%s\";\n", n, leaf))
		}
	}

	for _, edge := range edges {
		fmt.Fprint(bw, edge)
	}

	fmt.Fprintln(bw, "}")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}

	return nil
}
