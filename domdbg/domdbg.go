// Package domdbg renders dom trees in a human-readable form for
// debugging and CLI output.
package domdbg

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/quiverhq/domtree/dom"
)

// Dump returns an indented tree view of the subtree rooted at n.
func Dump(n *dom.Node) string {
	tree := treeprint.NewWithRoot(label(n))
	addChildren(tree, n)
	return tree.String()
}

func addChildren(branch treeprint.Tree, n *dom.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if child.HasChildNodes() {
			addChildren(branch.AddBranch(label(child)), child)
		} else {
			branch.AddNode(label(child))
		}
	}
}

func label(n *dom.Node) string {
	switch n.NodeType() {
	case dom.ElementNode:
		el := n.AsElement()
		var sb strings.Builder
		sb.WriteByte('<')
		sb.WriteString(el.LocalName())
		for _, a := range el.Attributes() {
			fmt.Fprintf(&sb, " %s=%q", a.Name, a.Value)
		}
		sb.WriteByte('>')
		return sb.String()
	case dom.TextNode:
		return fmt.Sprintf("#text %q", n.NodeValue())
	case dom.CommentNode:
		return fmt.Sprintf("<!--%s-->", n.NodeValue())
	case dom.DocumentNode:
		return "#document"
	case dom.DocumentTypeNode:
		return fmt.Sprintf("<!DOCTYPE %s>", n.NodeName())
	case dom.DocumentFragmentNode:
		return "#document-fragment"
	default:
		return n.NodeName()
	}
}
