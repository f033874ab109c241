// Package markup is the serialization boundary: it parses HTML text into
// detached dom trees through the node-store constructors, and renders dom
// trees back to markup. golang.org/x/net/html does the wire-format work;
// this package only converts between node representations.
package markup

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/quiverhq/domtree/dom"
)

// Parse reads an HTML document and builds a dom.Document. The parser
// normalizes the input the way HTML parsers do (html/head/body scaffolding
// is always present).
func Parse(r io.Reader) (*dom.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("markup: parse: %w", err)
	}
	doc := dom.NewDocument()
	if err := convertChildren(doc, doc.AsNode(), root); err != nil {
		doc.AsNode().Release()
		return nil, err
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*dom.Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFragment parses markup in a body context into a document fragment.
// Nodes are created through doc; the caller owns the returned fragment and
// inserting it moves its children into the target tree.
func ParseFragment(doc *dom.Document, r io.Reader) (*dom.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, ctx)
	if err != nil {
		return nil, fmt.Errorf("markup: parse fragment: %w", err)
	}

	// convertChildren walks an html.Node's children, so gather the parsed
	// siblings under a throwaway carrier first.
	carrier := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		carrier.AppendChild(n)
	}

	frag := doc.CreateDocumentFragment()
	if err := convertChildren(doc, frag, carrier); err != nil {
		frag.Release()
		return nil, err
	}
	return frag, nil
}

// ParseFragmentString is ParseFragment over a string.
func ParseFragmentString(doc *dom.Document, s string) (*dom.Node, error) {
	return ParseFragment(doc, strings.NewReader(s))
}

func convertChildren(doc *dom.Document, parent *dom.Node, src *html.Node) error {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		var node *dom.Node
		switch c.Type {
		case html.ElementNode:
			el := doc.CreateElement(c.Data)
			for _, a := range c.Attr {
				el.SetAttribute(a.Key, a.Val)
			}
			node = el.AsNode()
		case html.TextNode:
			node = doc.CreateTextNode(c.Data)
		case html.CommentNode:
			node = doc.CreateComment(c.Data)
		case html.DoctypeNode:
			node = doc.CreateDocumentType(c.Data)
		default:
			continue
		}

		if _, err := parent.AppendChildWithError(node); err != nil {
			node.Release()
			return fmt.Errorf("markup: build tree: %w", err)
		}
		// The tree owns the node now; drop the creator reference.
		node.Release()

		if c.Type == html.ElementNode {
			if err := convertChildren(doc, node, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Render serializes a dom subtree as HTML text.
func Render(w io.Writer, n *dom.Node) error {
	if err := html.Render(w, toHTMLNode(n)); err != nil {
		return fmt.Errorf("markup: render: %w", err)
	}
	return nil
}

// RenderString is Render into a string.
func RenderString(n *dom.Node) (string, error) {
	var sb strings.Builder
	if err := Render(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func toHTMLNode(n *dom.Node) *html.Node {
	var hn *html.Node
	switch n.NodeType() {
	case dom.DocumentNode, dom.DocumentFragmentNode:
		hn = &html.Node{Type: html.DocumentNode}
	case dom.ElementNode:
		el := n.AsElement()
		hn = &html.Node{
			Type:     html.ElementNode,
			Data:     el.LocalName(),
			DataAtom: atom.Lookup([]byte(el.LocalName())),
		}
		for _, a := range el.Attributes() {
			hn.Attr = append(hn.Attr, html.Attribute{Key: a.Name, Val: a.Value})
		}
	case dom.TextNode:
		hn = &html.Node{Type: html.TextNode, Data: n.NodeValue()}
	case dom.CommentNode:
		hn = &html.Node{Type: html.CommentNode, Data: n.NodeValue()}
	case dom.DocumentTypeNode:
		hn = &html.Node{Type: html.DoctypeNode, Data: n.NodeName()}
	default:
		return &html.Node{Type: html.TextNode}
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		hn.AppendChild(toHTMLNode(child))
	}
	return hn
}
