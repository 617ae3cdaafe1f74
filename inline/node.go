// Package inline defines the inline document node tree consumed by the renderer
// and the preprocessed math content that accompanies it.
package inline

import "strings"

// Node is one inline element. The set of variants is closed.
type Node interface {
	inlineNode()
}

type (
	// Text is plain text.
	Text struct{ Value string }
	// SoftBreak is a soft line break, rendered as a space.
	SoftBreak struct{}
	// LineBreak is a hard line break.
	LineBreak struct{}
	// Code is inline code.
	Code struct{ Value string }
	// HTML is raw inline HTML, shown literally.
	HTML          struct{ Value string }
	Emphasis      struct{ Children []Node }
	Strong        struct{ Children []Node }
	Strikethrough struct{ Children []Node }
	// Link wraps its children in a link to Destination.
	Link struct {
		Destination string
		Children    []Node
	}
	// Image is an inline image; Children hold the alternative text.
	Image struct {
		Source   string
		Children []Node
	}
	// Math is inline math. ReplacementID correlates the node with its entry in Content.
	Math struct {
		Source        string
		ReplacementID string
	}
)

func (Text) inlineNode()          {}
func (SoftBreak) inlineNode()     {}
func (LineBreak) inlineNode()     {}
func (Code) inlineNode()          {}
func (HTML) inlineNode()          {}
func (Emphasis) inlineNode()      {}
func (Strong) inlineNode()        {}
func (Strikethrough) inlineNode() {}
func (Link) inlineNode()          {}
func (Image) inlineNode()         {}
func (Math) inlineNode()          {}

// Children returns the child nodes of composite variants and nil otherwise.
func Children(n Node) []Node {
	switch v := n.(type) {
	case Emphasis:
		return v.Children
	case Strong:
		return v.Children
	case Strikethrough:
		return v.Children
	case Link:
		return v.Children
	case Image:
		return v.Children
	}
	return nil
}

// Walk visits nodes in pre-order. Returning false from fn skips the node's children.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if fn(n) {
			Walk(Children(n), fn)
		}
	}
}

// PlainText flattens nodes into readable text, e.g. for copying or accessibility.
func PlainText(nodes []Node) string {
	var b strings.Builder
	writePlain(&b, nodes)
	return b.String()
}

func writePlain(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case Text:
			b.WriteString(v.Value)
		case SoftBreak:
			b.WriteByte(' ')
		case LineBreak:
			b.WriteByte('\n')
		case Code:
			b.WriteString(v.Value)
		case HTML:
			b.WriteString(v.Value)
		case Math:
			b.WriteString(v.Source)
		case Image:
			if len(v.Children) > 0 {
				writePlain(b, v.Children)
			} else {
				b.WriteString(v.Source)
			}
		default:
			writePlain(b, Children(n))
		}
	}
}
