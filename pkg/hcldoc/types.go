// Package hcldoc parses HCL configuration text into a small structural
// document: ordered blocks with decoded labels, attributes, and expressions
// reduced to literals, objects, arrays, or opaque "other" forms.
//
// Every node records the byte span it was parsed from so callers can map
// findings back to the source without re-scanning the text.
package hcldoc

import (
	"slices"
	"sort"
)

// Span is a half-open byte range [Start, End) into the parsed text.
type Span struct {
	Start int
	End   int
}

// IsValid reports whether the span points at real text.
func (s Span) IsValid() bool {
	return s.End > s.Start
}

// Body is an ordered sequence of attributes and blocks. Attribute names may
// repeat.
type Body struct {
	Attributes []*Attribute
	Blocks     []*Block
	Span       Span
}

// Block is a named element with positional labels and a nested body.
type Block struct {
	Type       string
	TypeSpan   Span
	Labels     []string
	LabelSpans []Span // quotes included when the label was quoted
	Body       *Body
	Span       Span
}

// Attribute is a key/expression pair.
type Attribute struct {
	Name     string
	NameSpan Span
	Expr     *Expression
	Span     Span
}

// Kind tags the variant held by an Expression.
type Kind int

// Expression kinds.
const (
	KindOther Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "other"
	}
}

// Expression is a tagged variant. Only the fields matching Kind are set.
type Expression struct {
	Kind   Kind
	String string
	Number float64
	Bool   bool
	Items  []ObjectItem  // KindObject, in source order
	Elems  []*Expression // KindArray
	Span   Span
}

// ObjectItem is one key/value pair of an object expression.
type ObjectItem struct {
	Key     string
	KeySpan Span
	Value   *Expression
}

// BlocksOfType returns the blocks of b whose type is typ, in source order.
func (b *Body) BlocksOfType(typ string) []*Block {
	if b == nil {
		return nil
	}
	var blocks []*Block
	for _, blk := range b.Blocks {
		if blk.Type == typ {
			blocks = append(blocks, blk)
		}
	}
	return blocks
}

// bodyAt returns the innermost body whose span contains offset.
func (b *Body) bodyAt(offset int) *Body {
	for _, blk := range b.Blocks {
		if blk.Body != nil && blk.Body.Span.Start <= offset && offset < blk.Body.Span.End {
			return blk.Body.bodyAt(offset)
		}
	}
	return b
}

// insertAttribute adds attr keeping source order.
func (b *Body) insertAttribute(attr *Attribute) {
	i := sort.Search(len(b.Attributes), func(i int) bool {
		return b.Attributes[i].Span.Start > attr.Span.Start
	})
	b.Attributes = slices.Insert(b.Attributes, i, attr)
}

// Attribute returns the first attribute named name, or nil.
func (b *Body) Attribute(name string) *Attribute {
	if b == nil {
		return nil
	}
	for _, attr := range b.Attributes {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}

// HasAttribute reports whether b has an attribute named name.
func (b *Body) HasAttribute(name string) bool {
	return b.Attribute(name) != nil
}

// Label returns the i-th label and its span.
func (b *Block) Label(i int) (string, Span, bool) {
	if i < 0 || i >= len(b.Labels) {
		return "", Span{}, false
	}
	var span Span
	if i < len(b.LabelSpans) {
		span = b.LabelSpans[i]
	}
	return b.Labels[i], span, true
}

// ObjectKey returns the first item of an object expression keyed by key.
func (e *Expression) ObjectKey(key string) (*ObjectItem, bool) {
	if e == nil || e.Kind != KindObject {
		return nil, false
	}
	for i := range e.Items {
		if e.Items[i].Key == key {
			return &e.Items[i], true
		}
	}
	return nil, false
}
