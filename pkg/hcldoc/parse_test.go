package hcldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Blocks(t *testing.T) {
	text := `resource "aws_instance" "web" {
  ami   = "ami-123"
  count = 2
}

variable "region" {}

locals {
  enabled = true
}
`
	body, ok := Parse(text)
	require.True(t, ok)
	require.Len(t, body.Blocks, 3)

	res := body.Blocks[0]
	assert.Equal(t, "resource", res.Type)
	assert.Equal(t, []string{"aws_instance", "web"}, res.Labels)
	assert.Equal(t, "resource", text[res.TypeSpan.Start:res.TypeSpan.End])

	name, span, ok := res.Label(1)
	require.True(t, ok)
	assert.Equal(t, "web", name)
	assert.Equal(t, `"web"`, text[span.Start:span.End])

	_, _, ok = res.Label(2)
	assert.False(t, ok)

	assert.Equal(t, []string{"region"}, body.Blocks[1].Labels)
	assert.Empty(t, body.Blocks[2].Labels)
	assert.Len(t, body.BlocksOfType("variable"), 1)
	assert.Empty(t, body.BlocksOfType("output"))
}

func TestParse_AttributesKeepSourceOrder(t *testing.T) {
	text := "zeta = 1\nalpha = 2\nmid = 3\n"

	body, ok := Parse(text)
	require.True(t, ok)

	var names []string
	for _, attr := range body.Attributes {
		names = append(names, attr.Name)
		assert.Equal(t, attr.Name, text[attr.NameSpan.Start:attr.NameSpan.End])
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestParse_Expressions(t *testing.T) {
	text := `s     = "hello"
empty = ""
n     = 4.5
b     = false
nothing = null
ref   = var.region
wrap  = "${var.region}"
mixed = "a-${var.region}"
list  = ["a", 1]
obj   = { source = "hashicorp/aws", "version" = "~> 4.0" }
`
	body, ok := Parse(text)
	require.True(t, ok)

	tests := []struct {
		attr string
		kind Kind
	}{
		{"s", KindString},
		{"empty", KindString},
		{"n", KindNumber},
		{"b", KindBool},
		{"nothing", KindOther},
		{"ref", KindOther},
		{"wrap", KindOther},
		{"mixed", KindOther},
		{"list", KindArray},
		{"obj", KindObject},
	}

	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			attr := body.Attribute(tt.attr)
			require.NotNil(t, attr)
			assert.Equal(t, tt.kind, attr.Expr.Kind, "got %s", attr.Expr.Kind)
		})
	}

	assert.Equal(t, "hello", body.Attribute("s").Expr.String)
	assert.Equal(t, "", body.Attribute("empty").Expr.String)
	assert.InDelta(t, 4.5, body.Attribute("n").Expr.Number, 1e-9)
	assert.False(t, body.Attribute("b").Expr.Bool)

	list := body.Attribute("list").Expr
	require.Len(t, list.Elems, 2)
	assert.Equal(t, KindString, list.Elems[0].Kind)
	assert.Equal(t, KindNumber, list.Elems[1].Kind)

	obj := body.Attribute("obj").Expr
	require.Len(t, obj.Items, 2)
	assert.Equal(t, "source", obj.Items[0].Key)
	assert.Equal(t, "version", obj.Items[1].Key)

	item, ok := obj.ObjectKey("version")
	require.True(t, ok)
	assert.Equal(t, "~> 4.0", item.Value.String)

	_, ok = obj.ObjectKey("missing")
	assert.False(t, ok)
	_, ok = body.Attribute("s").Expr.ObjectKey("s")
	assert.False(t, ok)
}

func TestParse_DuplicateAttributes(t *testing.T) {
	text := "variable \"x\" {\n type = string\n type = number\n}\nresource \"a\" \"BadName\" {}\nname = 1\nname = \"two\"\n"

	body, ok := Parse(text)
	require.True(t, ok, "repeated keys must not fail the parse")
	require.Len(t, body.Blocks, 2)

	v := body.Blocks[0].Body
	require.Len(t, v.Attributes, 2)
	for _, attr := range v.Attributes {
		assert.Equal(t, "type", attr.Name)
		assert.Equal(t, "type", text[attr.NameSpan.Start:attr.NameSpan.End])
		assert.Equal(t, KindOther, attr.Expr.Kind)
	}
	assert.Equal(t, "type = string", text[v.Attributes[0].Span.Start:v.Attributes[0].Span.End])
	assert.Equal(t, "type = number", text[v.Attributes[1].Span.Start:v.Attributes[1].Span.End])
	assert.Same(t, v.Attributes[0], v.Attribute("type"), "lookup returns the first definition")

	require.Len(t, body.Attributes, 2)
	assert.Equal(t, KindNumber, body.Attributes[0].Expr.Kind)
	assert.Equal(t, "two", body.Attributes[1].Expr.String)
	assert.Equal(t, `"two"`, text[body.Attributes[1].Expr.Span.Start:body.Attributes[1].Expr.Span.End])
}

func TestParse_DuplicateNestedObject(t *testing.T) {
	text := `terraform {
  required_providers {
    aws = { version = "~> 5.0" }
    aws = {
      source = "hashicorp/aws"
    }
  }
}
`
	body, ok := Parse(text)
	require.True(t, ok)

	rp := body.Blocks[0].Body.Blocks[0].Body
	require.Len(t, rp.Attributes, 2)
	_, versioned := rp.Attributes[0].Expr.ObjectKey("version")
	assert.True(t, versioned)
	second := rp.Attributes[1].Expr
	require.Equal(t, KindObject, second.Kind)
	_, versioned = second.ObjectKey("version")
	assert.False(t, versioned)
	assert.Equal(t, "hashicorp/aws", second.Items[0].Value.String)
}

func TestParse_Nested(t *testing.T) {
	text := `terraform {
  required_providers {
    aws = {
      source = "hashicorp/aws"
    }
    random = "3.0"
  }
}
`
	body, ok := Parse(text)
	require.True(t, ok)

	tf := body.BlocksOfType("terraform")
	require.Len(t, tf, 1)
	rp := tf[0].Body.BlocksOfType("required_providers")
	require.Len(t, rp, 1)

	attrs := rp[0].Body.Attributes
	require.Len(t, attrs, 2)
	assert.Equal(t, "aws", attrs[0].Name)
	assert.Equal(t, KindObject, attrs[0].Expr.Kind)
	assert.Equal(t, "random", attrs[1].Name)
	assert.Equal(t, KindString, attrs[1].Expr.Kind)
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{
		`resource "a" "b" {`,
		`variable "x" { default = }`,
		"a = 1\na = 2\n",
		`}}}`,
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			body, ok := Parse(in)
			assert.False(t, ok, "input %q", in)
			assert.Nil(t, body)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	body, ok := Parse("")
	require.True(t, ok)
	assert.Empty(t, body.Blocks)
	assert.Empty(t, body.Attributes)
}

func TestBody_NilSafe(t *testing.T) {
	var b *Body
	assert.Nil(t, b.BlocksOfType("resource"))
	assert.Nil(t, b.Attribute("x"))
	assert.False(t, b.HasAttribute("x"))
}
