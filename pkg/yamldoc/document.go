// Package yamldoc holds a YAML document in a form that supports surgical
// in-place edits: the parsed node tree is used to find version-tracked
// scalars and their positions, while the raw input lines are kept verbatim
// so that rewriting a value changes nothing but that value's bytes. Comments,
// key order, quoting and indentation all round-trip untouched.
package yamldoc

import (
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Document is one parsed YAML file plus its pristine source bytes. It is
// built fresh for a single upgrade run and is not safe for concurrent
// mutation.
type Document struct {
	original []byte
	lines    []string
	root     *yaml.Node
}

// Parse builds a Document from raw bytes. Empty input is a valid, empty
// document. Only the first YAML document in the input is parsed; multi-doc
// streams keep their remaining documents byte-identical since edits are
// line splices.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, WrapParse(err)
	}
	return &Document{
		original: data,
		lines:    strings.Split(string(data), "\n"),
		root:     &root,
	}, nil
}

// Load reads path from fs and parses it.
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Original returns the input bytes exactly as parsed, independent of any
// edits applied since. This is the backup source.
func (d *Document) Original() []byte {
	return d.original
}

// Bytes returns the document's current serialization: the original lines
// with only the applied scalar edits spliced in.
func (d *Document) Bytes() []byte {
	return []byte(strings.Join(d.lines, "\n"))
}

// Changed reports whether any edit has been applied.
func (d *Document) Changed() bool {
	return string(d.original) != string(d.Bytes())
}

// SetValue replaces the scalar value a Field points at, both in the node
// tree and in the raw line it came from. The scalar's quoting style is
// preserved. Literal, folded and multi-line scalars are rejected, as is any
// mismatch between the node's recorded position and the actual line content;
// on error the document is unmodified.
func (d *Document) SetValue(f *Field, newValue string) error {
	if f == nil || f.node == nil {
		return ErrNilField
	}
	node := f.node
	if node.Kind != yaml.ScalarNode {
		return ErrNotScalar
	}
	if node.Style == yaml.LiteralStyle || node.Style == yaml.FoldedStyle || strings.Contains(node.Value, "\n") {
		return ErrUnsupportedStyle
	}

	oldToken, err := renderScalar(node.Value, node.Style)
	if err != nil {
		return err
	}
	newToken, err := renderScalar(newValue, node.Style)
	if err != nil {
		return err
	}

	idx := node.Line - 1
	if idx < 0 || idx >= len(d.lines) {
		return WrapLineOutOfRange(node.Line, len(d.lines))
	}
	line := d.lines[idx]

	offset, ok := columnOffset(line, node.Column)
	if !ok || !strings.HasPrefix(line[offset:], oldToken) {
		return WrapTokenNotFound(oldToken, node.Line, node.Column)
	}

	d.lines[idx] = line[:offset] + newToken + line[offset+len(oldToken):]
	node.Value = newValue
	f.Value = newValue
	return nil
}

// renderScalar reproduces the raw token a scalar occupies in the source for
// the given style. Values that would have needed escaping inside quotes are
// refused so a mangled splice can never slip through; version strings never
// need escapes.
func renderScalar(value string, style yaml.Style) (string, error) {
	switch style {
	case 0, yaml.TaggedStyle, yaml.FlowStyle:
		if value == "" {
			return "", ErrUnsupportedStyle
		}
		return value, nil
	case yaml.DoubleQuotedStyle:
		if strings.ContainsAny(value, `"\`) {
			return "", ErrUnsupportedStyle
		}
		return `"` + value + `"`, nil
	case yaml.SingleQuotedStyle:
		if strings.Contains(value, "'") {
			return "", ErrUnsupportedStyle
		}
		return "'" + value + "'", nil
	default:
		return "", ErrUnsupportedStyle
	}
}

// columnOffset converts a 1-based node column to a byte offset into line.
// Columns count characters, not bytes, so the prefix is walked rune-wise.
func columnOffset(line string, column int) (int, bool) {
	if column < 1 {
		return 0, false
	}
	remaining := column - 1
	for i := range line {
		if remaining == 0 {
			return i, true
		}
		remaining--
	}
	if remaining == 0 {
		return len(line), true
	}
	return 0, false
}
