package yamldoc

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bojanraic/loko/pkg/annotation"
)

// Field is one version-tracked scalar located in the document: the parsed
// annotation that marks it, the structural path to it, and its current
// value. Fields are produced fresh by each Collect call and are only valid
// against the Document that produced them.
type Field struct {
	Descriptor annotation.Descriptor
	// Path holds map keys and "[i]" sequence indices from the root to the
	// scalar.
	Path  []string
	Value string

	node *yaml.Node
}

// PathString renders the path in dotted form: "services[0].traefik".
func (f *Field) PathString() string {
	var b strings.Builder
	for _, seg := range f.Path {
		if strings.HasPrefix(seg, "[") {
			b.WriteString(seg)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// Collect walks the document depth-first in document order and returns every
// annotated scalar, deterministically ordered. The document is not modified;
// re-walking starts from scratch.
//
// An annotation can reach a value through more than one comment slot in the
// node tree. Candidate slots are checked in a fixed order and two visitation
// sets (consumed comment slots, claimed target scalars) guarantee at most one
// Field per annotation occurrence and per scalar.
func (d *Document) Collect() []Field {
	if d.root == nil || len(d.root.Content) == 0 {
		return nil
	}
	w := &walker{
		usedSlots:   make(map[slot]bool),
		usedTargets: make(map[*yaml.Node]bool),
	}
	// A comment at the very top of the file can hang off the document node
	// instead of the first key, so its head slot is offered to the first
	// pair too.
	w.walk(d.root.Content[0], nil, []slot{{d.root, slotHead}})
	return w.fields
}

// slotKind selects which comment position on a node a slot refers to.
type slotKind int8

const (
	slotHead slotKind = iota
	slotLine
	slotFoot
)

// slot identifies one comment attachment point in the node tree.
type slot struct {
	node *yaml.Node
	kind slotKind
}

func (s slot) text() string {
	switch s.kind {
	case slotHead:
		return s.node.HeadComment
	case slotLine:
		return s.node.LineComment
	case slotFoot:
		return s.node.FootComment
	default:
		return ""
	}
}

type walker struct {
	fields      []Field
	usedSlots   map[slot]bool
	usedTargets map[*yaml.Node]bool
}

// walk descends into node. extra holds additional comment slots that may
// annotate node's first entry, inherited from the enclosing document node.
func (w *walker) walk(node *yaml.Node, path []string, extra []slot) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.MappingNode:
		w.walkMapping(node, path, extra)
	case yaml.SequenceNode:
		w.walkSequence(node, path, extra)
	case yaml.DocumentNode:
		for _, child := range node.Content {
			w.walk(child, path, append(extra, slot{node, slotHead}))
		}
	}
	// Scalars and aliases carry nothing to descend into.
}

func (w *walker) walkMapping(m *yaml.Node, path []string, extra []slot) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i]
		value := m.Content[i+1]

		// Attachment forms for the pair, first match wins: the comment block
		// heading the key; the comment trailing the previous pair (a foot
		// comment or a line comment, which the parser hangs off either the
		// previous value or the previous key depending on shape); and, for
		// the first pair only, the block heading the enclosing mapping.
		candidates := []slot{{key, slotHead}}
		if i >= 2 {
			prevKey := m.Content[i-2]
			prevValue := m.Content[i-1]
			candidates = append(candidates,
				slot{prevValue, slotFoot}, slot{prevKey, slotFoot},
				slot{prevValue, slotLine}, slot{prevKey, slotLine},
			)
		} else {
			candidates = append(candidates, slot{m, slotHead})
			candidates = append(candidates, extra...)
		}

		pairPath := append(append([]string{}, path...), key.Value)
		w.match(candidates, value, pairPath)
		w.walk(value, pairPath, nil)
	}
}

func (w *walker) walkSequence(s *yaml.Node, path []string, extra []slot) {
	for i, item := range s.Content {
		candidates := []slot{{item, slotHead}}
		if i > 0 {
			prev := s.Content[i-1]
			candidates = append(candidates, slot{prev, slotFoot}, slot{prev, slotLine})
		} else {
			candidates = append(candidates, slot{s, slotHead})
			candidates = append(candidates, extra...)
		}

		itemPath := append(append([]string{}, path...), fmt.Sprintf("[%d]", i))
		w.match(candidates, item, itemPath)
		w.walk(item, itemPath, nil)
	}
}

// match tries each candidate slot in order and claims the first one whose
// comment parses as an annotation.
func (w *walker) match(candidates []slot, value *yaml.Node, path []string) {
	for _, s := range candidates {
		if w.usedSlots[s] {
			continue
		}
		text := s.text()
		if text == "" {
			continue
		}
		desc, ok := annotation.ParseBlock(text)
		if !ok {
			continue
		}
		w.usedSlots[s] = true
		w.claim(desc, value, path)
		return
	}
}

// claim resolves the annotated node to its target scalar and records the
// Field, unless that scalar was already claimed by an earlier annotation.
func (w *walker) claim(desc annotation.Descriptor, value *yaml.Node, path []string) {
	target, targetPath := scalarTarget(value, path)
	if target == nil {
		return
	}
	if w.usedTargets[target] {
		return
	}
	w.usedTargets[target] = true
	w.fields = append(w.fields, Field{
		Descriptor: desc,
		Path:       targetPath,
		Value:      target.Value,
		node:       target,
	})
}

// scalarTarget maps an annotated node to the scalar the annotation tracks: a
// scalar is itself; a mapping yields its first pair holding a scalar value
// (the annotated key's block form, and the single-pair "- name: version"
// sequence item shape); anything else yields nothing.
func scalarTarget(node *yaml.Node, path []string) (*yaml.Node, []string) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return node, path
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			value := node.Content[i+1]
			if value.Kind == yaml.ScalarNode && value.Tag != "!!null" {
				return value, append(append([]string{}, path...), key.Value)
			}
		}
	}
	return nil, nil
}
