// Package scenario describes a document and an edit script in YAML.
//
//	name: fix a typo
//	document:
//	  - text: "Helo world"
//	  - element: heading
//	    text: "Notes"
//	steps:
//	  - save: true
//	  - insert: {at: [0, 3], text: "l"}
//	  - remove: {at: [1, 0], count: 2}
//	  - attribute: {at: [0, 0], length: 5, key: bold, value: "true"}
//	  - move: {at: [1], count: 1, to: [0]}
//
// Paths address the main root: [block] or [block, offset].
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/revdiff/internal/engine"
	"github.com/dshills/revdiff/internal/engine/model"
	"github.com/dshills/revdiff/internal/engine/tracking"
)

// ErrInvalidStep is returned for steps that do not hold exactly one action.
var ErrInvalidStep = errors.New("invalid step")

// Saver saves a revision of the document.
type Saver interface {
	SaveRevision() (*tracking.Snapshot, error)
}

// Scenario is a document plus the edits applied to it.
type Scenario struct {
	Name     string  `yaml:"name"`
	Document []Block `yaml:"document"`
	Steps    []Step  `yaml:"steps"`
}

// Block is a root-level element.
type Block struct {
	Element    string            `yaml:"element"`
	Text       string            `yaml:"text"`
	Attributes map[string]string `yaml:"attributes"`
}

// Step holds exactly one action.
type Step struct {
	Save      bool           `yaml:"save,omitempty"`
	Insert    *InsertStep    `yaml:"insert,omitempty"`
	Remove    *RemoveStep    `yaml:"remove,omitempty"`
	Attribute *AttributeStep `yaml:"attribute,omitempty"`
	Move      *MoveStep      `yaml:"move,omitempty"`
}

// InsertStep inserts text, or a block when Element is set.
type InsertStep struct {
	At      []int  `yaml:"at"`
	Text    string `yaml:"text"`
	Element string `yaml:"element"`
}

// RemoveStep removes Count nodes.
type RemoveStep struct {
	At    []int `yaml:"at"`
	Count int   `yaml:"count"`
}

// AttributeStep sets Key on Length nodes. An empty Value removes it.
type AttributeStep struct {
	At     []int  `yaml:"at"`
	Length int    `yaml:"length"`
	Key    string `yaml:"key"`
	Value  string `yaml:"value"`
}

// MoveStep moves Count nodes to To.
type MoveStep struct {
	At    []int `yaml:"at"`
	Count int   `yaml:"count"`
	To    []int `yaml:"to"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every step holds one action with a path.
func (s *Scenario) Validate() error {
	for i, st := range s.Steps {
		if n := st.actions(); n != 1 {
			return fmt.Errorf("step %d: %w: %d actions", i+1, ErrInvalidStep, n)
		}
		var at []int
		switch {
		case st.Insert != nil:
			at = st.Insert.At
		case st.Remove != nil:
			at = st.Remove.At
		case st.Attribute != nil:
			at = st.Attribute.At
		case st.Move != nil:
			at = st.Move.At
			if len(st.Move.To) == 0 {
				return fmt.Errorf("step %d: %w: move without target", i+1, ErrInvalidStep)
			}
		}
		if !st.Save && len(at) == 0 {
			return fmt.Errorf("step %d: %w: missing path", i+1, ErrInvalidStep)
		}
	}
	return nil
}

func (st Step) actions() int {
	n := 0
	if st.Save {
		n++
	}
	for _, set := range []bool{st.Insert != nil, st.Remove != nil, st.Attribute != nil, st.Move != nil} {
		if set {
			n++
		}
	}
	return n
}

// Nodes returns the initial document content.
func (s *Scenario) Nodes() []model.Node {
	nodes := make([]model.Node, len(s.Document))
	for i, b := range s.Document {
		name := b.Element
		if name == "" {
			name = "paragraph"
		}
		nodes[i] = model.Element(name, b.Attributes, model.Text(b.Text, nil)...)
	}
	return nodes
}

// NewDocument creates a document holding the initial content.
func (s *Scenario) NewDocument(opts ...engine.Option) *engine.Document {
	return engine.New(append([]engine.Option{engine.WithContent(s.Nodes()...)}, opts...)...)
}

// Run applies the steps to doc, one delta per step. Without a save step a
// revision is saved before the first edit.
func (s *Scenario) Run(doc *engine.Document, saver Saver) error {
	saves := false
	for _, st := range s.Steps {
		saves = saves || st.Save
	}
	if !saves {
		if _, err := saver.SaveRevision(); err != nil {
			return err
		}
	}

	for i, st := range s.Steps {
		var err error
		if st.Save {
			_, err = saver.SaveRevision()
		} else {
			err = doc.Change(fmt.Sprintf("step %d", i+1), st.apply)
		}
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) apply(w *engine.Writer) error {
	switch {
	case st.Insert != nil:
		pos := engine.Pos(st.Insert.At...)
		if st.Insert.Element != "" {
			return w.InsertElement(pos, st.Insert.Element, nil, model.Text(st.Insert.Text, nil)...)
		}
		return w.InsertText(pos, st.Insert.Text, nil)
	case st.Remove != nil:
		return w.Remove(engine.Pos(st.Remove.At...), max(st.Remove.Count, 1))
	case st.Attribute != nil:
		r := model.NewRange(engine.Pos(st.Attribute.At...), max(st.Attribute.Length, 1))
		return w.SetAttribute(r, st.Attribute.Key, st.Attribute.Value)
	case st.Move != nil:
		return w.Move(engine.Pos(st.Move.At...), max(st.Move.Count, 1), engine.Pos(st.Move.To...))
	}
	return ErrInvalidStep
}
