package load

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project is the content of a litegen project file: generation settings,
// type converters and the annotated schemas.
type Project struct {
	Package         string       `json:"package,omitempty" yaml:"package,omitempty"`
	Target          string       `json:"target,omitempty" yaml:"target,omitempty"`
	Runtime         string       `json:"runtime,omitempty" yaml:"runtime,omitempty"`
	ModelsDir       string       `json:"models_dir,omitempty" yaml:"models_dir,omitempty"`
	HelperSeparator *string      `json:"helper_separator,omitempty" yaml:"helper_separator,omitempty"`
	Converters      []*Converter `json:"converters,omitempty" yaml:"converters,omitempty"`
	Entities        []*Schema    `json:"entities,omitempty" yaml:"entities,omitempty"`
}

// LoadProject reads and parses the project file at path.
func LoadProject(path string) (*Project, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read project: %w", err)
	}
	return ParseProject(buf, path)
}

// ParseProject decodes a project from buf. Files ending in .json are decoded
// as JSON, everything else as YAML. Unknown keys are rejected.
func ParseProject(buf []byte, filename string) (*Project, error) {
	p := &Project{}
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.DisallowUnknownFields()
		if err := dec.Decode(p); err != nil {
			return nil, fmt.Errorf("load: decode %s: %w", filename, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(buf))
		dec.KnownFields(true)
		if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("load: decode %s: %w", filename, err)
		}
		var root yaml.Node
		if err := yaml.Unmarshal(buf, &root); err == nil {
			p.setPositions(&root, filename)
		}
	}
	if err := p.check(); err != nil {
		return nil, fmt.Errorf("load: %s: %w", filename, err)
	}
	return p, nil
}

// Schema returns the schema with the given name, or nil.
func (p *Project) Schema(name string) *Schema {
	for _, s := range p.Entities {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (p *Project) check() error {
	names := make(map[string]struct{}, len(p.Entities))
	for _, s := range p.Entities {
		if err := s.check(); err != nil {
			return err
		}
		if _, ok := names[s.Name]; ok {
			return fmt.Errorf("duplicate schema %q", s.Name)
		}
		names[s.Name] = struct{}{}
	}
	for _, c := range p.Converters {
		if err := c.check(); err != nil {
			return err
		}
	}
	return nil
}

// setPositions fills the Pos of schemas, fields and converters from the
// line information of the decoded YAML document.
func (p *Project) setPositions(root *yaml.Node, filename string) {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	pos := func(n *yaml.Node) string { return fmt.Sprintf("%s:%d", filename, n.Line) }
	entities := mappingValue(doc, "entities")
	if entities != nil && entities.Kind == yaml.SequenceNode {
		for i, en := range entities.Content {
			if i >= len(p.Entities) {
				break
			}
			s := p.Entities[i]
			s.Pos = pos(en)
			fields := mappingValue(en, "fields")
			if fields == nil || fields.Kind != yaml.SequenceNode {
				continue
			}
			for j, fn := range fields.Content {
				if j < len(s.Fields) {
					s.Fields[j].Pos = pos(fn)
				}
			}
		}
	}
	converters := mappingValue(doc, "converters")
	if converters != nil && converters.Kind == yaml.SequenceNode {
		for i, cn := range converters.Content {
			if i < len(p.Converters) {
				p.Converters[i].Pos = pos(cn)
			}
		}
	}
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
