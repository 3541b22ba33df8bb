package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

const defaultImageField = "image"

// SourceSpec declares where a source's nodes live and how to read them.
type SourceSpec struct {
	Name       string `yaml:"name"`
	File       string `yaml:"file"`
	Type       string `yaml:"type"`
	ImageField string `yaml:"image_field"`
}

func (s SourceSpec) imageField() string {
	if f := strings.TrimSpace(s.ImageField); f != "" {
		return f
	}
	return defaultImageField
}

func (s SourceSpec) file() string {
	if f := strings.TrimSpace(s.File); f != "" {
		return f
	}
	return s.Name + ".json"
}

// NodeError reports a node that lacks a required field.
type NodeError struct {
	Source string
	Detail string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("source %s: malformed node: %s", e.Source, e.Detail)
}

// DecodeSource validates raw as a JSON array of nodes and extracts them in
// order. Each node needs string name, image field and fields.path values;
// their content is not checked further.
func DecodeSource(raw []byte, spec SourceSpec) (Source, error) {
	if !gjson.ValidBytes(raw) {
		return Source{}, fmt.Errorf("source %s: invalid json", spec.Name)
	}
	parsed := gjson.ParseBytes(raw)
	schema, err := nodeSchema(spec.imageField())
	if err != nil {
		return Source{}, fmt.Errorf("source %s: compile schema: %w", spec.Name, err)
	}
	if err := schema.Validate(parsed.Value()); err != nil {
		return Source{}, &NodeError{Source: spec.Name, Detail: err.Error()}
	}
	imagePath := gjsonKey(spec.imageField())
	src := Source{Name: spec.Name, Type: spec.Type}
	parsed.ForEach(func(_, node gjson.Result) bool {
		src.Nodes = append(src.Nodes, Node{
			Name:   node.Get("name").String(),
			Image:  node.Get(imagePath).String(),
			Fields: NodeFields{Path: node.Get("fields.path").String()},
		})
		return true
	})
	return src, nil
}

// LoadSource reads and decodes one source file.
func LoadSource(path string, spec SourceSpec) (Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read source %s failed: %w", spec.Name, err)
	}
	return DecodeSource(raw, spec)
}

// LoadSources reads every spec from dir concurrently and returns the sources
// in declared order. The first failure cancels the rest.
func LoadSources(ctx context.Context, dir string, specs []SourceSpec) ([]Source, error) {
	out := make([]Source, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := spec.file()
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, path)
			}
			src, err := LoadSource(path, spec)
			if err != nil {
				return err
			}
			out[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func nodeSchema(imageField string) (*jsonschema.Schema, error) {
	doc := map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []string{"name", imageField, "fields"},
			"properties": map[string]any{
				"name":     map[string]any{"type": "string"},
				imageField: map[string]any{"type": "string"},
				"fields": map[string]any{
					"type":       "object",
					"required":   []string{"path"},
					"properties": map[string]any{"path": map[string]any{"type": "string"}},
				},
			},
		},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("node.json", strings.NewReader(string(raw))); err != nil {
		return nil, err
	}
	return compiler.Compile("node.json")
}

// gjsonKey escapes path syntax so a field name is read literally.
func gjsonKey(field string) string {
	var b strings.Builder
	for _, r := range field {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
