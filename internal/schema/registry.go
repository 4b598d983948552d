// Package schema holds the JSON Schemas for timetable input documents and
// validates documents against them.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ErrUnknownKind is returned for a document kind with no schema.
var ErrUnknownKind = errors.New("unknown document kind")

// Schema represents one input document schema.
type Schema struct {
	Name   string // Document kind (e.g., "timetable")
	Source string // JSON Schema text
	Order  int    // Listing order
}

// registry holds all schemas in listing order.
var registry = []Schema{
	{Name: "timetable", Order: 1},
	{Name: "subjects", Order: 2},
	{Name: "sections", Order: 3},
	{Name: "request", Order: 4},
}

var (
	compileMu sync.Mutex
	compiled  = map[string]*jsonschema.Schema{}
)

// All returns all schemas in listing order.
// Schemas are loaded from embedded .json files.
func All() ([]Schema, error) {
	schemas := make([]Schema, len(registry))
	copy(schemas, registry)

	for i := range schemas {
		content, err := schemaFS.ReadFile(filename(schemas[i].Name))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", schemas[i].Name, err)
		}
		schemas[i].Source = string(content)
	}

	sort.Slice(schemas, func(i, j int) bool {
		return schemas[i].Order < schemas[j].Order
	})

	return schemas, nil
}

// Get returns a single schema by name.
func Get(name string) (*Schema, error) {
	for _, s := range registry {
		if s.Name == name {
			content, err := schemaFS.ReadFile(filename(s.Name))
			if err != nil {
				return nil, fmt.Errorf("failed to read schema %s: %w", s.Name, err)
			}
			return &Schema{
				Name:   s.Name,
				Source: string(content),
				Order:  s.Order,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, name)
}

// Names returns the known document kinds.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, s := range registry {
		names = append(names, s.Name)
	}
	return names
}

// Validate checks a JSON document against the schema for kind.
func Validate(kind string, data []byte) error {
	s, err := compile(kind)
	if err != nil {
		return err
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode %s document: %w", kind, err)
	}

	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%s document does not match schema: %w", kind, err)
	}
	return nil
}

// compile returns the compiled schema for kind, compiling it once.
func compile(kind string) (*jsonschema.Schema, error) {
	compileMu.Lock()
	defer compileMu.Unlock()

	if s, ok := compiled[kind]; ok {
		return s, nil
	}

	src, err := Get(kind)
	if err != nil {
		return nil, err
	}

	url := kind + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(src.Source)); err != nil {
		return nil, fmt.Errorf("failed to load %s schema: %w", kind, err)
	}
	s, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", kind, err)
	}
	compiled[kind] = s
	return s, nil
}

func filename(name string) string {
	return fmt.Sprintf("schemas/%s.json", strings.ToLower(name))
}
