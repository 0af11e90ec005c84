package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kpister/elf/types"
	"gopkg.in/yaml.v3"
)

// YAMLFile reads a roster document from disk.
//
// The document is a mapping from participant name to their details:
//
//	Ann:
//	  email: ann@example.com
//	  significant: Bo
//	Bo:
//	  email: bo@example.com
//	Cy:
//	  email: cy@example.com
//
// Entries are returned in document order.
type YAMLFile struct {
	path string
}

var _ types.RosterSource = (*YAMLFile)(nil)

// NewYAMLFile creates a roster source reading from path on every load.
func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{path: path}
}

// Path returns the file the source reads from.
func (f *YAMLFile) Path() string {
	return f.path
}

// LoadEntries opens and parses the roster file.
func (f *YAMLFile) LoadEntries(ctx context.Context) ([]types.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer file.Close()

	entries, err := ParseYAML(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}

	return entries, nil
}

type yamlEntry struct {
	Email       string `yaml:"email"`
	Significant string `yaml:"significant"`
}

// ParseYAML parses a roster document, preserving the order of its keys.
//
// An empty document yields no entries. A participant with no body (a bare
// "Name:" line) is returned with an empty email and fails roster validation.
//
// Returns:
//   - []types.Entry: Entries in document order
//   - error: YAML syntax error, or ErrMalformedRoster if the shape is wrong
func ParseYAML(r io.Reader) ([]types.Entry, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, fmt.Errorf("parse roster: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: top level must be a mapping of names", types.ErrMalformedRoster, root.Line)
	}

	entries := make([]types.Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: participant name must be a scalar", types.ErrMalformedRoster, key.Line)
		}

		for value.Kind == yaml.AliasNode && value.Alias != nil {
			value = value.Alias
		}

		var e yamlEntry
		switch value.Kind {
		case yaml.MappingNode:
			if err := value.Decode(&e); err != nil {
				return nil, fmt.Errorf("%w: %q: %v", types.ErrMalformedRoster, key.Value, err)
			}
		case yaml.ScalarNode:
			if value.Tag != "!!null" {
				return nil, fmt.Errorf("%w: line %d: %q must be a mapping", types.ErrMalformedRoster, value.Line, key.Value)
			}
		default:
			return nil, fmt.Errorf("%w: line %d: %q must be a mapping", types.ErrMalformedRoster, value.Line, key.Value)
		}

		entries = append(entries, types.Entry{
			Name:        key.Value,
			Email:       e.Email,
			Significant: e.Significant,
		})
	}

	return entries, nil
}
