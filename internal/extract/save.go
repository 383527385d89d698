package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ttsdumper/internal/asset"
)

const (
	objectsKey  = "ObjectStates"
	saveNameKey = "SaveName"
)

// Save is a parsed save or workshop document, reduced to what extraction needs.
type Save struct {
	Path    string
	Name    string
	Objects []any
}

// DefaultPasses returns the mesh, image and document mappings, each merged
// with the matching override (nil overrides are fine).
func DefaultPasses(mesh, image, document asset.FieldMapping) []asset.FieldMapping {
	return []asset.FieldMapping{
		asset.MeshFields().Merge(mesh),
		asset.ImageFields().Merge(image),
		asset.DocumentFields().Merge(document),
	}
}

// Load reads and decodes the document at path. All failures are *ParseError.
func Load(path string) (*Save, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	save, err := Decode(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	save.Path = path
	if save.Name == "" {
		save.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return save, nil
}

// Decode parses a document from r. Numbers are kept as json.Number so a
// numeric URL field is reported instead of silently formatted.
func Decode(r io.Reader) (*Save, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}

	raw, ok := doc[objectsKey]
	if !ok {
		return nil, ErrMissingObjects
	}
	objects, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrMissingObjects, objectsKey, raw)
	}

	save := &Save{Objects: objects}
	if name, ok := doc[saveNameKey].(string); ok {
		save.Name = name
	}
	return save, nil
}

// Tasks runs every pass over the document's objects and concatenates the
// results in pass order.
func (s *Save) Tasks(passes ...asset.FieldMapping) ([]asset.Task, error) {
	var tasks []asset.Task
	for _, fields := range passes {
		found, err := walk(s.Objects, fields, objectsKey, nil)
		if err != nil {
			return nil, &ParseError{Path: s.Path, Err: err}
		}
		tasks = append(tasks, found...)
	}
	return tasks, nil
}
