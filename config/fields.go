package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"

	"ttsdumper/internal/asset"
)

// Fields holds extra field names per extraction pass, merged over the
// built-in mappings.
type Fields struct {
	Mesh     asset.FieldMapping
	Image    asset.FieldMapping
	Document asset.FieldMapping
}

type fieldsFile struct {
	Mesh     map[string]string `yaml:"mesh"`
	Image    map[string]string `yaml:"image"`
	Document map[string]string `yaml:"document"`
}

// LoadFields reads a YAML override file such as
//
//	mesh:
//	  AssetbundleURL: model
//	image:
//	  LutURL: image
//
// An empty path yields empty overrides.
func LoadFields(path string) (*Fields, error) {
	fields := &Fields{}
	if path == "" {
		return fields, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fields file: %w", err)
	}
	defer f.Close()

	var raw fieldsFile
	dec := yaml.NewDecoder(f)
	dec.SetStrict(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode fields file %s: %w", path, err)
	}

	if fields.Mesh, err = toMapping("mesh", raw.Mesh); err != nil {
		return nil, err
	}
	if fields.Image, err = toMapping("image", raw.Image); err != nil {
		return nil, err
	}
	if fields.Document, err = toMapping("document", raw.Document); err != nil {
		return nil, err
	}
	return fields, nil
}

func toMapping(section string, in map[string]string) (asset.FieldMapping, error) {
	out := make(asset.FieldMapping, len(in))
	for field, name := range in {
		kind, err := asset.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("fields file: %s.%s: %w", section, field, err)
		}
		out[field] = kind
	}
	return out, nil
}
