package extract

import (
	"fmt"
	"slices"
	"strings"

	"ttsdumper/internal/asset"
)

// Extract walks node and returns a task for every non-empty string stored
// under a field named in fields. Map keys are visited in sorted order so the
// result is stable for a given document. node is never modified.
func Extract(node any, fields asset.FieldMapping) ([]asset.Task, error) {
	return walk(node, fields, "", nil)
}

func walk(node any, fields asset.FieldMapping, at string, tasks []asset.Task) ([]asset.Task, error) {
	var err error

	switch n := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, key := range keys {
			child := joinKey(at, key)
			switch v := n[key].(type) {
			case map[string]any, []any:
				if tasks, err = walk(v, fields, child, tasks); err != nil {
					return nil, err
				}
			default:
				kind, ok := fields[key]
				if !ok {
					continue
				}
				raw, err := urlValue(child, v)
				if err != nil {
					return nil, err
				}
				if raw == "" {
					continue
				}
				tasks = append(tasks, asset.NewTask(raw, kind))
			}
		}
	case []any:
		for i, item := range n {
			if tasks, err = walk(item, fields, fmt.Sprintf("%s[%d]", at, i), tasks); err != nil {
				return nil, err
			}
		}
	}

	return tasks, nil
}

// urlValue returns the trimmed URL candidate. null is treated like an empty
// string; any other non-string value is an error.
func urlValue(at string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), nil
	case nil:
		return "", nil
	default:
		return "", &FieldTypeError{Path: at, Value: v}
	}
}

func joinKey(at, key string) string {
	if at == "" {
		return key
	}
	return at + "." + key
}
