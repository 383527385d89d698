package asset

import (
	"fmt"
	"strings"
)

// Kind classifies a downloadable resource. It decides the subdirectory the
// file lands in and the extension used when the URL does not carry one.
type Kind int

const (
	KindImage Kind = iota + 1
	KindModel
	KindDocument
)

// Kinds lists every asset kind in layout order.
var Kinds = []Kind{KindImage, KindModel, KindDocument}

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindModel:
		return "model"
	case KindDocument:
		return "pdf"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Dir returns the output subdirectory for the kind.
func (k Kind) Dir() string {
	switch k {
	case KindImage:
		return "Images"
	case KindModel:
		return "Models"
	case KindDocument:
		return "PDF"
	default:
		return ""
	}
}

// DefaultExt is used when the URL path has no extension or points at a script.
func (k Kind) DefaultExt() string {
	switch k {
	case KindImage:
		return ".png"
	case KindModel:
		return ".obj"
	case KindDocument:
		return ".pdf"
	default:
		return ""
	}
}

func (k Kind) Valid() bool {
	return k >= KindImage && k <= KindDocument
}

// ParseKind accepts the names used in field override files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image", "images":
		return KindImage, nil
	case "model", "models", "mesh":
		return KindModel, nil
	case "pdf", "document", "documents":
		return KindDocument, nil
	default:
		return 0, fmt.Errorf("unknown asset kind %q", s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid asset kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
