package asset

// FieldMapping maps a save-file field name to the kind of asset its value
// points at.
type FieldMapping map[string]Kind

// MeshFields covers custom model objects.
func MeshFields() FieldMapping {
	return FieldMapping{
		"MeshURL":     KindModel,
		"NormalURL":   KindImage,
		"DiffuseURL":  KindImage,
		"ColliderURL": KindModel,
	}
}

// ImageFields covers custom tiles, tokens, decks and boards.
func ImageFields() FieldMapping {
	return FieldMapping{
		"ImageURL":          KindImage,
		"FaceURL":           KindImage,
		"BackURL":           KindImage,
		"ImageSecondaryURL": KindImage,
	}
}

// DocumentFields covers custom PDF objects.
func DocumentFields() FieldMapping {
	return FieldMapping{
		"PDFUrl": KindDocument,
	}
}

// Merge returns a new mapping holding m overlaid with extra.
func (m FieldMapping) Merge(extra FieldMapping) FieldMapping {
	out := make(FieldMapping, len(m)+len(extra))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
