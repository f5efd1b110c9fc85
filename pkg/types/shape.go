package types

// Shape identifies one of the canonical response shapes. The set is
// closed: standardizer and validator dispatch on it exhaustively, so
// an unknown shape can only enter through ParseShape at a string
// boundary, never through typed code.
type Shape int

const (
	ShapeBaseType Shape = iota
	ShapeTraitType
	ShapeModelType
	ShapeModel
	ShapeRelationRef
	ShapeRelations
	ShapeModelFullData
)

// shapeNames maps shapes to their wire identifiers.
var shapeNames = map[Shape]string{
	ShapeBaseType:      "base_type",
	ShapeTraitType:     "trait_type",
	ShapeModelType:     "model_type",
	ShapeModel:         "model",
	ShapeRelationRef:   "relation_ref",
	ShapeRelations:     "relations",
	ShapeModelFullData: "model_full_data",
}

// String returns the wire identifier for the shape.
func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseShape resolves a wire identifier to a Shape.
// Returns ErrUnknownShape for unrecognized names.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return s, nil
		}
	}
	return 0, ErrUnknownShape
}
