package canon

import "github.com/mesh-intelligence/satchel/pkg/types"

// FieldKind classifies a contract field's value.
type FieldKind int

const (
	// KindID is a positive integer identity field.
	KindID FieldKind = iota
	// KindString is a required non-empty string.
	KindString
	// KindText is a nullable string.
	KindText
	// KindTime is a nullable timestamp.
	KindTime
	// KindMap is a string-keyed mapping of attribute values.
	KindMap
	// KindComposite nests another canonical shape.
	KindComposite
)

// Field describes one field of a shape contract. Aliases list raw key
// names accepted in addition to the canonical Name; both are matched
// case- and delimiter-insensitively.
type Field struct {
	Name     string
	Aliases  []string
	Required bool
	Kind     FieldKind
	Elem     types.Shape // nested shape when Kind is KindComposite
	Repeated bool        // composite field holds a sequence of Elem
}

// Default returns the value a standardizer fills in when the field is
// absent from raw input. Repeated composites and maps default to
// empty containers, never nil; everything else defaults to null.
func (f Field) Default() any {
	switch {
	case f.Kind == KindComposite && f.Repeated:
		return []any{}
	case f.Kind == KindMap:
		return map[string]any{}
	default:
		return nil
	}
}

// Contract is the structural contract for one canonical shape:
// its fields in declaration order. Violations are reported in this
// order, so verdicts are deterministic for a given input.
type Contract struct {
	Shape  types.Shape
	Fields []Field
}

// contracts is the canonical type registry. Built once at package
// init and read-only afterwards; safe to share without locking.
var contracts = map[types.Shape]Contract{
	types.ShapeBaseType: {
		Shape: types.ShapeBaseType,
		Fields: []Field{
			{Name: "id", Required: true, Kind: KindID},
			{Name: "name", Required: true, Kind: KindString},
			{Name: "description", Kind: KindText},
		},
	},
	types.ShapeTraitType: {
		Shape: types.ShapeTraitType,
		Fields: []Field{
			{Name: "id", Required: true, Kind: KindID},
			{Name: "name", Required: true, Kind: KindString},
			{Name: "description", Kind: KindText},
		},
	},
	types.ShapeModelType: {
		Shape: types.ShapeModelType,
		Fields: []Field{
			{Name: "base_model", Aliases: []string{"base", "base_type"}, Required: true, Kind: KindComposite, Elem: types.ShapeBaseType},
			{Name: "traits", Required: true, Kind: KindComposite, Elem: types.ShapeTraitType, Repeated: true},
		},
	},
	types.ShapeModel: {
		Shape: types.ShapeModel,
		Fields: []Field{
			{Name: "id", Required: true, Kind: KindID},
			{Name: "title", Aliases: []string{"name"}, Required: true, Kind: KindString},
			{Name: "body", Aliases: []string{"description"}, Kind: KindText},
			{Name: "created_at", Kind: KindTime},
			{Name: "updated_at", Kind: KindTime},
		},
	},
	types.ShapeRelationRef: {
		Shape: types.ShapeRelationRef,
		Fields: []Field{
			{Name: "target_id", Aliases: []string{"to_id"}, Required: true, Kind: KindID},
			{Name: "relation_name", Aliases: []string{"name"}, Required: true, Kind: KindString},
			{Name: "target_title", Kind: KindText},
		},
	},
	types.ShapeRelations: {
		Shape: types.ShapeRelations,
		Fields: []Field{
			{Name: "outgoing", Required: true, Kind: KindComposite, Elem: types.ShapeRelationRef, Repeated: true},
			{Name: "incoming", Required: true, Kind: KindComposite, Elem: types.ShapeRelationRef, Repeated: true},
		},
	},
	types.ShapeModelFullData: {
		Shape: types.ShapeModelFullData,
		Fields: []Field{
			{Name: "model", Required: true, Kind: KindComposite, Elem: types.ShapeModel},
			{Name: "model_type", Aliases: []string{"type"}, Required: true, Kind: KindComposite, Elem: types.ShapeModelType},
			{Name: "attributes", Required: true, Kind: KindMap},
			{Name: "relations", Required: true, Kind: KindComposite, Elem: types.ShapeRelations},
		},
	},
}

// ContractFor returns the contract registered for the shape.
// Returns types.ErrUnknownShape for a Shape value outside the closed
// set, which can only be constructed by casting.
func ContractFor(shape types.Shape) (Contract, error) {
	c, ok := contracts[shape]
	if !ok {
		return Contract{}, types.ErrUnknownShape
	}
	return c, nil
}
