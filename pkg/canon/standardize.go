package canon

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// The standardizers below accept the raw forms the data-access layer
// can produce: a string-keyed mapping (keys matched by normalizeKey
// and contract aliases), a positional sequence in contract field
// order, nil, or an already-canonical value, which passes through
// unchanged so standardization is idempotent. Unknown keys are
// dropped; missing optional fields take their contract default.
// Only a missing or unparseable identity field, or a raw value whose
// type precludes any field mapping, fails standardization.

func stdErr(shape types.Shape, path, reason string) error {
	return &types.StandardizationError{Shape: shape, Path: path, Reason: reason}
}

// nestErr requalifies a nested standardization failure with the
// parent shape and the path of the composite field that held it.
func nestErr(shape types.Shape, path string, err error) error {
	se, ok := err.(*types.StandardizationError)
	if !ok {
		return err
	}
	p := path
	if se.Path != "" {
		if strings.HasPrefix(se.Path, "[") {
			p = path + se.Path
		} else {
			p = path + "." + se.Path
		}
	}
	return &types.StandardizationError{Shape: shape, Path: p, Reason: se.Reason}
}

// namedParts extracts the shared id/name/description triple used by
// base_type and trait_type.
func namedParts(shape types.Shape, raw any) (int64, string, *string, error) {
	contract := contracts[shape]
	switch v := raw.(type) {
	case map[string]any:
		idRaw, ok := fieldValue(v, contract.Fields[0])
		if !ok || idRaw == nil {
			return 0, "", nil, stdErr(shape, "", "missing id")
		}
		id, ok := coerceID(idRaw)
		if !ok {
			return 0, "", nil, stdErr(shape, "id", "unparseable id")
		}
		var name string
		if nameRaw, ok := fieldValue(v, contract.Fields[1]); ok {
			name = coerceString(nameRaw)
		}
		var desc *string
		if descRaw, ok := fieldValue(v, contract.Fields[2]); ok {
			desc = coerceText(descRaw)
		}
		return id, name, desc, nil
	case []any:
		if len(v) == 0 || v[0] == nil {
			return 0, "", nil, stdErr(shape, "", "missing id")
		}
		id, ok := coerceID(v[0])
		if !ok {
			return 0, "", nil, stdErr(shape, "id", "unparseable id")
		}
		var name string
		if len(v) > 1 {
			name = coerceString(v[1])
		}
		var desc *string
		if len(v) > 2 {
			desc = coerceText(v[2])
		}
		return id, name, desc, nil
	case nil:
		return 0, "", nil, stdErr(shape, "", "missing id")
	default:
		return 0, "", nil, stdErr(shape, "", fmt.Sprintf("cannot map %T", raw))
	}
}

// StandardizeBaseType shapes raw input into a BaseType.
func StandardizeBaseType(raw any) (types.BaseType, error) {
	switch v := raw.(type) {
	case types.BaseType:
		return v, nil
	case *types.BaseType:
		if v == nil {
			return types.BaseType{}, stdErr(types.ShapeBaseType, "", "missing id")
		}
		return *v, nil
	}
	id, name, desc, err := namedParts(types.ShapeBaseType, raw)
	if err != nil {
		return types.BaseType{}, err
	}
	return types.BaseType{ID: id, Name: name, Description: desc}, nil
}

// StandardizeTraitType shapes raw input into a TraitType.
func StandardizeTraitType(raw any) (types.TraitType, error) {
	switch v := raw.(type) {
	case types.TraitType:
		return v, nil
	case *types.TraitType:
		if v == nil {
			return types.TraitType{}, stdErr(types.ShapeTraitType, "", "missing id")
		}
		return *v, nil
	}
	id, name, desc, err := namedParts(types.ShapeTraitType, raw)
	if err != nil {
		return types.TraitType{}, err
	}
	return types.TraitType{ID: id, Name: name, Description: desc}, nil
}

// StandardizeModelType shapes raw input into a ModelType. Nil input
// is the empty-but-valid descriptor: zero base, no traits. A trait
// element that individually fails standardization fails the whole
// descriptor with a path-qualified error.
func StandardizeModelType(raw any) (types.ModelType, error) {
	switch v := raw.(type) {
	case types.ModelType:
		if v.Traits == nil {
			v.Traits = []types.TraitType{}
		}
		return v, nil
	case *types.ModelType:
		if v == nil {
			return types.ModelType{Traits: []types.TraitType{}}, nil
		}
		return StandardizeModelType(*v)
	case nil:
		return types.ModelType{Traits: []types.TraitType{}}, nil
	case map[string]any:
		contract := contracts[types.ShapeModelType]
		out := types.ModelType{Traits: []types.TraitType{}}

		if baseRaw, ok := fieldValue(v, contract.Fields[0]); ok && baseRaw != nil {
			base, err := StandardizeBaseType(baseRaw)
			if err != nil {
				return types.ModelType{}, nestErr(types.ShapeModelType, "base_model", err)
			}
			out.Base = base
		}

		if traitsRaw, ok := fieldValue(v, contract.Fields[1]); ok && traitsRaw != nil {
			seq, ok := asSeq(traitsRaw)
			if !ok {
				return types.ModelType{}, stdErr(types.ShapeModelType, "traits", "not a sequence")
			}
			for i, el := range seq {
				trait, err := StandardizeTraitType(el)
				if err != nil {
					return types.ModelType{}, nestErr(types.ShapeModelType, fmt.Sprintf("traits[%d]", i), err)
				}
				out.Traits = append(out.Traits, trait)
			}
		}
		return out, nil
	default:
		return types.ModelType{}, stdErr(types.ShapeModelType, "", fmt.Sprintf("cannot map %T", raw))
	}
}

// StandardizeModel shapes raw input into a Model summary.
func StandardizeModel(raw any) (types.Model, error) {
	contract := contracts[types.ShapeModel]
	switch v := raw.(type) {
	case types.Model:
		return v, nil
	case *types.Model:
		if v == nil {
			return types.Model{}, stdErr(types.ShapeModel, "", "missing id")
		}
		return *v, nil
	case map[string]any:
		idRaw, ok := fieldValue(v, contract.Fields[0])
		if !ok || idRaw == nil {
			return types.Model{}, stdErr(types.ShapeModel, "", "missing id")
		}
		id, ok := coerceID(idRaw)
		if !ok {
			return types.Model{}, stdErr(types.ShapeModel, "id", "unparseable id")
		}
		out := types.Model{ID: id}
		if titleRaw, ok := fieldValue(v, contract.Fields[1]); ok {
			out.Title = coerceString(titleRaw)
		}
		if bodyRaw, ok := fieldValue(v, contract.Fields[2]); ok {
			out.Body = coerceText(bodyRaw)
		}
		if createdRaw, ok := fieldValue(v, contract.Fields[3]); ok {
			out.CreatedAt = coerceTime(createdRaw)
		}
		if updatedRaw, ok := fieldValue(v, contract.Fields[4]); ok {
			out.UpdatedAt = coerceTime(updatedRaw)
		}
		return out, nil
	case []any:
		if len(v) == 0 || v[0] == nil {
			return types.Model{}, stdErr(types.ShapeModel, "", "missing id")
		}
		id, ok := coerceID(v[0])
		if !ok {
			return types.Model{}, stdErr(types.ShapeModel, "id", "unparseable id")
		}
		out := types.Model{ID: id}
		if len(v) > 1 {
			out.Title = coerceString(v[1])
		}
		if len(v) > 2 {
			out.Body = coerceText(v[2])
		}
		if len(v) > 3 {
			out.CreatedAt = coerceTime(v[3])
		}
		if len(v) > 4 {
			out.UpdatedAt = coerceTime(v[4])
		}
		return out, nil
	case nil:
		return types.Model{}, stdErr(types.ShapeModel, "", "missing id")
	default:
		return types.Model{}, stdErr(types.ShapeModel, "", fmt.Sprintf("cannot map %T", raw))
	}
}

// otherModelField matches the nested target-model mapping the
// original query function emitted on each relation row.
var otherModelField = Field{Name: "other_model", Aliases: []string{"other", "target_model"}}

// StandardizeRelationRef shapes raw input into a RelationRef.
// Rows that carry the target as a nested other_model mapping are
// flattened: target_id and target_title are lifted from it.
func StandardizeRelationRef(raw any) (types.RelationRef, error) {
	contract := contracts[types.ShapeRelationRef]
	switch v := raw.(type) {
	case types.RelationRef:
		return v, nil
	case *types.RelationRef:
		if v == nil {
			return types.RelationRef{}, stdErr(types.ShapeRelationRef, "", "missing target_id")
		}
		return *v, nil
	case map[string]any:
		var nested map[string]any
		idRaw, ok := fieldValue(v, contract.Fields[0])
		if !ok || idRaw == nil {
			if otherRaw, found := fieldValue(v, otherModelField); found {
				if om, isMap := asMap(otherRaw); isMap {
					nested = om
					idRaw, ok = fieldValue(om, Field{Name: "id"})
				}
			}
		}
		if !ok || idRaw == nil {
			return types.RelationRef{}, stdErr(types.ShapeRelationRef, "", "missing target_id")
		}
		id, ok := coerceID(idRaw)
		if !ok {
			return types.RelationRef{}, stdErr(types.ShapeRelationRef, "target_id", "unparseable target_id")
		}
		out := types.RelationRef{TargetID: id}
		if nameRaw, ok := fieldValue(v, contract.Fields[1]); ok {
			out.RelationName = coerceString(nameRaw)
		}
		if titleRaw, ok := fieldValue(v, contract.Fields[2]); ok {
			out.TargetTitle = coerceText(titleRaw)
		} else if nested != nil {
			if titleRaw, ok := fieldValue(nested, Field{Name: "title", Aliases: []string{"name"}}); ok {
				out.TargetTitle = coerceText(titleRaw)
			}
		}
		return out, nil
	case []any:
		if len(v) == 0 || v[0] == nil {
			return types.RelationRef{}, stdErr(types.ShapeRelationRef, "", "missing target_id")
		}
		id, ok := coerceID(v[0])
		if !ok {
			return types.RelationRef{}, stdErr(types.ShapeRelationRef, "target_id", "unparseable target_id")
		}
		out := types.RelationRef{TargetID: id}
		if len(v) > 1 {
			out.RelationName = coerceString(v[1])
		}
		if len(v) > 2 {
			out.TargetTitle = coerceText(v[2])
		}
		return out, nil
	case nil:
		return types.RelationRef{}, stdErr(types.ShapeRelationRef, "", "missing target_id")
	default:
		return types.RelationRef{}, stdErr(types.ShapeRelationRef, "", fmt.Sprintf("cannot map %T", raw))
	}
}

// directionField matches the direction tag on flat relation rows.
var directionField = Field{Name: "direction"}

// StandardizeRelations shapes raw input into the directional relation
// buckets. Accepted forms: nil (both buckets empty), a mapping with
// outgoing/incoming sequences, or the flat row list the query layer
// produces, partitioned by each row's direction tag. A row with an
// unrecognized direction fails the whole value; a row with no
// direction is outgoing.
func StandardizeRelations(raw any) (types.Relations, error) {
	switch v := raw.(type) {
	case types.Relations:
		if v.Outgoing == nil {
			v.Outgoing = []types.RelationRef{}
		}
		if v.Incoming == nil {
			v.Incoming = []types.RelationRef{}
		}
		return v, nil
	case *types.Relations:
		if v == nil {
			return types.Relations{Outgoing: []types.RelationRef{}, Incoming: []types.RelationRef{}}, nil
		}
		return StandardizeRelations(*v)
	case nil:
		return types.Relations{Outgoing: []types.RelationRef{}, Incoming: []types.RelationRef{}}, nil
	case map[string]any:
		contract := contracts[types.ShapeRelations]
		out := types.Relations{Outgoing: []types.RelationRef{}, Incoming: []types.RelationRef{}}
		for i, bucket := range []*[]types.RelationRef{&out.Outgoing, &out.Incoming} {
			field := contract.Fields[i]
			bucketRaw, ok := fieldValue(v, field)
			if !ok || bucketRaw == nil {
				continue
			}
			seq, ok := asSeq(bucketRaw)
			if !ok {
				return types.Relations{}, stdErr(types.ShapeRelations, field.Name, "not a sequence")
			}
			for j, el := range seq {
				ref, err := StandardizeRelationRef(el)
				if err != nil {
					return types.Relations{}, nestErr(types.ShapeRelations, fmt.Sprintf("%s[%d]", field.Name, j), err)
				}
				*bucket = append(*bucket, ref)
			}
		}
		return out, nil
	case []any:
		out := types.Relations{Outgoing: []types.RelationRef{}, Incoming: []types.RelationRef{}}
		for i, el := range v {
			direction := ""
			if em, ok := asMap(el); ok {
				if dirRaw, found := fieldValue(em, directionField); found {
					direction = strings.ToLower(coerceString(dirRaw))
				}
			}
			ref, err := StandardizeRelationRef(el)
			if err != nil {
				return types.Relations{}, nestErr(types.ShapeRelations, fmt.Sprintf("[%d]", i), err)
			}
			switch direction {
			case "", "outgoing":
				out.Outgoing = append(out.Outgoing, ref)
			case "incoming":
				out.Incoming = append(out.Incoming, ref)
			default:
				return types.Relations{}, stdErr(types.ShapeRelations, fmt.Sprintf("[%d].direction", i), "unrecognized direction "+strconv.Quote(direction))
			}
		}
		return out, nil
	default:
		return types.Relations{}, stdErr(types.ShapeRelations, "", fmt.Sprintf("cannot map %T", raw))
	}
}

// StandardizeModelFullData shapes raw input into the complete model
// record. The model summary is the record's identity and must be
// present; type descriptor, attributes, and relations default to
// their empty-but-valid forms when absent.
func StandardizeModelFullData(raw any) (types.ModelFullData, error) {
	switch v := raw.(type) {
	case types.ModelFullData:
		if v.ModelType.Traits == nil {
			v.ModelType.Traits = []types.TraitType{}
		}
		if v.Attributes == nil {
			v.Attributes = map[string]any{}
		}
		if v.Relations.Outgoing == nil {
			v.Relations.Outgoing = []types.RelationRef{}
		}
		if v.Relations.Incoming == nil {
			v.Relations.Incoming = []types.RelationRef{}
		}
		return v, nil
	case *types.ModelFullData:
		if v == nil {
			return types.ModelFullData{}, stdErr(types.ShapeModelFullData, "model", "missing model")
		}
		return StandardizeModelFullData(*v)
	case nil:
		return types.ModelFullData{}, stdErr(types.ShapeModelFullData, "model", "missing model")
	case map[string]any:
		contract := contracts[types.ShapeModelFullData]
		out := types.ModelFullData{}

		modelRaw, ok := fieldValue(v, contract.Fields[0])
		if !ok || modelRaw == nil {
			return types.ModelFullData{}, stdErr(types.ShapeModelFullData, "model", "missing model")
		}
		model, err := StandardizeModel(modelRaw)
		if err != nil {
			return types.ModelFullData{}, nestErr(types.ShapeModelFullData, "model", err)
		}
		out.Model = model

		typeRaw, _ := fieldValue(v, contract.Fields[1])
		modelType, err := StandardizeModelType(typeRaw)
		if err != nil {
			return types.ModelFullData{}, nestErr(types.ShapeModelFullData, "model_type", err)
		}
		out.ModelType = modelType

		out.Attributes = map[string]any{}
		if attrRaw, ok := fieldValue(v, contract.Fields[2]); ok && attrRaw != nil {
			attrs, ok := asMap(attrRaw)
			if !ok {
				return types.ModelFullData{}, stdErr(types.ShapeModelFullData, "attributes", "not a mapping")
			}
			for k, val := range attrs {
				out.Attributes[k] = val
			}
		}

		relRaw, _ := fieldValue(v, contract.Fields[3])
		relations, err := StandardizeRelations(relRaw)
		if err != nil {
			return types.ModelFullData{}, nestErr(types.ShapeModelFullData, "relations", err)
		}
		out.Relations = relations

		return out, nil
	default:
		return types.ModelFullData{}, stdErr(types.ShapeModelFullData, "", fmt.Sprintf("cannot map %T", raw))
	}
}
