package canon

import (
	"time"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// The validator works over string-keyed mappings. candidateMap
// flattens canonical structs into the equivalent mapping so typed and
// raw candidates validate through the same contract walk. Nil slices
// and maps flatten to null, so a hand-built struct that skipped a
// required sequence is reported exactly like raw input that omitted it.

func textVal(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func timeVal(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func baseTypeMap(b types.BaseType) map[string]any {
	return map[string]any{
		"id":          b.ID,
		"name":        b.Name,
		"description": textVal(b.Description),
	}
}

func traitTypeMap(t types.TraitType) map[string]any {
	return map[string]any{
		"id":          t.ID,
		"name":        t.Name,
		"description": textVal(t.Description),
	}
}

func modelTypeMap(mt types.ModelType) map[string]any {
	var traits any
	if mt.Traits != nil {
		seq := make([]any, len(mt.Traits))
		for i, t := range mt.Traits {
			seq[i] = traitTypeMap(t)
		}
		traits = seq
	}
	return map[string]any{
		"base_model": baseTypeMap(mt.Base),
		"traits":     traits,
	}
}

func modelMap(m types.Model) map[string]any {
	return map[string]any{
		"id":         m.ID,
		"title":      m.Title,
		"body":       textVal(m.Body),
		"created_at": timeVal(m.CreatedAt),
		"updated_at": timeVal(m.UpdatedAt),
	}
}

func relationRefMap(r types.RelationRef) map[string]any {
	return map[string]any{
		"target_id":     r.TargetID,
		"relation_name": r.RelationName,
		"target_title":  textVal(r.TargetTitle),
	}
}

func refSeq(refs []types.RelationRef) any {
	if refs == nil {
		return nil
	}
	seq := make([]any, len(refs))
	for i, r := range refs {
		seq[i] = relationRefMap(r)
	}
	return seq
}

func relationsMap(r types.Relations) map[string]any {
	return map[string]any{
		"outgoing": refSeq(r.Outgoing),
		"incoming": refSeq(r.Incoming),
	}
}

func modelFullDataMap(m types.ModelFullData) map[string]any {
	var attrs any
	if m.Attributes != nil {
		attrs = m.Attributes
	}
	return map[string]any{
		"model":      modelMap(m.Model),
		"model_type": modelTypeMap(m.ModelType),
		"attributes": attrs,
		"relations":  relationsMap(m.Relations),
	}
}

// candidateMap converts a validation candidate to a string-keyed
// mapping. Reports false when the candidate is not mapping-like.
func candidateMap(candidate any) (map[string]any, bool) {
	switch v := candidate.(type) {
	case map[string]any:
		return v, true
	case types.BaseType:
		return baseTypeMap(v), true
	case *types.BaseType:
		if v == nil {
			return nil, false
		}
		return baseTypeMap(*v), true
	case types.TraitType:
		return traitTypeMap(v), true
	case *types.TraitType:
		if v == nil {
			return nil, false
		}
		return traitTypeMap(*v), true
	case types.ModelType:
		return modelTypeMap(v), true
	case *types.ModelType:
		if v == nil {
			return nil, false
		}
		return modelTypeMap(*v), true
	case types.Model:
		return modelMap(v), true
	case *types.Model:
		if v == nil {
			return nil, false
		}
		return modelMap(*v), true
	case types.RelationRef:
		return relationRefMap(v), true
	case *types.RelationRef:
		if v == nil {
			return nil, false
		}
		return relationRefMap(*v), true
	case types.Relations:
		return relationsMap(v), true
	case *types.Relations:
		if v == nil {
			return nil, false
		}
		return relationsMap(*v), true
	case types.ModelFullData:
		return modelFullDataMap(v), true
	case *types.ModelFullData:
		if v == nil {
			return nil, false
		}
		return modelFullDataMap(*v), true
	default:
		return nil, false
	}
}
