package types

import "time"

// BaseType is the primary type of a model (e.g. "Person").
type BaseType struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// TraitType is a named capability attached to a model type
// (e.g. "Employee"). Structurally identical to BaseType; the two are
// distinct types so a trait cannot be passed where a base is expected.
type TraitType struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ModelType is the full type descriptor of a model: its base type
// plus zero or more traits. Traits is always non-nil after
// standardization, possibly empty.
type ModelType struct {
	Base   BaseType    `json:"base_model"`
	Traits []TraitType `json:"traits"`
}

// Model is the summary record of a knowledge-base entity.
type Model struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      *string    `json:"body"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// RelationRef points at the model on the other end of a relation.
type RelationRef struct {
	TargetID     int64   `json:"target_id"`
	RelationName string  `json:"relation_name"`
	TargetTitle  *string `json:"target_title"`
}

// Relations groups a model's relations by direction. Both slices are
// always non-nil after standardization, possibly empty.
type Relations struct {
	Outgoing []RelationRef `json:"outgoing"`
	Incoming []RelationRef `json:"incoming"`
}

// ModelFullData is the complete record for a single model: summary,
// type descriptor, attribute values, and relations in both directions.
type ModelFullData struct {
	Model      Model          `json:"model"`
	ModelType  ModelType      `json:"model_type"`
	Attributes map[string]any `json:"attributes"`
	Relations  Relations      `json:"relations"`
}
