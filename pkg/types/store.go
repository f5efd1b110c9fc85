package types

// Store is the raw data-access producer. Implementations return
// loosely-typed nested structures (map[string]any trees, ids as
// int64, timestamps as RFC3339 strings) exactly as the query layer
// yields them; shaping them into canonical types is the canon
// package's job. Methods return an error only on true backend
// failure, never for shape mismatches.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	// After Detach, operations return ErrStoreDetached.
	Detach() error

	// ListModels returns summary rows for all models of the named
	// base type, in id order. An unknown type name yields an empty
	// slice, not an error.
	ListModels(typeName string) ([]map[string]any, error)

	// ModelFull assembles the complete nested record for a model:
	// summary, type descriptor with traits, attributes, and a flat
	// relation list tagged with direction.
	// Returns ErrModelNotFound if no model has the given id.
	ModelFull(id int64) (map[string]any, error)

	// TypeDescriptor returns the raw descriptor for the named base
	// type: its row plus the distinct trait types assigned to models
	// of that type. Returns ErrTypeNotFound for an unknown name.
	TypeDescriptor(name string) (map[string]any, error)

	// AddModel creates a model under the named base type, creating
	// the type if needed. Returns the new model's summary row.
	// Returns ErrInvalidTitle for an empty title and
	// ErrDuplicateTitle when a model of that type and title exists.
	AddModel(typeName, title, body string) (map[string]any, error)

	// AssignTrait attaches the named trait type to a model's type.
	// Creates the trait type if needed. Idempotent.
	AssignTrait(modelID int64, traitName string) error

	// SetAttribute sets a named attribute value on a model.
	SetAttribute(modelID int64, key string, value any) error

	// AddRelation records a directed, named relation between two
	// models and returns its raw row.
	AddRelation(fromID, toID int64, name string) (map[string]any, error)

	// Seed loads the demonstration dataset.
	Seed() error
}
