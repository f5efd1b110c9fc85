// Package sqlite implements the SQLite storage backend for the
// Satchel knowledge store. It is the raw producer: accessors return
// loosely-typed nested maps straight off the query results, and the
// canon package shapes them before they reach the wire.
package sqlite

// Schema DDL. Mirrors the relational layout of the knowledge base:
// typed models with trait assignments, per-type attribute
// definitions, and directed named relations between models.
const (
	createModelTypes = `CREATE TABLE IF NOT EXISTS model_types (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    type_kind TEXT NOT NULL CHECK (type_kind IN ('base', 'trait')),
    description TEXT
);`

	createModels = `CREATE TABLE IF NOT EXISTS models (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    model_type_id INTEGER NOT NULL REFERENCES model_types(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    body TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTraitAssignments = `CREATE TABLE IF NOT EXISTS trait_assignments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    model_id INTEGER NOT NULL REFERENCES models(id) ON DELETE CASCADE,
    trait_type_id INTEGER NOT NULL REFERENCES model_types(id) ON DELETE CASCADE,
    applied_at TEXT NOT NULL,
    UNIQUE (model_id, trait_type_id)
);`

	createAttributeDefinitions = `CREATE TABLE IF NOT EXISTS attribute_definitions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    model_type_id INTEGER NOT NULL REFERENCES model_types(id) ON DELETE CASCADE,
    key TEXT NOT NULL,
    value_type TEXT NOT NULL DEFAULT 'string',
    UNIQUE (model_type_id, key)
);`

	createAttributes = `CREATE TABLE IF NOT EXISTS attributes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    model_id INTEGER NOT NULL REFERENCES models(id) ON DELETE CASCADE,
    attribute_definition_id INTEGER NOT NULL REFERENCES attribute_definitions(id) ON DELETE CASCADE,
    value TEXT,
    UNIQUE (model_id, attribute_definition_id)
);`

	createRelations = `CREATE TABLE IF NOT EXISTS relations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    from_id INTEGER NOT NULL REFERENCES models(id) ON DELETE CASCADE,
    to_id INTEGER NOT NULL REFERENCES models(id) ON DELETE CASCADE,
    created_at TEXT NOT NULL
);`

	createModelIndexes = `CREATE INDEX IF NOT EXISTS idx_models_type_title ON models(model_type_id, title);
CREATE INDEX IF NOT EXISTS idx_relations_from ON relations(from_id);
CREATE INDEX IF NOT EXISTS idx_relations_to ON relations(to_id);`
)

// schemaStatements lists all DDL in dependency order.
var schemaStatements = []string{
	createModelTypes,
	createModels,
	createTraitAssignments,
	createAttributeDefinitions,
	createAttributes,
	createRelations,
	createModelIndexes,
}
