package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Accessors return map[string]any trees with ids as int64, nullable
// text as nil, and timestamps as RFC3339 strings: the loose row form
// the canon standardizers expect. Shape guarantees (non-nil
// sequences, defaults) are canon's job, not this layer's.

// nullable converts a NullString to nil or its string value.
func nullable(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	return s.String
}

// ListModels returns summary rows for all models of the named base
// type, in id order.
func (s *Store) ListModels(typeName string) ([]map[string]any, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT m.id, m.title, m.body, m.created_at, m.updated_at
		FROM models m
		JOIN model_types t ON t.id = m.model_type_id
		WHERE t.name = ? AND t.type_kind = 'base'
		ORDER BY m.id`, typeName)
	if err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	defer rows.Close()

	out := []map[string]any{}
	for rows.Next() {
		var (
			id                   int64
			title                string
			body                 sql.NullString
			createdAt, updatedAt string
		)
		if err := rows.Scan(&id, &title, &body, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning model row: %w", err)
		}
		out = append(out, map[string]any{
			"id":         id,
			"title":      title,
			"body":       nullable(body),
			"created_at": createdAt,
			"updated_at": updatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	return out, nil
}

// AddModel creates a model under the named base type, creating the
// type if needed, and returns its raw summary row.
func (s *Store) AddModel(typeName, title, body string) (map[string]any, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, types.ErrInvalidTitle
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	typeID, err := getOrCreateType(tx, typeName, "base", "")
	if err != nil {
		return nil, err
	}

	var exists int
	err = tx.QueryRow("SELECT 1 FROM models WHERE model_type_id = ? AND title = ?", typeID, title).Scan(&exists)
	if err == nil {
		return nil, types.ErrDuplicateTitle
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("checking for duplicate title: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var bodyVal any
	if body = strings.TrimSpace(body); body != "" {
		bodyVal = body
	}
	res, err := tx.Exec(
		"INSERT INTO models (model_type_id, title, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		typeID, title, bodyVal, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting model: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading new model id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing model: %w", err)
	}

	return map[string]any{
		"id":         id,
		"title":      title,
		"body":       bodyVal,
		"created_at": now,
		"updated_at": now,
	}, nil
}

// ModelFull assembles the complete nested record for a model: summary
// row, type descriptor with traits, attribute values, and a flat
// relation list tagged with direction, each relation carrying its
// target as a nested other_model row.
func (s *Store) ModelFull(id int64) (map[string]any, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var (
		title                string
		body                 sql.NullString
		createdAt, updatedAt string
		typeID               int64
		typeName             string
		typeDesc             sql.NullString
	)
	err = db.QueryRow(`SELECT m.title, m.body, m.created_at, m.updated_at, t.id, t.name, t.description
		FROM models m
		JOIN model_types t ON t.id = m.model_type_id
		WHERE m.id = ?`, id).
		Scan(&title, &body, &createdAt, &updatedAt, &typeID, &typeName, &typeDesc)
	if err == sql.ErrNoRows {
		return nil, types.ErrModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting model %d: %w", id, err)
	}

	traits, err := s.traitRows(db, id)
	if err != nil {
		return nil, err
	}
	attributes, err := s.attributeMap(db, id)
	if err != nil {
		return nil, err
	}
	relations, err := s.relationRows(db, id)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"model": map[string]any{
			"id":         id,
			"title":      title,
			"body":       nullable(body),
			"created_at": createdAt,
			"updated_at": updatedAt,
		},
		"model_type": map[string]any{
			"base_model": map[string]any{
				"id":          typeID,
				"name":        typeName,
				"description": nullable(typeDesc),
			},
			"traits": traits,
		},
		"attributes": attributes,
		"relations":  relations,
	}, nil
}

// traitRows returns the trait type rows assigned to a model,
// in assignment order.
func (s *Store) traitRows(db *sql.DB, modelID int64) ([]any, error) {
	rows, err := db.Query(`SELECT t.id, t.name, t.description
		FROM trait_assignments a
		JOIN model_types t ON t.id = a.trait_type_id
		WHERE a.model_id = ?
		ORDER BY a.id`, modelID)
	if err != nil {
		return nil, fmt.Errorf("listing traits for model %d: %w", modelID, err)
	}
	defer rows.Close()

	out := []any{}
	for rows.Next() {
		var (
			id   int64
			name string
			desc sql.NullString
		)
		if err := rows.Scan(&id, &name, &desc); err != nil {
			return nil, fmt.Errorf("scanning trait row: %w", err)
		}
		out = append(out, map[string]any{
			"id":          id,
			"name":        name,
			"description": nullable(desc),
		})
	}
	return out, rows.Err()
}

// attributeMap returns a model's attribute values keyed by
// definition key.
func (s *Store) attributeMap(db *sql.DB, modelID int64) (map[string]any, error) {
	rows, err := db.Query(`SELECT d.key, a.value
		FROM attributes a
		JOIN attribute_definitions d ON d.id = a.attribute_definition_id
		WHERE a.model_id = ?
		ORDER BY d.key`, modelID)
	if err != nil {
		return nil, fmt.Errorf("listing attributes for model %d: %w", modelID, err)
	}
	defer rows.Close()

	out := map[string]any{}
	for rows.Next() {
		var (
			key   string
			value sql.NullString
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning attribute row: %w", err)
		}
		out[key] = nullable(value)
	}
	return out, rows.Err()
}

// relationRows returns a model's relations in both directions as a
// flat list, each row tagged with direction and carrying the model on
// the other end as a nested other_model row.
func (s *Store) relationRows(db *sql.DB, modelID int64) ([]any, error) {
	out := []any{}

	collect := func(query, direction string) error {
		rows, err := db.Query(query, modelID)
		if err != nil {
			return fmt.Errorf("listing %s relations for model %d: %w", direction, modelID, err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				relID, otherID int64
				name, title    string
			)
			if err := rows.Scan(&relID, &name, &otherID, &title); err != nil {
				return fmt.Errorf("scanning relation row: %w", err)
			}
			out = append(out, map[string]any{
				"relation_id":   relID,
				"relation_name": name,
				"direction":     direction,
				"other_model": map[string]any{
					"id":    otherID,
					"title": title,
				},
			})
		}
		return rows.Err()
	}

	outgoing := `SELECT r.id, r.name, m.id, m.title
		FROM relations r JOIN models m ON m.id = r.to_id
		WHERE r.from_id = ? ORDER BY r.id`
	if err := collect(outgoing, "outgoing"); err != nil {
		return nil, err
	}
	incoming := `SELECT r.id, r.name, m.id, m.title
		FROM relations r JOIN models m ON m.id = r.from_id
		WHERE r.to_id = ? ORDER BY r.id`
	if err := collect(incoming, "incoming"); err != nil {
		return nil, err
	}
	return out, nil
}

// TypeDescriptor returns the raw descriptor for the named base type:
// its row plus the distinct trait types assigned to models of that
// type.
func (s *Store) TypeDescriptor(name string) (map[string]any, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	var (
		id   int64
		desc sql.NullString
	)
	err = db.QueryRow(
		"SELECT id, description FROM model_types WHERE name = ? AND type_kind = 'base'", name,
	).Scan(&id, &desc)
	if err == sql.ErrNoRows {
		return nil, types.ErrTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting model type %q: %w", name, err)
	}

	rows, err := db.Query(`SELECT DISTINCT t.id, t.name, t.description
		FROM trait_assignments a
		JOIN model_types t ON t.id = a.trait_type_id
		JOIN models m ON m.id = a.model_id
		WHERE m.model_type_id = ?
		ORDER BY t.id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing traits for type %q: %w", name, err)
	}
	defer rows.Close()

	traits := []any{}
	for rows.Next() {
		var (
			traitID   int64
			traitName string
			traitDesc sql.NullString
		)
		if err := rows.Scan(&traitID, &traitName, &traitDesc); err != nil {
			return nil, fmt.Errorf("scanning trait row: %w", err)
		}
		traits = append(traits, map[string]any{
			"id":          traitID,
			"name":        traitName,
			"description": nullable(traitDesc),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing traits for type %q: %w", name, err)
	}

	return map[string]any{
		"base_model": map[string]any{
			"id":          id,
			"name":        name,
			"description": nullable(desc),
		},
		"traits": traits,
	}, nil
}

// AssignTrait attaches the named trait type to a model, creating the
// trait type if needed. Idempotent.
func (s *Store) AssignTrait(modelID int64, traitName string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	if err := s.requireModel(db, modelID); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	traitID, err := getOrCreateType(tx, traitName, "trait", "")
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(
		"INSERT OR IGNORE INTO trait_assignments (model_id, trait_type_id, applied_at) VALUES (?, ?, ?)",
		modelID, traitID, now,
	)
	if err != nil {
		return fmt.Errorf("assigning trait: %w", err)
	}
	return tx.Commit()
}

// SetAttribute sets a named attribute value on a model, creating the
// attribute definition for the model's type if needed.
func (s *Store) SetAttribute(modelID int64, key string, value any) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	var typeID int64
	err = db.QueryRow("SELECT model_type_id FROM models WHERE id = ?", modelID).Scan(&typeID)
	if err == sql.ErrNoRows {
		return types.ErrModelNotFound
	}
	if err != nil {
		return fmt.Errorf("getting model %d: %w", modelID, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var defID int64
	err = tx.QueryRow(
		"SELECT id FROM attribute_definitions WHERE model_type_id = ? AND key = ?", typeID, key,
	).Scan(&defID)
	if err == sql.ErrNoRows {
		res, insErr := tx.Exec(
			"INSERT INTO attribute_definitions (model_type_id, key) VALUES (?, ?)", typeID, key,
		)
		if insErr != nil {
			return fmt.Errorf("creating attribute definition: %w", insErr)
		}
		defID, err = res.LastInsertId()
	}
	if err != nil {
		return fmt.Errorf("resolving attribute definition: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO attributes (model_id, attribute_definition_id, value)
		VALUES (?, ?, ?)
		ON CONFLICT (model_id, attribute_definition_id) DO UPDATE SET value = excluded.value`,
		modelID, defID, fmt.Sprint(value),
	)
	if err != nil {
		return fmt.Errorf("setting attribute: %w", err)
	}
	return tx.Commit()
}

// AddRelation records a directed, named relation between two models
// and returns its raw row.
func (s *Store) AddRelation(fromID, toID int64, name string) (map[string]any, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	if err := s.requireModel(db, fromID); err != nil {
		return nil, err
	}
	if err := s.requireModel(db, toID); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.Exec(
		"INSERT INTO relations (name, from_id, to_id, created_at) VALUES (?, ?, ?, ?)",
		name, fromID, toID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting relation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading new relation id: %w", err)
	}
	return map[string]any{
		"id":         id,
		"name":       name,
		"from_id":    fromID,
		"to_id":      toID,
		"created_at": now,
	}, nil
}

// requireModel returns ErrModelNotFound unless the model exists.
func (s *Store) requireModel(db *sql.DB, id int64) error {
	var one int
	err := db.QueryRow("SELECT 1 FROM models WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return types.ErrModelNotFound
	}
	if err != nil {
		return fmt.Errorf("checking model %d: %w", id, err)
	}
	return nil
}

// getOrCreateType resolves a model type by name and kind, creating it
// when absent.
func getOrCreateType(tx *sql.Tx, name, kind, description string) (int64, error) {
	var id int64
	err := tx.QueryRow(
		"SELECT id FROM model_types WHERE name = ? AND type_kind = ?", name, kind,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("resolving model type %q: %w", name, err)
	}

	var descVal any
	if description != "" {
		descVal = description
	}
	res, err := tx.Exec(
		"INSERT INTO model_types (name, type_kind, description) VALUES (?, ?, ?)",
		name, kind, descVal,
	)
	if err != nil {
		return 0, fmt.Errorf("creating model type %q: %w", name, err)
	}
	return res.LastInsertId()
}
