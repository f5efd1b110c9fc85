package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/internal/sqlite"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// envelope mirrors types.Envelope with the data payload left raw for
// per-test decoding.
type envelope struct {
	Success      bool            `json:"success"`
	Data         json.RawMessage `json:"data"`
	Message      string          `json:"message"`
	ErrorMessage string          `json:"error_message"`
	Detail       string          `json:"detail"`
}

func newTestHandler(t *testing.T) (http.Handler, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore()
	err := store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Detach() })

	srv := New(Config{Store: store})
	return srv.Routes(), store
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestListPeople(t *testing.T) {
	h, store := newTestHandler(t)

	t.Run("empty store", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/api/people", "")
		assert.Equal(t, http.StatusOK, status)
		require.True(t, env.Success)
		assert.Equal(t, "Found 0 people in your knowledge base", env.Message)

		var data struct {
			People []types.Model `json:"people"`
			Count  int           `json:"count"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.NotNil(t, data.People)
		assert.Zero(t, data.Count)
	})

	require.NoError(t, store.Seed())

	t.Run("seeded store", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/api/people", "")
		assert.Equal(t, http.StatusOK, status)
		require.True(t, env.Success)

		var data struct {
			People []types.Model `json:"people"`
			Count  int           `json:"count"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, 3, data.Count)
		assert.Equal(t, "Alice Johnson", data.People[0].Title)
	})

	t.Run("type filter", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/api/people?type=Company", "")
		assert.Equal(t, http.StatusOK, status)
		var data struct {
			People []types.Model `json:"people"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		require.Len(t, data.People, 1)
		assert.Equal(t, "Acme Corporation", data.People[0].Title)
	})
}

func TestAddPerson(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("created", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/people",
			`{"name": "Alice Johnson", "description": "Engineer"}`)
		assert.Equal(t, http.StatusCreated, status)
		require.True(t, env.Success)
		assert.Equal(t, `Successfully added "Alice Johnson" to your knowledge base`, env.Message)

		var model types.Model
		require.NoError(t, json.Unmarshal(env.Data, &model))
		assert.Equal(t, "Alice Johnson", model.Title)
		require.NotNil(t, model.Body)
		assert.Equal(t, "Engineer", *model.Body)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/people", `{"name": "Alice Johnson"}`)
		assert.Equal(t, http.StatusConflict, status)
		assert.False(t, env.Success)
		assert.Equal(t, "person already exists", env.ErrorMessage)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/people", `{"name": "   "}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.False(t, env.Success)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/people", `{"name": `)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "invalid request body", env.ErrorMessage)
	})
}

func TestPersonDetails(t *testing.T) {
	h, store := newTestHandler(t)
	require.NoError(t, store.Seed())

	t.Run("full record", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/api/people/1", "")
		assert.Equal(t, http.StatusOK, status)
		require.True(t, env.Success)

		var full types.ModelFullData
		require.NoError(t, json.Unmarshal(env.Data, &full))
		assert.Equal(t, "Alice Johnson", full.Model.Title)
		assert.Equal(t, "Person", full.ModelType.Base.Name)
		require.Len(t, full.ModelType.Traits, 1)
		assert.Equal(t, "Employee", full.ModelType.Traits[0].Name)
		assert.Equal(t, map[string]any{"age": "28"}, full.Attributes)
		require.Len(t, full.Relations.Outgoing, 1)
		assert.Equal(t, "works_for", full.Relations.Outgoing[0].RelationName)
		require.Len(t, full.Relations.Incoming, 1)
		assert.Equal(t, "manages", full.Relations.Incoming[0].RelationName)
	})

	t.Run("relationless person has empty buckets", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/api/people/3", "")
		assert.Equal(t, http.StatusOK, status)
		var full types.ModelFullData
		require.NoError(t, json.Unmarshal(env.Data, &full))
		assert.Equal(t, "Carol Nguyen", full.Model.Title)
		assert.NotNil(t, full.Relations.Outgoing)
		assert.NotNil(t, full.Relations.Incoming)
		assert.Empty(t, full.Relations.Outgoing)
		assert.Empty(t, full.Relations.Incoming)
	})

	t.Run("unknown person", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/api/people/42", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.False(t, env.Success)
		assert.Equal(t, "person not found", env.ErrorMessage)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/api/people/alice", "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "invalid person id", env.ErrorMessage)
	})
}

func TestAssignTrait(t *testing.T) {
	h, store := newTestHandler(t)
	require.NoError(t, store.Seed())

	t.Run("assigned", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/people/3/traits", `{"name": "Illustrator"}`)
		assert.Equal(t, http.StatusOK, status)
		require.True(t, env.Success)

		var descriptor types.ModelType
		require.NoError(t, json.Unmarshal(env.Data, &descriptor))
		require.Len(t, descriptor.Traits, 1)
		assert.Equal(t, "Illustrator", descriptor.Traits[0].Name)
	})

	t.Run("missing name", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/people/3/traits", `{}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "trait name is required", env.ErrorMessage)
	})

	t.Run("unknown person", func(t *testing.T) {
		status, _ := do(t, h, http.MethodPost, "/api/people/42/traits", `{"name": "Employee"}`)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestSetAttribute(t *testing.T) {
	h, store := newTestHandler(t)
	require.NoError(t, store.Seed())

	t.Run("set and overwrite", func(t *testing.T) {
		status, _ := do(t, h, http.MethodPost, "/api/people/1/attributes", `{"key": "age", "value": 29}`)
		assert.Equal(t, http.StatusOK, status)

		status, env := do(t, h, http.MethodPost, "/api/people/1/attributes", `{"key": "city", "value": "Portland"}`)
		assert.Equal(t, http.StatusOK, status)

		var full types.ModelFullData
		require.NoError(t, json.Unmarshal(env.Data, &full))
		assert.Equal(t, "29", full.Attributes["age"])
		assert.Equal(t, "Portland", full.Attributes["city"])
	})

	t.Run("missing key", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/people/1/attributes", `{"value": 29}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "attribute key is required", env.ErrorMessage)
	})
}

func TestAddRelation(t *testing.T) {
	h, store := newTestHandler(t)
	require.NoError(t, store.Seed())

	t.Run("created", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/relations",
			`{"from_id": 3, "to_id": 1, "name": "knows"}`)
		assert.Equal(t, http.StatusCreated, status)
		require.True(t, env.Success)

		var ref types.RelationRef
		require.NoError(t, json.Unmarshal(env.Data, &ref))
		assert.Equal(t, int64(1), ref.TargetID)
		assert.Equal(t, "knows", ref.RelationName)
	})

	t.Run("missing name", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/relations", `{"from_id": 1, "to_id": 2}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "relation name is required", env.ErrorMessage)
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/api/relations",
			`{"from_id": 1, "to_id": 42, "name": "knows"}`)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "person not found", env.ErrorMessage)
	})
}

func TestTypeDescriptor(t *testing.T) {
	h, store := newTestHandler(t)
	require.NoError(t, store.Seed())

	t.Run("known type", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/api/types/Person", "")
		assert.Equal(t, http.StatusOK, status)
		require.True(t, env.Success)

		var descriptor types.ModelType
		require.NoError(t, json.Unmarshal(env.Data, &descriptor))
		assert.Equal(t, "Person", descriptor.Base.Name)
		traitNames := make([]string, len(descriptor.Traits))
		for i, trait := range descriptor.Traits {
			traitNames[i] = trait.Name
		}
		assert.ElementsMatch(t, []string{"Employee", "Manager"}, traitNames)
	})

	t.Run("unknown type", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/api/types/Widget", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "model type not found", env.ErrorMessage)
	})
}

// faultStore simulates a backend that fails every read.
type faultStore struct {
	types.Store
}

func (faultStore) ListModels(string) ([]map[string]any, error) {
	return nil, errors.New("database is locked")
}

func (faultStore) ModelFull(int64) (map[string]any, error) {
	return nil, errors.New("database is locked")
}

func TestBackendFaultBecomesErrorEnvelope(t *testing.T) {
	srv := New(Config{Store: faultStore{}})
	h := srv.Routes()

	for _, path := range []string{"/api/people", "/api/people/1"} {
		status, env := do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadGateway, status, path)
		assert.False(t, env.Success)
		assert.Equal(t, "backend unavailable", env.Detail, path)
		assert.True(t, strings.Contains(env.ErrorMessage, "database is locked"), path)
		assert.Empty(t, env.Data, path)
	}
}
