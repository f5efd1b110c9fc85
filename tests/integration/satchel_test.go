// Package integration exercises the full stack end to end: a seeded
// SQLite store behind the HTTP server, driven through real requests,
// with every response checked against the envelope contract.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satchel/internal/server"
	"github.com/mesh-intelligence/satchel/internal/sqlite"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

type envelope struct {
	Success      bool            `json:"success"`
	Data         json.RawMessage `json:"data"`
	Message      string          `json:"message"`
	ErrorMessage string          `json:"error_message"`
	Detail       string          `json:"detail"`
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := sqlite.NewStore()
	err := store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, store.Seed())

	ts := httptest.NewServer(server.New(server.Config{Store: store}).Routes())
	t.Cleanup(func() {
		ts.Close()
		store.Detach()
	})
	return ts
}

func request(t *testing.T, method, url, body string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)

	if env.Success {
		assert.Empty(t, env.ErrorMessage, "success envelope must not carry an error")
		assert.Empty(t, env.Detail)
	} else {
		assert.Empty(t, env.Data, "failure envelope must not carry data")
		assert.NotEmpty(t, env.ErrorMessage)
	}
	return resp.StatusCode, env
}

func TestKnowledgeBaseRoundTrip(t *testing.T) {
	ts := startServer(t)

	var daveID int64

	t.Run("add a person", func(t *testing.T) {
		status, env := request(t, http.MethodPost, ts.URL+"/api/people",
			`{"name": "Dave Park", "description": "Data analyst"}`)
		require.Equal(t, http.StatusCreated, status)
		require.True(t, env.Success)

		var model types.Model
		require.NoError(t, json.Unmarshal(env.Data, &model))
		assert.Equal(t, "Dave Park", model.Title)
		daveID = model.ID
	})

	t.Run("person appears in the listing", func(t *testing.T) {
		status, env := request(t, http.MethodGet, ts.URL+"/api/people", "")
		require.Equal(t, http.StatusOK, status)

		var data struct {
			People []types.Model `json:"people"`
			Count  int           `json:"count"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, 4, data.Count)
		titles := make([]string, len(data.People))
		for i, p := range data.People {
			titles[i] = p.Title
		}
		assert.Contains(t, titles, "Dave Park")
	})

	t.Run("assign a trait", func(t *testing.T) {
		status, env := request(t, http.MethodPost,
			fmt.Sprintf("%s/api/people/%d/traits", ts.URL, daveID), `{"name": "Employee"}`)
		require.Equal(t, http.StatusOK, status)

		var descriptor types.ModelType
		require.NoError(t, json.Unmarshal(env.Data, &descriptor))
		require.Len(t, descriptor.Traits, 1)
		assert.Equal(t, "Employee", descriptor.Traits[0].Name)
	})

	t.Run("set an attribute", func(t *testing.T) {
		status, _ := request(t, http.MethodPost,
			fmt.Sprintf("%s/api/people/%d/attributes", ts.URL, daveID), `{"key": "age", "value": 31}`)
		require.Equal(t, http.StatusOK, status)
	})

	t.Run("relate to the seeded company", func(t *testing.T) {
		status, env := request(t, http.MethodPost, ts.URL+"/api/relations",
			fmt.Sprintf(`{"from_id": %d, "to_id": 4, "name": "works_for"}`, daveID))
		require.Equal(t, http.StatusCreated, status)

		var ref types.RelationRef
		require.NoError(t, json.Unmarshal(env.Data, &ref))
		assert.Equal(t, int64(4), ref.TargetID)
	})

	t.Run("full record reflects every write", func(t *testing.T) {
		status, env := request(t, http.MethodGet,
			fmt.Sprintf("%s/api/people/%d", ts.URL, daveID), "")
		require.Equal(t, http.StatusOK, status)

		var full types.ModelFullData
		require.NoError(t, json.Unmarshal(env.Data, &full))
		assert.Equal(t, "Dave Park", full.Model.Title)
		assert.Equal(t, "Person", full.ModelType.Base.Name)
		require.Len(t, full.ModelType.Traits, 1)
		assert.Equal(t, "31", full.Attributes["age"])
		require.Len(t, full.Relations.Outgoing, 1)
		assert.Equal(t, "works_for", full.Relations.Outgoing[0].RelationName)
		require.NotNil(t, full.Relations.Outgoing[0].TargetTitle)
		assert.Equal(t, "Acme Corporation", *full.Relations.Outgoing[0].TargetTitle)
	})

	t.Run("type descriptor aggregates traits", func(t *testing.T) {
		status, env := request(t, http.MethodGet, ts.URL+"/api/types/Person", "")
		require.Equal(t, http.StatusOK, status)

		var descriptor types.ModelType
		require.NoError(t, json.Unmarshal(env.Data, &descriptor))
		assert.Equal(t, "Person", descriptor.Base.Name)
		traitNames := make([]string, len(descriptor.Traits))
		for i, trait := range descriptor.Traits {
			traitNames[i] = trait.Name
		}
		assert.ElementsMatch(t, []string{"Employee", "Manager"}, traitNames)
	})

	t.Run("failures arrive as envelopes too", func(t *testing.T) {
		status, env := request(t, http.MethodGet, ts.URL+"/api/people/9999", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.False(t, env.Success)
		assert.Equal(t, "person not found", env.ErrorMessage)
	})
}
