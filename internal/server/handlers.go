package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/satchel/pkg/canon"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// defaultTypeName is the base type the people endpoints operate on.
const defaultTypeName = "Person"

// peopleList is the data payload of the list endpoint.
type peopleList struct {
	People []types.Model `json:"people"`
	Count  int           `json:"count"`
}

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	typeName := r.URL.Query().Get("type")
	if typeName == "" {
		typeName = defaultTypeName
	}

	models, err := s.pipeline.Models(func() ([]map[string]any, error) {
		return s.store.ListModels(typeName)
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	data := peopleList{People: models, Count: len(models)}
	message := fmt.Sprintf("Found %d people in your knowledge base", len(models))
	s.writeEnvelope(w, http.StatusOK, canon.SuccessEnvelope(data, message))
}

type addPersonRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	var req addPersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeEnvelope(w, http.StatusBadRequest,
			canon.ErrorEnvelope("invalid request body", err.Error()))
		return
	}

	model, err := s.pipeline.Model(func() (any, error) {
		row, err := s.store.AddModel(defaultTypeName, req.Name, req.Description)
		if err != nil {
			return nil, err
		}
		return row, nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	message := fmt.Sprintf("Successfully added %q to your knowledge base", model.Title)
	s.writeEnvelope(w, http.StatusCreated, canon.SuccessEnvelope(model, message))
}

func (s *Server) handlePersonDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	full, err := s.pipeline.ModelFullData(func() (any, error) {
		row, err := s.store.ModelFull(id)
		if err != nil {
			return nil, err
		}
		return row, nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	message := fmt.Sprintf("Retrieved details for person %d", id)
	s.writeEnvelope(w, http.StatusOK, canon.SuccessEnvelope(full, message))
}

type assignTraitRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAssignTrait(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req assignTraitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeEnvelope(w, http.StatusBadRequest,
			canon.ErrorEnvelope("invalid request body", err.Error()))
		return
	}
	if req.Name == "" {
		s.writeEnvelope(w, http.StatusBadRequest,
			canon.ErrorEnvelope("trait name is required", ""))
		return
	}

	if err := s.store.AssignTrait(id, req.Name); err != nil {
		s.fail(w, err)
		return
	}

	full, err := s.pipeline.ModelFullData(func() (any, error) {
		row, err := s.store.ModelFull(id)
		if err != nil {
			return nil, err
		}
		return row, nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	message := fmt.Sprintf("Assigned trait %q to person %d", req.Name, id)
	s.writeEnvelope(w, http.StatusOK, canon.SuccessEnvelope(full.ModelType, message))
}

type setAttributeRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func (s *Server) handleSetAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req setAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeEnvelope(w, http.StatusBadRequest,
			canon.ErrorEnvelope("invalid request body", err.Error()))
		return
	}
	if req.Key == "" {
		s.writeEnvelope(w, http.StatusBadRequest,
			canon.ErrorEnvelope("attribute key is required", ""))
		return
	}

	if err := s.store.SetAttribute(id, req.Key, req.Value); err != nil {
		s.fail(w, err)
		return
	}

	full, err := s.pipeline.ModelFullData(func() (any, error) {
		row, err := s.store.ModelFull(id)
		if err != nil {
			return nil, err
		}
		return row, nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	message := fmt.Sprintf("Set attribute %q on person %d", req.Key, id)
	s.writeEnvelope(w, http.StatusOK, canon.SuccessEnvelope(full, message))
}

type addRelationRequest struct {
	FromID int64  `json:"from_id"`
	ToID   int64  `json:"to_id"`
	Name   string `json:"name"`
}

func (s *Server) handleAddRelation(w http.ResponseWriter, r *http.Request) {
	var req addRelationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeEnvelope(w, http.StatusBadRequest,
			canon.ErrorEnvelope("invalid request body", err.Error()))
		return
	}
	if req.Name == "" {
		s.writeEnvelope(w, http.StatusBadRequest,
			canon.ErrorEnvelope("relation name is required", ""))
		return
	}

	row, err := s.store.AddRelation(req.FromID, req.ToID, req.Name)
	if err != nil {
		s.fail(w, err)
		return
	}

	ref, err := canon.StandardizeRelationRef(row)
	if err != nil {
		s.fail(w, err)
		return
	}

	message := fmt.Sprintf("Related %d to %d as %q", req.FromID, req.ToID, req.Name)
	s.writeEnvelope(w, http.StatusCreated, canon.SuccessEnvelope(ref, message))
}

func (s *Server) handleTypeDescriptor(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	descriptor, err := s.pipeline.ModelType(func() (any, error) {
		row, err := s.store.TypeDescriptor(name)
		if err != nil {
			return nil, err
		}
		return row, nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	message := fmt.Sprintf("Retrieved type descriptor for %q", name)
	s.writeEnvelope(w, http.StatusOK, canon.SuccessEnvelope(descriptor, message))
}

// pathID parses the {id} path parameter. On failure it writes a
// 400 envelope and reports false.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.writeEnvelope(w, http.StatusBadRequest,
			canon.ErrorEnvelope("invalid person id", fmt.Sprintf("id %q is not an integer", raw)))
		return 0, false
	}
	return id, true
}

// fail maps a pipeline or store error to its status code and failure
// envelope. Backend faults never escape as raw errors; every path out
// of a handler writes exactly one envelope.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrModelNotFound):
		s.writeEnvelope(w, http.StatusNotFound,
			canon.ErrorEnvelope("person not found", err.Error()))
	case errors.Is(err, types.ErrTypeNotFound):
		s.writeEnvelope(w, http.StatusNotFound,
			canon.ErrorEnvelope("model type not found", err.Error()))
	case errors.Is(err, types.ErrDuplicateTitle):
		s.writeEnvelope(w, http.StatusConflict,
			canon.ErrorEnvelope("person already exists", err.Error()))
	case errors.Is(err, types.ErrInvalidTitle):
		s.writeEnvelope(w, http.StatusBadRequest,
			canon.ErrorEnvelope("name is required and cannot be empty", err.Error()))
	default:
		var se *types.StandardizationError
		if errors.As(err, &se) {
			s.writeEnvelope(w, http.StatusInternalServerError, canon.EnvelopeFromError(err))
			return
		}
		s.writeEnvelope(w, http.StatusBadGateway, canon.EnvelopeFromError(err))
	}
}

// writeEnvelope serializes the envelope. A serialization failure at
// this point can only be logged; the status line is already out.
func (s *Server) writeEnvelope(w http.ResponseWriter, status int, env types.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Error("encoding response envelope", zap.Error(err))
	}
}
