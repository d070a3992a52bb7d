package api

import (
	"errors"
	"net/http"

	"atelier/internal/domain"
	"atelier/internal/events"
	"atelier/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *HTTPServer) handleServices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listServices(w, r)
	case http.MethodPost:
		s.createService(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleServiceByID(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "/services/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getService(w, r, id)
	case http.MethodPatch:
		s.patchService(w, r, id)
	case http.MethodDelete:
		s.deleteService(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listServices(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.storeCtx(r)
	defer cancel()

	docs, err := s.store.FindAll(ctx, models.CollectionServices)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *HTTPServer) createService(w http.ResponseWriter, r *http.Request) {
	doc, ok := decodeBody(w, r)
	if !ok {
		return
	}
	delete(doc, models.FieldID)

	if err := models.ValidateService(doc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := s.storeCtx(r)
	defer cancel()

	id, err := s.store.Insert(ctx, models.CollectionServices, doc)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	doc[models.FieldID] = id
	_ = s.bus.PublishJSON(events.EventServiceCreated, events.ServiceEventPayload{
		ServiceID: id.Hex(),
		Name:      stringField(doc, "name"),
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"insertedId": id.Hex(),
		"service":    doc,
	})
}

func (s *HTTPServer) getService(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	ctx, cancel := s.storeCtx(r)
	defer cancel()

	doc, err := s.store.FindOne(ctx, models.CollectionServices, id)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "service not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *HTTPServer) patchService(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	partial, ok := decodeBody(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.storeCtx(r)
	defer cancel()

	doc, err := s.store.UpdateMerge(ctx, models.CollectionServices, id, partial)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "service not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	_ = s.bus.PublishJSON(events.EventServiceUpdated, events.ServiceEventPayload{
		ServiceID: id.Hex(),
		Name:      stringField(doc, "name"),
	})

	writeJSON(w, http.StatusOK, doc)
}

func (s *HTTPServer) deleteService(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	ctx, cancel := s.storeCtx(r)
	defer cancel()

	count, err := s.store.Delete(ctx, models.CollectionServices, id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if count == 0 {
		writeError(w, http.StatusNotFound, "service not found")
		return
	}

	_ = s.bus.PublishJSON(events.EventServiceDeleted, events.ServiceEventPayload{
		ServiceID: id.Hex(),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "service deleted",
		"deletedCount": count,
	})
}

// stringField pulls a string-valued field out of a free-form document.
func stringField(doc domain.Document, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}
