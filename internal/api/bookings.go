package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"atelier/internal/domain"
	"atelier/internal/events"
	"atelier/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBookings(w, r)
	case http.MethodPost:
		s.createBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "/bookings/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getBooking(w, r, id)
	case http.MethodPut:
		s.updateBookingStatus(w, r, id)
	case http.MethodDelete:
		s.deleteBooking(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.storeCtx(r)
	defer cancel()

	docs, err := s.store.FindAll(ctx, models.CollectionBookings)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	doc, ok := decodeBody(w, r)
	if !ok {
		return
	}
	delete(doc, models.FieldID)

	if err := models.ValidateBooking(doc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// createdAt is server-assigned; whatever the caller sent is discarded.
	doc[models.FieldCreatedAt] = time.Now().UTC().Format(time.RFC3339)

	ctx, cancel := s.storeCtx(r)
	defer cancel()

	id, err := s.store.Insert(ctx, models.CollectionBookings, doc)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	doc[models.FieldID] = id
	_ = s.bus.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		BookingID: id.Hex(),
		ServiceID: stringField(doc, "serviceId"),
		UserEmail: stringField(doc, "userEmail"),
		Status:    stringField(doc, models.FieldStatus),
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"insertedId": id.Hex(),
		"booking":    doc,
	})
}

func (s *HTTPServer) getBooking(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	ctx, cancel := s.storeCtx(r)
	defer cancel()

	doc, err := s.store.FindOne(ctx, models.CollectionBookings, id)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *HTTPServer) updateBookingStatus(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	status, _ := body[models.FieldStatus].(string)
	if strings.TrimSpace(status) == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	ctx, cancel := s.storeCtx(r)
	defer cancel()

	matched, err := s.store.UpdateField(ctx, models.CollectionBookings, id, models.FieldStatus, status)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if matched == 0 {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}

	_ = s.bus.PublishJSON(events.EventBookingStatusChanged, events.BookingEventPayload{
		BookingID: id.Hex(),
		Status:    status,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "booking status updated",
		"modifiedCount": matched,
	})
}

func (s *HTTPServer) deleteBooking(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	ctx, cancel := s.storeCtx(r)
	defer cancel()

	count, err := s.store.Delete(ctx, models.CollectionBookings, id)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if count == 0 {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}

	_ = s.bus.PublishJSON(events.EventBookingDeleted, events.BookingEventPayload{
		BookingID: id.Hex(),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "booking deleted",
		"deletedCount": count,
	})
}
