package models

// Collection names in the document database.
const (
	CollectionServices = "services"
	CollectionBookings = "bookings"
)

// Booking statuses. Stored as free-form strings; these are the values the
// clients are known to send.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
	StatusCompleted = "completed"
)

// Document field names handled specially by the API. _id and createdAt are
// server-assigned and never taken from the request body.
const (
	FieldID        = "_id"
	FieldCreatedAt = "createdAt"
	FieldStatus    = "status"
)
