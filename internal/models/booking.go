package models

import "atelier/internal/domain"

// BookingRequiredFields must all be present and non-empty when a booking is
// created. message and status are optional; createdAt is server-assigned.
//
// serviceId is stored as an opaque string and is not checked against the
// services collection.
var BookingRequiredFields = []string{
	"serviceId",
	"userName",
	"userEmail",
}

func ValidateBooking(doc domain.Document) error {
	return ValidateRequired("booking", doc, BookingRequiredFields)
}
