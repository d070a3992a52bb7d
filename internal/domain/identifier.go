package domain

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseID decodes an externally supplied identifier into the store's native
// id type. Only a 24-character hex token is accepted; anything else yields
// ErrInvalidID.
func ParseID(raw string) (primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}
