package models

import (
	"errors"
	"testing"

	"atelier/internal/domain"
)

func fullServiceDoc() domain.Document {
	return domain.Document{
		"name":        "Logo design",
		"category":    "design",
		"type":        "fixed",
		"description": "A custom logo",
		"duration":    "5 days",
		"budget":      "500",
		"level":       "expert",
		"price":       250,
		"date":        "2026-09-01",
	}
}

func TestValidateServiceComplete(t *testing.T) {
	if err := ValidateService(fullServiceDoc()); err != nil {
		t.Fatalf("expected valid service, got %v", err)
	}
}

func TestValidateServiceMissingEachField(t *testing.T) {
	for _, field := range ServiceRequiredFields {
		t.Run(field, func(t *testing.T) {
			doc := fullServiceDoc()
			delete(doc, field)

			err := ValidateService(doc)
			if err == nil {
				t.Fatalf("expected error with %q missing", field)
			}

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if len(verr.Missing) != 1 || verr.Missing[0] != field {
				t.Fatalf("expected missing=[%s], got %v", field, verr.Missing)
			}
		})
	}
}

func TestValidateServiceBlankString(t *testing.T) {
	doc := fullServiceDoc()
	doc["name"] = "   "

	if err := ValidateService(doc); err == nil {
		t.Fatal("expected blank name to fail validation")
	}
}

func TestValidateServiceZeroNumberIsPresent(t *testing.T) {
	doc := fullServiceDoc()
	doc["price"] = 0

	if err := ValidateService(doc); err != nil {
		t.Fatalf("numeric zero should count as present, got %v", err)
	}
}

func TestValidateBooking(t *testing.T) {
	tests := []struct {
		name    string
		doc     domain.Document
		wantErr bool
	}{
		{
			name: "complete",
			doc: domain.Document{
				"serviceId": "64de3c29f3a1b2c4d5e6f7a8",
				"userName":  "Ada",
				"userEmail": "ada@example.com",
			},
			wantErr: false,
		},
		{
			name: "missing userEmail",
			doc: domain.Document{
				"serviceId": "64de3c29f3a1b2c4d5e6f7a8",
				"userName":  "Ada",
			},
			wantErr: true,
		},
		{
			name: "missing serviceId",
			doc: domain.Document{
				"userName":  "Ada",
				"userEmail": "ada@example.com",
			},
			wantErr: true,
		},
		{
			name:    "empty document",
			doc:     domain.Document{},
			wantErr: true,
		},
		{
			name: "optional fields do not matter",
			doc: domain.Document{
				"serviceId": "64de3c29f3a1b2c4d5e6f7a8",
				"userName":  "Ada",
				"userEmail": "ada@example.com",
				"message":   "",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBooking(tt.doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBooking() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
