package models

import "atelier/internal/domain"

// ServiceRequiredFields must all be present and non-empty when a service is
// created. Updates are partial merges and skip this check.
//
// Only canonical field names are accepted; the legacy "title" and
// "projectType" aliases are no longer honored.
var ServiceRequiredFields = []string{
	"name",
	"category",
	"type",
	"description",
	"duration",
	"budget",
	"level",
	"price",
	"date",
}

func ValidateService(doc domain.Document) error {
	return ValidateRequired("service", doc, ServiceRequiredFields)
}
