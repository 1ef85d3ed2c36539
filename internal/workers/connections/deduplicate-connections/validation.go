// internal/workers/connections/deduplicate-connections/validation.go
package deduplicateconnections

import "sponsormatch-workers/internal/common/validation"

var inputValidator = validation.MustCompile(GetInputSchema())

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"brandId":     {Type: "string", Format: "uuid", Description: "Restrict the canonical view to one brand"},
			"organizerId": {Type: "string", Format: "uuid", Description: "Restrict the canonical view to one organizer"},
		},
		AdditionalProperties: true,
	}
}
