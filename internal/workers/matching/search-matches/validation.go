// internal/workers/matching/search-matches/validation.go
package searchmatches

import "sponsormatch-workers/internal/common/validation"

var inputValidator = validation.MustCompile(GetInputSchema())

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"query": {Type: "string", Description: "Free text over names and match reasons"},
			"status": {
				Type: "string",
				Enum: []string{"pending", "accepted", "rejected", "inactive"},
			},
			"minScore": {Type: "integer", Minimum: validation.FloatPtr(0), Maximum: validation.FloatPtr(100)},
			"from":     {Type: "integer", Minimum: validation.FloatPtr(0)},
			"size":     {Type: "integer", Minimum: validation.FloatPtr(1)},
		},
		AdditionalProperties: true,
	}
}
