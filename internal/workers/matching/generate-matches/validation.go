// internal/workers/matching/generate-matches/validation.go
package generatematches

import "sponsormatch-workers/internal/common/validation"

var inputValidator = validation.MustCompile(GetInputSchema())

// Job variables carry the whole process scope, so unknown fields are allowed.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"type", "entityId"},
		Properties: map[string]validation.Property{
			"type": {
				Type:        "string",
				Description: "Side that triggered generation",
				Enum:        []string{"brand", "organizer"},
			},
			"entityId": {
				Type:        "string",
				Description: "Id of the brand or organizer to match",
				Format:      "uuid",
			},
		},
		AdditionalProperties: true,
	}
}
