// internal/workers/matching/express-interest/validation.go
package expressinterest

import "sponsormatch-workers/internal/common/validation"

var inputValidator = validation.MustCompile(GetInputSchema())

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"matchId", "side"},
		Properties: map[string]validation.Property{
			"matchId": {Type: "string", Format: "uuid"},
			"side": {
				Type:        "string",
				Description: "Which party of the match is responding",
				Enum:        []string{"brand", "organizer"},
			},
			"action": {
				Type:        "string",
				Description: "interest (default) or decline",
				Enum:        []string{"interest", "decline"},
			},
		},
		AdditionalProperties: true,
	}
}
