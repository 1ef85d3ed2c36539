// internal/workers/matching/list-matches/validation.go
package listmatches

import "sponsormatch-workers/internal/common/validation"

var inputValidator = validation.MustCompile(GetInputSchema())

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"viewerId", "entityType", "entityId", "view"},
		Properties: map[string]validation.Property{
			"viewerId": {
				Type:        "string",
				Description: "User whose saved/dismissed overlay applies",
				Format:      "uuid",
			},
			"entityType": {
				Type: "string",
				Enum: []string{"brand", "organizer"},
			},
			"entityId": {
				Type:   "string",
				Format: "uuid",
			},
			"view": {
				Type: "string",
				Enum: []string{"confirmed", "suggested", "saved"},
			},
			"query": {
				Type:        "string",
				Description: "Case-insensitive substring over brand, organizer, event and product names",
				MaxLength:   validation.IntPtr(200),
			},
		},
		AdditionalProperties: true,
	}
}
