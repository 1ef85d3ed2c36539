// internal/workers/profiles/invalidate-profile-cache/validation.go
package invalidateprofilecache

import "sponsormatch-workers/internal/common/validation"

var inputValidator = validation.MustCompile(GetInputSchema())

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"type", "entityId"},
		Properties: map[string]validation.Property{
			"type": {
				Type:        "string",
				Description: "Side whose profile changed",
				Enum:        []string{"brand", "organizer"},
			},
			"entityId": {
				Type:        "string",
				Description: "Id of the edited brand or organizer",
				Format:      "uuid",
			},
		},
		AdditionalProperties: true,
	}
}
