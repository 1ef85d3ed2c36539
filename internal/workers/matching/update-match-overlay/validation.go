// internal/workers/matching/update-match-overlay/validation.go
package updatematchoverlay

import "sponsormatch-workers/internal/common/validation"

var inputValidator = validation.MustCompile(GetInputSchema())

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"viewerId", "matchId", "action"},
		Properties: map[string]validation.Property{
			"viewerId": {Type: "string", Format: "uuid"},
			"matchId":  {Type: "string", Format: "uuid"},
			"action": {
				Type:        "string",
				Description: "save adds to the saved tab; dismiss hides from suggestions",
				Enum:        []string{"save", "dismiss"},
			},
		},
		AdditionalProperties: true,
	}
}
