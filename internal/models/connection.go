// internal/models/connection.go
package models

import "time"

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// Connection is a raw expressed-interest row. Several rows may describe the
// same unordered pair, one per initiating side.
//
// IsMutual and CreatedAt are nil when the column is missing.
type Connection struct {
	ID          string           `json:"id"`
	BrandID     string           `json:"brandId"`
	OrganizerID string           `json:"organizerId"`
	Initiator   EntityType       `json:"initiator,omitempty"`
	Status      ConnectionStatus `json:"status"`
	IsMutual    *bool            `json:"isMutual"`
	CreatedAt   *time.Time       `json:"createdAt"`
}

func (c Connection) Key() string {
	return PairKey(c.BrandID, c.OrganizerID)
}

func (c Connection) WellFormed() bool {
	return c.IsMutual != nil && c.CreatedAt != nil
}

func (c Connection) Mutual() bool {
	return c.IsMutual != nil && *c.IsMutual
}
