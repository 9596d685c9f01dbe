package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GadgetStatus is the lifecycle state of a gadget.
type GadgetStatus string

const (
	StatusAvailable      GadgetStatus = "AVAILABLE"
	StatusDeployed       GadgetStatus = "DEPLOYED"
	StatusDestroyed      GadgetStatus = "DESTROYED"
	StatusDecommissioned GadgetStatus = "DECOMMISSIONED"
)

// GadgetStatuses lists every status in declaration order.
var GadgetStatuses = []GadgetStatus{
	StatusAvailable,
	StatusDeployed,
	StatusDestroyed,
	StatusDecommissioned,
}

// ParseGadgetStatus returns the status named by s. Matching is exact.
func ParseGadgetStatus(s string) (GadgetStatus, bool) {
	for _, st := range GadgetStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the declared statuses.
func (s GadgetStatus) Valid() bool {
	_, ok := ParseGadgetStatus(string(s))
	return ok
}

// Gadget is a catalog entry. Gadgets are never deleted; decommissioning and
// destruction are recorded through Status.
type Gadget struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string       `gorm:"not null" json:"name"`
	Codename         string       `gorm:"not null" json:"codename"`
	Status           GadgetStatus `gorm:"type:varchar(32);index;not null;default:AVAILABLE" json:"status" enums:"AVAILABLE,DEPLOYED,DESTROYED,DECOMMISSIONED"`
	DecommissionedAt *time.Time   `json:"decommissionedAt"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// BeforeCreate assigns an id when the caller did not.
func (g *Gadget) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// LifecycleEvent records a single status transition of a gadget.
type LifecycleEvent struct {
	GadgetID   uuid.UUID    `json:"gadgetId"`
	Codename   string       `json:"codename"`
	From       GadgetStatus `json:"from"`
	To         GadgetStatus `json:"to"`
	OccurredAt time.Time    `json:"occurredAt"`
}
