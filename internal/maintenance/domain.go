package maintenance

import (
	"fmt"
	"time"

	"trainyard/internal/inventory"
)

// Log records one piece of maintenance work on an inventory item. InventoryItemID is a weak
// reference: the item may have been deleted since.
type Log struct {
	ID              int64           `json:"id"`
	InventoryItemID int64           `json:"inventoryItemId"`
	MaintenanceDate *inventory.Date `json:"maintenanceDate,omitempty"`
	Description     string          `json:"description,omitempty"`
	WorkPerformed   string          `json:"workPerformed,omitempty"`
	PerformedBy     string          `json:"performedBy,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedDate     time.Time       `json:"createdDate"`
}

func (l *Log) GetID() int64   { return l.ID }
func (l *Log) SetID(id int64) { l.ID = id }

// Timestamps reports the creation time for both values; logs carry no modification time.
func (l *Log) Timestamps() (created, modified time.Time) {
	return l.CreatedDate, l.CreatedDate
}

func (l *Log) SetTimestamps(created, _ time.Time) {
	l.CreatedDate = created
}

func (l *Log) Validate() error {
	if l.InventoryItemID <= 0 {
		return fmt.Errorf("%w: inventoryItemId is required", inventory.ErrValidation)
	}
	return nil
}
