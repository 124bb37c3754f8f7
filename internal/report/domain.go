// Package report computes read-only summaries across the whole collection.
package report

import (
	"github.com/shopspring/decimal"

	"trainyard/internal/inventory"
	"trainyard/internal/locomotive"
	"trainyard/internal/rollingstock"
)

// Summary is the fleet-wide report.
type Summary struct {
	TotalItems          int                                 `json:"totalItems"`
	TotalLocomotives    int                                 `json:"totalLocomotives"`
	TotalRollingStock   int                                 `json:"totalRollingStock"`
	ItemsByScale        map[inventory.Scale]int             `json:"itemsByScale"`
	ItemsByStatus       map[inventory.MaintenanceStatus]int `json:"itemsByStatus"`
	TotalInventoryValue inventory.Money                     `json:"totalInventoryValue"`
}

// Summarize tallies both kinds together. Items without a scale or status still count toward
// TotalItems but not toward the corresponding bucket; a missing current value counts as zero.
func Summarize(locos []*locomotive.Locomotive, cars []*rollingstock.RollingStock) Summary {
	s := Summary{
		TotalItems:        len(locos) + len(cars),
		TotalLocomotives:  len(locos),
		TotalRollingStock: len(cars),
		ItemsByScale:      map[inventory.Scale]int{},
		ItemsByStatus:     map[inventory.MaintenanceStatus]int{},
	}

	total := decimal.Zero
	tally := func(it *inventory.Item) {
		if it.Scale != "" {
			s.ItemsByScale[it.Scale]++
		}
		if it.MaintenanceStatus != "" {
			s.ItemsByStatus[it.MaintenanceStatus]++
		}
		if it.CurrentValue != nil {
			total = total.Add(it.CurrentValue.Decimal)
		}
	}
	for _, l := range locos {
		tally(l.Base())
	}
	for _, c := range cars {
		tally(c.Base())
	}
	s.TotalInventoryValue = inventory.Money{Decimal: total}
	return s
}
