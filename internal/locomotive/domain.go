package locomotive

import "trainyard/internal/inventory"

// Locomotive is a powered model.
type Locomotive struct {
	inventory.Item
	LocomotiveType inventory.LocomotiveType `json:"locomotiveType,omitempty"`
	PowerType      inventory.PowerType      `json:"powerType,omitempty"`
	RoadNumber     string                   `json:"roadNumber,omitempty"`
}

// Validate checks and canonicalizes every enumerated attribute.
func (l *Locomotive) Validate() error {
	if err := l.Item.Validate(); err != nil {
		return err
	}
	lt, err := inventory.ParseLocomotiveType(string(l.LocomotiveType))
	if err != nil {
		return err
	}
	pt, err := inventory.ParsePowerType(string(l.PowerType))
	if err != nil {
		return err
	}
	l.LocomotiveType, l.PowerType = lt, pt
	return nil
}

// Criteria narrows a search. Zero-valued fields are ignored.
type Criteria struct {
	Manufacturer string
	Scale        inventory.Scale
	Status       inventory.MaintenanceStatus
	RoadName     string
	Type         inventory.LocomotiveType
	Query        string
	Page         inventory.Page
}

func (c Criteria) predicates() []inventory.Predicate[*Locomotive] {
	return []inventory.Predicate[*Locomotive]{
		inventory.ByManufacturer[*Locomotive](c.Manufacturer),
		inventory.ByScale[*Locomotive](c.Scale),
		inventory.ByStatus[*Locomotive](c.Status),
		inventory.ByRoadName[*Locomotive](c.RoadName),
		inventory.Equal(func(l *Locomotive) inventory.LocomotiveType { return l.LocomotiveType }, c.Type),
		inventory.ByText[*Locomotive](c.Query),
	}
}
