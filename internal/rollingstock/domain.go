package rollingstock

import "trainyard/internal/inventory"

// RollingStock is an unpowered car.
type RollingStock struct {
	inventory.Item
	AARType    inventory.AARType `json:"aarType,omitempty"`
	CarType    string            `json:"carType,omitempty"`
	RoadNumber string            `json:"roadNumber,omitempty"`
	Capacity   string            `json:"capacity,omitempty"`
}

func (rs *RollingStock) Validate() error {
	if err := rs.Item.Validate(); err != nil {
		return err
	}
	aar, err := inventory.ParseAARType(string(rs.AARType))
	if err != nil {
		return err
	}
	rs.AARType = aar
	return nil
}

// Criteria narrows a search. Zero-valued fields are ignored.
type Criteria struct {
	Manufacturer string
	Scale        inventory.Scale
	AARType      inventory.AARType
	Status       inventory.MaintenanceStatus
	RoadName     string
	Query        string
	Page         inventory.Page
}

func (c Criteria) predicates() []inventory.Predicate[*RollingStock] {
	return []inventory.Predicate[*RollingStock]{
		inventory.ByManufacturer[*RollingStock](c.Manufacturer),
		inventory.ByScale[*RollingStock](c.Scale),
		inventory.Equal(func(rs *RollingStock) inventory.AARType { return rs.AARType }, c.AARType),
		inventory.ByStatus[*RollingStock](c.Status),
		inventory.ByRoadName[*RollingStock](c.RoadName),
		inventory.ByText[*RollingStock](c.Query),
	}
}
