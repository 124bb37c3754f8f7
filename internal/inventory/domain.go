// Package inventory holds the pieces shared by every kind of item in the collection:
// the common attributes, the enumerations, money and calendar-date types, and the
// in-memory filter engine used by search endpoints.
package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation marks malformed caller input (unknown enum values, bad ids, bad paging).
var ErrValidation = errors.New("validation failed")

// Scale is the modelling scale of an item.
type Scale string

const (
	ScaleZ  Scale = "Z"
	ScaleN  Scale = "N"
	ScaleTT Scale = "TT"
	ScaleHO Scale = "HO"
	ScaleOO Scale = "OO"
	ScaleS  Scale = "S"
	ScaleO  Scale = "O"
	ScaleG  Scale = "G"
)

var scales = []Scale{ScaleZ, ScaleN, ScaleTT, ScaleHO, ScaleOO, ScaleS, ScaleO, ScaleG}

// MaintenanceStatus is the operating condition of an item.
type MaintenanceStatus string

const (
	StatusOperational      MaintenanceStatus = "OPERATIONAL"
	StatusNeedsMaintenance MaintenanceStatus = "NEEDS_MAINTENANCE"
	StatusInMaintenance    MaintenanceStatus = "IN_MAINTENANCE"
	StatusOutOfService     MaintenanceStatus = "OUT_OF_SERVICE"
)

var statuses = []MaintenanceStatus{StatusOperational, StatusNeedsMaintenance, StatusInMaintenance, StatusOutOfService}

// LocomotiveType is the prototype's motive power.
type LocomotiveType string

const (
	LocomotiveSteam    LocomotiveType = "STEAM"
	LocomotiveDiesel   LocomotiveType = "DIESEL"
	LocomotiveElectric LocomotiveType = "ELECTRIC"
)

var locomotiveTypes = []LocomotiveType{LocomotiveSteam, LocomotiveDiesel, LocomotiveElectric}

// PowerType is how the model itself is powered and controlled.
type PowerType string

const (
	PowerDC       PowerType = "DC"
	PowerDCC      PowerType = "DCC"
	PowerDCCSound PowerType = "DCC_SOUND"
	PowerBattery  PowerType = "BATTERY"
)

var powerTypes = []PowerType{PowerDC, PowerDCC, PowerDCCSound, PowerBattery}

// AARType is an AAR car-type code.
type AARType string

var aarTypes = []struct {
	code AARType
	desc string
}{
	{"XM", "Box Car"},
	{"XMO", "Box Car, Overheight"},
	{"FC", "Flat Car"},
	{"TA", "Tank Car"},
	{"HM", "Hopper Car"},
	{"RP", "Refrigerator Car - Passenger Service"},
	{"GN", "Gondola"},
	{"XL", "Box Car - Loader"},
	{"GB", "Gondola - Ballast"},
	{"FM", "Flat Car - Military"},
	{"RB", "Refrigerator Car - Bunkerless"},
	{"SA", "Stock Car - Animal"},
	{"CA", "Caboose"},
	{"PA", "Passenger Car"},
	{"BA", "Baggage Car"},
}

// Description returns the human readable car type, or "" for unknown codes.
func (a AARType) Description() string {
	for _, t := range aarTypes {
		if t.code == a {
			return t.desc
		}
	}
	return ""
}

// AARTypes lists every known code in declaration order.
func AARTypes() []AARType {
	codes := make([]AARType, len(aarTypes))
	for i, t := range aarTypes {
		codes[i] = t.code
	}
	return codes
}

// ParseScale accepts scale names case-insensitively. An empty string yields the zero Scale.
func ParseScale(s string) (Scale, error) { return parseEnum(s, "scale", scales) }

// ParseStatus accepts maintenance status names case-insensitively.
func ParseStatus(s string) (MaintenanceStatus, error) {
	return parseEnum(s, "maintenance status", statuses)
}

// ParseLocomotiveType accepts locomotive type names case-insensitively.
func ParseLocomotiveType(s string) (LocomotiveType, error) {
	return parseEnum(s, "locomotive type", locomotiveTypes)
}

// ParsePowerType accepts power type names case-insensitively.
func ParsePowerType(s string) (PowerType, error) { return parseEnum(s, "power type", powerTypes) }

// ParseAARType accepts AAR codes case-insensitively.
func ParseAARType(s string) (AARType, error) { return parseEnum(s, "AAR type", AARTypes()) }

func parseEnum[E ~string](s, name string, valid []E) (E, error) {
	var zero E
	s = strings.TrimSpace(s)
	if s == "" {
		return zero, nil
	}
	for _, v := range valid {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return zero, fmt.Errorf("%w: unknown %s %q", ErrValidation, name, s)
}

// Item carries the attributes shared by locomotives and rolling stock.
type Item struct {
	ID                int64             `json:"id"`
	Manufacturer      string            `json:"manufacturer,omitempty"`
	ModelNumber       string            `json:"modelNumber,omitempty"`
	Scale             Scale             `json:"scale,omitempty"`
	RoadName          string            `json:"roadName,omitempty"`
	Color             string            `json:"color,omitempty"`
	Era               string            `json:"era,omitempty"`
	Description       string            `json:"description,omitempty"`
	PurchasePrice     *Money            `json:"purchasePrice,omitempty"`
	PurchaseDate      *Date             `json:"purchaseDate,omitempty"`
	CurrentValue      *Money            `json:"currentValue,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	CreatedDate       time.Time         `json:"createdDate"`
	LastModifiedDate  time.Time         `json:"lastModifiedDate"`
	MaintenanceStatus MaintenanceStatus `json:"maintenanceStatus,omitempty"`
}

func (i *Item) GetID() int64   { return i.ID }
func (i *Item) SetID(id int64) { i.ID = id }
func (i *Item) Base() *Item    { return i }

func (i *Item) Timestamps() (created, modified time.Time) {
	return i.CreatedDate, i.LastModifiedDate
}

func (i *Item) SetTimestamps(created, modified time.Time) {
	i.CreatedDate = created
	i.LastModifiedDate = modified
}

// Normalize fills defaults for a freshly submitted item.
func (i *Item) Normalize() {
	if i.MaintenanceStatus == "" {
		i.MaintenanceStatus = StatusOperational
	}
}

// Validate checks the enumerated attributes and rewrites them in canonical form, and
// rejects amounts with more than two decimal places. Unset values are allowed.
func (i *Item) Validate() error {
	scale, err := ParseScale(string(i.Scale))
	if err != nil {
		return err
	}
	status, err := ParseStatus(string(i.MaintenanceStatus))
	if err != nil {
		return err
	}
	if err := validateAmount("purchasePrice", i.PurchasePrice); err != nil {
		return err
	}
	if err := validateAmount("currentValue", i.CurrentValue); err != nil {
		return err
	}
	i.Scale, i.MaintenanceStatus = scale, status
	return nil
}

// Inventoried is implemented by every item kind embedding Item.
type Inventoried interface {
	Base() *Item
}
