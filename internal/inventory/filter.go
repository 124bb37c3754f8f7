package inventory

import (
	"fmt"
	"math"
	"strings"
)

// MaxPageSize bounds explicit pagination requests.
const MaxPageSize = 500

// MaxPageNumber keeps Number*Size within int for every valid Size.
const MaxPageNumber = math.MaxInt / MaxPageSize

// Predicate reports whether a record satisfies one criterion. A nil Predicate is an absent
// criterion and matches everything.
type Predicate[T any] func(T) bool

// Filter returns the records matching every non-nil predicate, in their original order.
// With no active predicates the input slice itself is returned.
func Filter[T any](records []T, preds ...Predicate[T]) []T {
	active := make([]Predicate[T], 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return records
	}

	matches := make([]T, 0, len(records))
next:
	for _, rec := range records {
		for _, p := range active {
			if !p(rec) {
				continue next
			}
		}
		matches = append(matches, rec)
	}
	return matches
}

// FoldEqual matches when field equals want ignoring case. An empty want is an absent criterion.
func FoldEqual[T any](field func(T) string, want string) Predicate[T] {
	want = strings.TrimSpace(want)
	if want == "" {
		return nil
	}
	return func(rec T) bool { return strings.EqualFold(field(rec), want) }
}

// Equal matches when field equals want. The zero value of V is an absent criterion.
func Equal[T any, V comparable](field func(T) V, want V) Predicate[T] {
	var zero V
	if want == zero {
		return nil
	}
	return func(rec T) bool { return field(rec) == want }
}

// Contains matches when any of fields contains want as a case-insensitive substring.
func Contains[T any](want string, fields ...func(T) string) Predicate[T] {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return nil
	}
	return func(rec T) bool {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f(rec)), want) {
				return true
			}
		}
		return false
	}
}

func ByManufacturer[T Inventoried](manufacturer string) Predicate[T] {
	return FoldEqual(func(rec T) string { return rec.Base().Manufacturer }, manufacturer)
}

func ByRoadName[T Inventoried](roadName string) Predicate[T] {
	return FoldEqual(func(rec T) string { return rec.Base().RoadName }, roadName)
}

func ByScale[T Inventoried](scale Scale) Predicate[T] {
	return Equal(func(rec T) Scale { return rec.Base().Scale }, scale)
}

func ByStatus[T Inventoried](status MaintenanceStatus) Predicate[T] {
	return Equal(func(rec T) MaintenanceStatus { return rec.Base().MaintenanceStatus }, status)
}

// ByText is a free-text criterion over the descriptive attributes of an item.
func ByText[T Inventoried](q string) Predicate[T] {
	return Contains(q,
		func(rec T) string { return rec.Base().Manufacturer },
		func(rec T) string { return rec.Base().ModelNumber },
		func(rec T) string { return rec.Base().RoadName },
		func(rec T) string { return rec.Base().Description },
		func(rec T) string { return rec.Base().Notes },
	)
}

// Page selects a window of a result set. The zero Page selects everything.
type Page struct {
	Number int
	Size   int
}

func (p Page) Validate() error {
	if p.Number < 0 || p.Number > MaxPageNumber {
		return fmt.Errorf("%w: page must be between 0 and %d", ErrValidation, MaxPageNumber)
	}
	if p.Size < 0 || p.Size > MaxPageSize {
		return fmt.Errorf("%w: page size must be between 0 and %d", ErrValidation, MaxPageSize)
	}
	if p.Number > 0 && p.Size == 0 {
		return fmt.Errorf("%w: page requires a page size", ErrValidation)
	}
	return nil
}

// Results is a search result. Total always counts every match; Results holds the
// selected page, which is every match unless an explicit Page was requested.
type Results[T any] struct {
	Results  []T `json:"results"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Paginate slices matches according to p.
func Paginate[T any](matches []T, p Page) Results[T] {
	total := len(matches)
	if p.Size <= 0 {
		return Results[T]{Results: matches, Total: total, Page: 0, PageSize: total}
	}

	start := total
	if p.Number <= total/p.Size {
		start = min(p.Number*p.Size, total)
	}
	end := start + min(p.Size, total-start)
	return Results[T]{Results: matches[start:end], Total: total, Page: p.Number, PageSize: p.Size}
}
