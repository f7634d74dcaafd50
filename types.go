package uistate

import (
	"fmt"
	"strings"
)

// Slot is one of the three state categories persisted per namespace.
type Slot string

const (
	SlotFilters    Slot = "filters"
	SlotPagination Slot = "pagination"
	SlotSort       Slot = "sort"
)

// Slots returns every slot in persistence order.
func Slots() []Slot {
	return []Slot{SlotFilters, SlotPagination, SlotSort}
}

// ParseSlot converts a string into a Slot.
func ParseSlot(value string) (Slot, error) {
	switch Slot(strings.ToLower(strings.TrimSpace(value))) {
	case SlotFilters:
		return SlotFilters, nil
	case SlotPagination:
		return SlotPagination, nil
	case SlotSort:
		return SlotSort, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, value)
	}
}

// FilterState is the filter shape shared by every listing page. Pages embed it
// and add their own fields:
//
//	type GodownFilters struct {
//	    uistate.FilterState
//	    GodownID string `json:"godownId"`
//	}
//
// Hydration fills only the keys missing from the stored object with defaults,
// so an extension field tagged omitempty comes back as its default after the
// page clears it.
type FilterState struct {
	Search      string `json:"search"`
	CustomerID  string `json:"customerId"`
	DateFrom    string `json:"dateFrom"`
	DateTo      string `json:"dateTo"`
	ShowFilters bool   `json:"showFilters"`
	// Extra holds page-specific fields for pages without a dedicated type.
	// Its contents are never interpreted.
	Extra map[string]any `json:"extra"`
}

// commonFilterFields lists the FilterState fields with their zero values;
// expression bindings always expose them, even for filter types that do not
// embed FilterState.
var commonFilterFields = map[string]any{
	"search":      "",
	"customerId":  "",
	"dateFrom":    "",
	"dateTo":      "",
	"showFilters": false,
}

// PaginationState is the page window of a listing.
type PaginationState struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Validate rejects a page or limit below 1.
func (p PaginationState) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("uistate: page must be >= 1, got %d", p.Page)
	}
	if p.Limit < 1 {
		return fmt.Errorf("uistate: limit must be >= 1, got %d", p.Limit)
	}
	return nil
}

// SortOrder is either asc or desc.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortState is the column ordering of a listing.
type SortState struct {
	SortBy    string    `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

// Validate rejects orders other than asc and desc.
func (s SortState) Validate() error {
	switch s.SortOrder {
	case SortAsc, SortDesc:
		return nil
	default:
		return fmt.Errorf("uistate: sort order must be asc or desc, got %q", s.SortOrder)
	}
}

// Patch is a shallow partial filter update keyed by JSON field name.
type Patch map[string]any

// PaginationPatch is a partial pagination update. Nil fields are untouched.
type PaginationPatch struct {
	Page  *int
	Limit *int
}

func (p PaginationPatch) apply(current PaginationState) PaginationState {
	if p.Page != nil {
		current.Page = *p.Page
	}
	if p.Limit != nil {
		current.Limit = *p.Limit
	}
	return current
}

// SortPatch is a partial sort update. Nil fields are untouched.
type SortPatch struct {
	SortBy    *string
	SortOrder *SortOrder
}

func (p SortPatch) apply(current SortState) SortState {
	if p.SortBy != nil {
		current.SortBy = *p.SortBy
	}
	if p.SortOrder != nil {
		current.SortOrder = *p.SortOrder
	}
	return current
}

// Ptr returns a pointer to v, for building typed patches.
func Ptr[T any](v T) *T {
	return &v
}
