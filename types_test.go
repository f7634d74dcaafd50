package uistate

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseSlot(t *testing.T) {
	for _, slot := range Slots() {
		got, err := ParseSlot(" " + string(slot) + " ")
		if err != nil || got != slot {
			t.Fatalf("parse %s: got %s, %v", slot, got, err)
		}
	}
	if _, err := ParseSlot("columns"); !errors.Is(err, ErrUnknownSlot) {
		t.Fatalf("expected ErrUnknownSlot, got %v", err)
	}
}

func TestFilterStateJSONNames(t *testing.T) {
	encoded, err := json.Marshal(FilterState{Search: "a", CustomerID: "c", DateFrom: "f", DateTo: "t", ShowFilters: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"search":"a","customerId":"c","dateFrom":"f","dateTo":"t","showFilters":true,"extra":null}`
	if string(encoded) != want {
		t.Fatalf("expected %s, got %s", want, encoded)
	}
}

func TestStateValidation(t *testing.T) {
	cases := []struct {
		name  string
		value interface{ Validate() error }
		ok    bool
	}{
		{name: "pagination ok", value: PaginationState{Page: 1, Limit: 10}, ok: true},
		{name: "page zero", value: PaginationState{Page: 0, Limit: 10}},
		{name: "limit zero", value: PaginationState{Page: 1}},
		{name: "sort asc", value: SortState{SortBy: "name", SortOrder: SortAsc}, ok: true},
		{name: "sort desc", value: SortState{SortOrder: SortDesc}, ok: true},
		{name: "sort other", value: SortState{SortBy: "name", SortOrder: "up"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.value.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestTypedPatches(t *testing.T) {
	p := PaginationPatch{Limit: Ptr(50)}.apply(PaginationState{Page: 4, Limit: 10})
	if p != (PaginationState{Page: 4, Limit: 50}) {
		t.Fatalf("unexpected pagination %+v", p)
	}
	s := SortPatch{SortBy: Ptr("total")}.apply(SortState{SortBy: "date", SortOrder: SortDesc})
	if s != (SortState{SortBy: "total", SortOrder: SortDesc}) {
		t.Fatalf("unexpected sort %+v", s)
	}
	if (PaginationPatch{}).apply(p) != p {
		t.Fatalf("empty patch must be a no-op")
	}
}
