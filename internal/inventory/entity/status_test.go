package entity

import (
	"errors"
	"testing"
)

func TestAllStatusesValid(t *testing.T) {
	for _, status := range AllStatuses {
		if !IsValidStatus(status) {
			t.Errorf("status %q should be valid", status)
		}
	}
	if IsValidStatus("in_transit") {
		t.Error("unknown status should not be valid")
	}
	if IsValidStatus("") {
		t.Error("empty status should not be valid")
	}
}

func TestStatusLabel(t *testing.T) {
	cases := map[string]string{
		StatusOrdered:      "Ordered",
		StatusReceived:     "Received in Warehouse",
		StatusQualityCheck: "Quality Check",
		StatusReadyForSale: "Ready for Sale",
		StatusReserved:     "Reserved",
		StatusSold:         "Sold",
		StatusShipped:      "Shipped",
		StatusDelivered:    "Delivered",
		StatusReturned:     "Returned",
		StatusDiscarded:    "Discarded",
	}
	for status, want := range cases {
		if got := StatusLabel(status); got != want {
			t.Errorf("StatusLabel(%q) = %q, want %q", status, got, want)
		}
	}
	// 未知状态原样返回
	if got := StatusLabel("weird"); got != "weird" {
		t.Errorf("StatusLabel(weird) = %q", got)
	}
}

func TestCanTransitionEdges(t *testing.T) {
	allowed := map[string][]string{
		StatusOrdered:      {StatusReceived, StatusDiscarded},
		StatusReceived:     {StatusQualityCheck, StatusReturned, StatusDiscarded},
		StatusQualityCheck: {StatusReadyForSale, StatusReturned, StatusDiscarded},
		StatusReadyForSale: {StatusReserved, StatusReturned, StatusDiscarded},
		StatusReserved:     {StatusSold, StatusReadyForSale},
		StatusSold:         {StatusShipped, StatusReturned},
		StatusShipped:      {StatusDelivered, StatusReturned},
		StatusDelivered:    {StatusReturned},
		StatusReturned:     {StatusReadyForSale, StatusDiscarded},
		StatusDiscarded:    {},
	}

	// 全量枚举 from×to，只有边表中的组合允许
	for _, from := range AllStatuses {
		allowedSet := map[string]bool{}
		for _, to := range allowed[from] {
			allowedSet[to] = true
		}
		for _, to := range AllStatuses {
			got := CanTransition(from, to)
			if got != allowedSet[to] {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", from, to, got, allowedSet[to])
			}
		}
	}
}

func TestDiscardedIsTerminal(t *testing.T) {
	for _, to := range AllStatuses {
		if CanTransition(StatusDiscarded, to) {
			t.Errorf("discarded should have no outgoing edge, got edge to %q", to)
		}
	}
}

func TestValidateTransition(t *testing.T) {
	if err := ValidateTransition(StatusOrdered, StatusReceived); err != nil {
		t.Errorf("ordered->received should be legal, got %v", err)
	}
	if err := ValidateTransition(StatusOrdered, "bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("unknown target should yield ErrInvalidStatus, got %v", err)
	}
	if err := ValidateTransition(StatusOrdered, StatusSold); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("ordered->sold should yield ErrIllegalTransition, got %v", err)
	}
	if err := ValidateTransition(StatusDiscarded, StatusOrdered); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("leaving discarded should yield ErrIllegalTransition, got %v", err)
	}
	// 自环不在边表里
	if err := ValidateTransition(StatusReceived, StatusReceived); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("self transition should yield ErrIllegalTransition, got %v", err)
	}
}
