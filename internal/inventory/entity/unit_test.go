package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mustTime(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStampStatusFirstArrivalOnly(t *testing.T) {
	u := &InventoryUnit{}
	first := mustTime("2025-01-10 09:00")
	second := mustTime("2025-02-20 15:00")

	if !u.StampStatus(StatusReadyForSale, first) {
		t.Fatal("first stamp should write")
	}
	if u.StampStatus(StatusReadyForSale, second) {
		t.Error("second stamp should not overwrite")
	}
	if got := u.StatusTime(StatusReadyForSale); got == nil || !got.Equal(first) {
		t.Errorf("timestamp = %v, want %v", got, first)
	}
}

func TestStampStatusUnknown(t *testing.T) {
	u := &InventoryUnit{}
	if u.StampStatus("bogus", time.Now()) {
		t.Error("unknown status should not stamp")
	}
	if u.StatusTime("bogus") != nil {
		t.Error("unknown status should have no timestamp")
	}
}

func TestValidateDates(t *testing.T) {
	ordered := mustTime("2025-03-01 10:00")
	received := mustTime("2025-03-05 10:00")

	u := &InventoryUnit{DateOrdered: &ordered, DateReceived: &received}
	if err := u.ValidateDates(); err != nil {
		t.Errorf("ordered then received should pass, got %v", err)
	}

	bad := mustTime("2025-02-28 10:00")
	u.DateReceived = &bad
	if err := u.ValidateDates(); !errors.Is(err, ErrDateSequence) {
		t.Errorf("received before ordered should yield ErrDateSequence, got %v", err)
	}

	ready := mustTime("2025-03-10 10:00")
	soldBefore := mustTime("2025-03-09 10:00")
	u2 := &InventoryUnit{DateReadyForSale: &ready, DateSold: &soldBefore}
	if err := u2.ValidateDates(); !errors.Is(err, ErrDateSequence) {
		t.Errorf("sold before ready_for_sale should yield ErrDateSequence, got %v", err)
	}

	// 单侧缺失不校验
	u3 := &InventoryUnit{DateSold: &soldBefore}
	if err := u3.ValidateDates(); err != nil {
		t.Errorf("missing counterpart should pass, got %v", err)
	}
}

func TestStatusHistoryOrderedByTime(t *testing.T) {
	u := &InventoryUnit{Status: StatusReadyForSale}
	// 回退场景: returned 的时间早于第二次 ready_for_sale 不会发生，
	// 但历史要按时间而不是枚举顺序排
	u.StampStatus(StatusOrdered, mustTime("2025-01-01 08:00"))
	u.StampStatus(StatusReceived, mustTime("2025-01-03 08:00"))
	u.StampStatus(StatusReturned, mustTime("2025-01-04 08:00"))
	u.StampStatus(StatusReadyForSale, mustTime("2025-01-05 08:00"))

	history := u.StatusHistory()
	want := []string{StatusOrdered, StatusReceived, StatusReturned, StatusReadyForSale}
	if len(history) != len(want) {
		t.Fatalf("history length = %d, want %d", len(history), len(want))
	}
	for i, entry := range history {
		if entry.Status != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, entry.Status, want[i])
		}
		if entry.Label != StatusLabel(want[i]) {
			t.Errorf("history[%d] label = %q", i, entry.Label)
		}
	}
	for i := 1; i < len(history); i++ {
		if history[i].Timestamp.Before(history[i-1].Timestamp) {
			t.Error("history not sorted by timestamp")
		}
	}
}

func TestStatusHistoryEmpty(t *testing.T) {
	u := &InventoryUnit{}
	if history := u.StatusHistory(); len(history) != 0 {
		t.Errorf("no timestamps should give empty history, got %d entries", len(history))
	}
}

func TestTimeInStatus(t *testing.T) {
	arrived := mustTime("2025-04-01 12:00")
	now := mustTime("2025-04-03 12:00")

	u := &InventoryUnit{Status: StatusReserved, DateReserved: &arrived}
	d := u.TimeInStatus(now)
	if d == nil {
		t.Fatal("expected duration")
	}
	if *d != 48*time.Hour {
		t.Errorf("TimeInStatus = %v, want 48h", *d)
	}

	// 当前状态时间戳缺失
	u2 := &InventoryUnit{Status: StatusReserved}
	if u2.TimeInStatus(now) != nil {
		t.Error("missing timestamp should give nil duration")
	}
}

func TestCurrentLocation(t *testing.T) {
	cases := []struct {
		status   string
		location string
		carrier  string
		want     string
	}{
		{StatusOrdered, "", "", "Warehouse - Incoming"},
		{StatusReceived, "", "", "Warehouse - Incoming"},
		{StatusQualityCheck, "", "", "Warehouse - Incoming"},
		{StatusReadyForSale, "", "", "Warehouse - Storage"},
		{StatusReadyForSale, "Shelf A3", "", "Shelf A3"},
		{StatusReserved, "", "", "Warehouse - Picking Area"},
		{StatusSold, "", "", "Warehouse - Picking Area"},
		{StatusShipped, "", "DHL", "In Transit (DHL)"},
		{StatusShipped, "", "", "In Transit (Unknown Carrier)"},
		{StatusDelivered, "", "UPS", "In Transit (UPS)"},
		{StatusReturned, "", "", "Unknown"},
		{StatusDiscarded, "", "", "Unknown"},
	}
	for _, tc := range cases {
		u := &InventoryUnit{Status: tc.status, Location: tc.location, Carrier: tc.carrier}
		if got := u.CurrentLocation(); got != tc.want {
			t.Errorf("CurrentLocation(%s, loc=%q, carrier=%q) = %q, want %q",
				tc.status, tc.location, tc.carrier, got, tc.want)
		}
	}
}

func TestProfit(t *testing.T) {
	sale := decimal.NewFromInt(1000)
	u := &InventoryUnit{
		PurchasePrice:   decimal.NewFromInt(900),
		SalePrice:       &sale,
		DiscountPercent: decimal.NewFromInt(10),
		TaxPercent:      decimal.NewFromInt(8),
	}
	// 1000 * 0.90 = 900; 900 * 1.08 = 972; 972 - 900 = 72.00
	if got := u.Profit(); !got.Equal(decimal.NewFromInt(72)) {
		t.Errorf("Profit = %s, want 72", got)
	}
}

func TestProfitNoSalePrice(t *testing.T) {
	u := &InventoryUnit{PurchasePrice: decimal.NewFromInt(500)}
	if got := u.Profit(); !got.Equal(decimal.Zero) {
		t.Errorf("Profit without sale price = %s, want 0", got)
	}
}

func TestProfitRounding(t *testing.T) {
	sale := decimal.RequireFromString("99.99")
	u := &InventoryUnit{
		PurchasePrice:   decimal.RequireFromString("50.00"),
		SalePrice:       &sale,
		DiscountPercent: decimal.RequireFromString("12.5"),
		TaxPercent:      decimal.RequireFromString("7.25"),
	}
	// 99.99 * 0.875 = 87.49125; * 1.0725 = 93.834366...; - 50 = 43.834366 → 43.83
	if got := u.Profit(); !got.Equal(decimal.RequireFromString("43.83")) {
		t.Errorf("Profit = %s, want 43.83", got)
	}
}

func TestStockPredicates(t *testing.T) {
	u := &InventoryUnit{Status: StatusReadyForSale}
	if !u.IsAvailableForSale() || !u.IsInStock() || u.IsShipped() {
		t.Error("ready_for_sale predicates wrong")
	}

	u.Status = StatusReserved
	if u.IsAvailableForSale() || !u.IsInStock() {
		t.Error("reserved predicates wrong")
	}

	u.Status = StatusShipped
	if !u.IsShipped() || u.IsInStock() {
		t.Error("shipped predicates wrong")
	}

	u.Status = StatusDelivered
	if !u.IsShipped() {
		t.Error("delivered should count as shipped")
	}
}
