package service

import (
	"testing"

	"github.com/bitfantasy/nimo-wms/internal/srm/entity"
	"github.com/shopspring/decimal"
)

func makeOffer(id string, cost float64, minQty int, active bool) entity.SupplyOffer {
	return entity.SupplyOffer{
		ID:          id,
		Cost:        decimal.NewFromFloat(cost),
		MinOrderQty: minQty,
		IsActive:    active,
	}
}

func resultByID(t *testing.T, results []OfferScoreResult, id string) OfferScoreResult {
	t.Helper()
	for _, r := range results {
		if r.OfferID == id {
			return r
		}
	}
	t.Fatalf("no result for offer %s", id)
	return OfferScoreResult{}
}

func TestComputeOfferScoresEmpty(t *testing.T) {
	if got := computeOfferScores(nil); got != nil {
		t.Errorf("no offers should return nil, got %v", got)
	}
}

func TestComputeOfferScoresSingleOffer(t *testing.T) {
	results := computeOfferScores([]entity.SupplyOffer{makeOffer("a", 120, 10, true)})
	r := resultByID(t, results, "a")
	// 无差异区间全部拿满分
	if r.CostScore != 5.0 || r.QuantityScore != 5.0 || r.OverallScore != 5.0 {
		t.Errorf("single active offer should score (5,5,5), got (%v,%v,%v)",
			r.CostScore, r.QuantityScore, r.OverallScore)
	}
}

func TestComputeOfferScoresTwoOffers(t *testing.T) {
	results := computeOfferScores([]entity.SupplyOffer{
		makeOffer("cheap", 100, 50, true),
		makeOffer("dear", 200, 10, true),
	})

	cheap := resultByID(t, results, "cheap")
	dear := resultByID(t, results, "dear")

	// 最低成本5分，最高成本1分
	if cheap.CostScore != 5.0 {
		t.Errorf("cheap cost score = %v, want 5.0", cheap.CostScore)
	}
	if dear.CostScore != 1.0 {
		t.Errorf("dear cost score = %v, want 1.0", dear.CostScore)
	}
	// 起订量反过来: 10最低拿5分，50最高拿1分
	if cheap.QuantityScore != 1.0 {
		t.Errorf("cheap qty score = %v, want 1.0", cheap.QuantityScore)
	}
	if dear.QuantityScore != 5.0 {
		t.Errorf("dear qty score = %v, want 5.0", dear.QuantityScore)
	}
	// 0.9*5 + 0.1*1 = 4.60 / 0.9*1 + 0.1*5 = 1.40
	if cheap.OverallScore != 4.6 {
		t.Errorf("cheap overall = %v, want 4.6", cheap.OverallScore)
	}
	if dear.OverallScore != 1.4 {
		t.Errorf("dear overall = %v, want 1.4", dear.OverallScore)
	}
}

func TestComputeOfferScoresMidpoint(t *testing.T) {
	results := computeOfferScores([]entity.SupplyOffer{
		makeOffer("low", 100, 10, true),
		makeOffer("mid", 150, 10, true),
		makeOffer("high", 200, 10, true),
	})
	mid := resultByID(t, results, "mid")
	// (150-100)/(200-100) = 0.5 → 5 - 4*0.5 = 3.00
	if mid.CostScore != 3.0 {
		t.Errorf("mid cost score = %v, want 3.0", mid.CostScore)
	}
	if mid.QuantityScore != 5.0 {
		t.Errorf("equal qty should score 5.0, got %v", mid.QuantityScore)
	}
}

func TestComputeOfferScoresInactiveExcluded(t *testing.T) {
	results := computeOfferScores([]entity.SupplyOffer{
		makeOffer("a", 100, 10, true),
		makeOffer("b", 150, 10, true),
		// 非活跃的极端值不得拉伸归一化区间
		makeOffer("dead", 10000, 1, false),
	})

	dead := resultByID(t, results, "dead")
	if dead.CostScore != 0 || dead.QuantityScore != 0 || dead.OverallScore != 0 {
		t.Errorf("inactive offer should score (0,0,0), got (%v,%v,%v)",
			dead.CostScore, dead.QuantityScore, dead.OverallScore)
	}

	a := resultByID(t, results, "a")
	b := resultByID(t, results, "b")
	if a.CostScore != 5.0 || b.CostScore != 1.0 {
		t.Errorf("active normalization polluted by inactive offer: a=%v b=%v",
			a.CostScore, b.CostScore)
	}
}

func TestComputeOfferScoresAllInactive(t *testing.T) {
	results := computeOfferScores([]entity.SupplyOffer{
		makeOffer("a", 100, 10, false),
		makeOffer("b", 200, 20, false),
	})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.CostScore != 0 || r.QuantityScore != 0 || r.OverallScore != 0 {
			t.Errorf("offer %s should score (0,0,0)", r.OfferID)
		}
	}
}

func TestComputeOfferScoresIdempotent(t *testing.T) {
	offers := []entity.SupplyOffer{
		makeOffer("a", 100, 10, true),
		makeOffer("b", 175, 25, true),
		makeOffer("c", 240, 80, true),
	}
	first := computeOfferScores(offers)
	second := computeOfferScores(offers)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("recompute changed result for %s: %+v vs %+v",
				first[i].OfferID, first[i], second[i])
		}
	}
}

func TestComputeSupplierScores(t *testing.T) {
	suppliers := []entity.Supplier{
		{ID: "s1", CreditDays: 0, DeliveryCost: 50},
		{ID: "s2", CreditDays: 30, DeliveryCost: 20},
		{ID: "s3", CreditDays: 60, DeliveryCost: 0},
	}
	computeSupplierScores(suppliers)

	// 账期: 0→1.00, 30→3.00, 60→5.00
	if suppliers[0].CreditScore != 1.0 || suppliers[1].CreditScore != 3.0 || suppliers[2].CreditScore != 5.0 {
		t.Errorf("credit scores = %v %v %v",
			suppliers[0].CreditScore, suppliers[1].CreditScore, suppliers[2].CreditScore)
	}
	// 配送: 50→1.00, 20→3.40, 0→5.00
	if suppliers[0].CostDeliveryScore != 1.0 {
		t.Errorf("s1 delivery score = %v, want 1.0", suppliers[0].CostDeliveryScore)
	}
	if suppliers[1].CostDeliveryScore != 3.4 {
		t.Errorf("s2 delivery score = %v, want 3.4", suppliers[1].CostDeliveryScore)
	}
	if suppliers[2].CostDeliveryScore != 5.0 {
		t.Errorf("s3 delivery score = %v, want 5.0", suppliers[2].CostDeliveryScore)
	}
}

func TestComputeSupplierScoresNoSpread(t *testing.T) {
	suppliers := []entity.Supplier{
		{ID: "s1", CreditDays: 30, DeliveryCost: 10},
		{ID: "s2", CreditDays: 30, DeliveryCost: 10},
	}
	computeSupplierScores(suppliers)

	// 分母钳为1: credit = 1 + 4*0/1 = 1.00, delivery = 5 - 4*0/1 = 5.00
	for _, s := range suppliers {
		if s.CreditScore != 1.0 {
			t.Errorf("%s credit score = %v, want 1.0", s.ID, s.CreditScore)
		}
		if s.CostDeliveryScore != 5.0 {
			t.Errorf("%s delivery score = %v, want 5.0", s.ID, s.CostDeliveryScore)
		}
	}
}

func TestComputeSupplierScoresEmpty(t *testing.T) {
	// 不能panic
	computeSupplierScores(nil)
	computeSupplierScores([]entity.Supplier{})
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{1.004, 1.0},
		{2.678, 2.68},
		{3.0, 3.0},
		{4.994, 4.99},
		{4.996, 5.0},
	}
	for _, tc := range cases {
		if got := round2(tc.in); got != tc.want {
			t.Errorf("round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
