package service

import (
	"context"
	"testing"

	"github.com/bitfantasy/nimo-wms/internal/srm/entity"
	"github.com/bitfantasy/nimo-wms/internal/srm/repository"
	"github.com/bitfantasy/nimo-wms/internal/testutil"
	"gorm.io/gorm"
)

func setupScoringTest(t *testing.T) (*gorm.DB, *ScoringService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	// 测试不接Redis，排名走数据库
	svc := NewScoringService(repos.Offer, repos.Supplier, db, nil)
	return db, svc
}

func TestRecomputeProductScoresPersists(t *testing.T) {
	db, svc := setupScoringTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "咖啡豆")
	variant := testutil.SeedVariant(t, db, product.ID, "6910000000001")
	supA := testutil.SeedSupplier(t, db, "SUP-0001", "供应商A", 30, 20)
	supB := testutil.SeedSupplier(t, db, "SUP-0002", "供应商B", 0, 50)

	cheap := testutil.SeedOffer(t, db, variant.ID, supA.ID, 100, 50, true)
	dear := testutil.SeedOffer(t, db, variant.ID, supB.ID, 200, 10, true)

	if err := svc.RecomputeProductScores(ctx, product.ID); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	var scores []entity.SupplyOfferScore
	if err := db.Find(&scores).Error; err != nil {
		t.Fatalf("load scores: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("score rows = %d, want 2", len(scores))
	}

	byOffer := map[string]entity.SupplyOfferScore{}
	for _, sc := range scores {
		byOffer[sc.OfferID] = sc
	}
	if byOffer[cheap.ID].OverallScore != 4.6 {
		t.Errorf("cheap overall = %v, want 4.6", byOffer[cheap.ID].OverallScore)
	}
	if byOffer[dear.ID].OverallScore != 1.4 {
		t.Errorf("dear overall = %v, want 1.4", byOffer[dear.ID].OverallScore)
	}

	// 重算是整体替换: 行数不增长，分数不漂移
	if err := svc.RecomputeProductScores(ctx, product.ID); err != nil {
		t.Fatalf("second recompute failed: %v", err)
	}
	var count int64
	db.Model(&entity.SupplyOfferScore{}).Count(&count)
	if count != 2 {
		t.Errorf("score rows after recompute = %d, want 2", count)
	}
}

func TestRecomputeProductScoresInactiveZeroed(t *testing.T) {
	db, svc := setupScoringTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "茶叶")
	variant := testutil.SeedVariant(t, db, product.ID, "6910000000002")
	supA := testutil.SeedSupplier(t, db, "SUP-0003", "供应商C", 15, 10)
	supB := testutil.SeedSupplier(t, db, "SUP-0004", "供应商D", 45, 30)

	testutil.SeedOffer(t, db, variant.ID, supA.ID, 80, 20, true)
	dead := testutil.SeedOffer(t, db, variant.ID, supB.ID, 60, 5, false)

	if err := svc.RecomputeProductScores(ctx, product.ID); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	var score entity.SupplyOfferScore
	if err := db.Where("offer_id = ?", dead.ID).First(&score).Error; err != nil {
		t.Fatalf("load inactive score: %v", err)
	}
	if score.CostScore != 0 || score.QuantityScore != 0 || score.OverallScore != 0 {
		t.Errorf("inactive offer score = (%v,%v,%v), want zeros",
			score.CostScore, score.QuantityScore, score.OverallScore)
	}
}

func TestRecomputeProductScoresClearsStale(t *testing.T) {
	db, svc := setupScoringTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "蜂蜜")
	variant := testutil.SeedVariant(t, db, product.ID, "6910000000003")
	sup := testutil.SeedSupplier(t, db, "SUP-0005", "供应商E", 10, 10)
	offer := testutil.SeedOffer(t, db, variant.ID, sup.ID, 45, 12, true)

	if err := svc.RecomputeProductScores(ctx, product.ID); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	// 删光报价后重算要清除残留评分
	repos := repository.NewRepositories(db)
	if err := repos.Offer.Delete(ctx, offer.ID); err != nil {
		t.Fatalf("delete offer: %v", err)
	}
	if err := svc.RecomputeProductScores(ctx, product.ID); err != nil {
		t.Fatalf("recompute after delete failed: %v", err)
	}

	var count int64
	db.Model(&entity.SupplyOfferScore{}).Count(&count)
	if count != 0 {
		t.Errorf("stale score rows = %d, want 0", count)
	}
}

func TestRecomputeSupplierScoresUpdatesAll(t *testing.T) {
	db, svc := setupScoringTest(t)
	ctx := context.Background()

	s1 := testutil.SeedSupplier(t, db, "SUP-0006", "短账期", 0, 50)
	s2 := testutil.SeedSupplier(t, db, "SUP-0007", "长账期", 60, 0)

	if err := svc.RecomputeSupplierScores(ctx); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	var got1, got2 entity.Supplier
	db.First(&got1, "id = ?", s1.ID)
	db.First(&got2, "id = ?", s2.ID)

	if got1.CreditScore != 1.0 || got2.CreditScore != 5.0 {
		t.Errorf("credit scores = %v / %v, want 1.0 / 5.0", got1.CreditScore, got2.CreditScore)
	}
	if got1.CostDeliveryScore != 1.0 || got2.CostDeliveryScore != 5.0 {
		t.Errorf("delivery scores = %v / %v, want 1.0 / 5.0", got1.CostDeliveryScore, got2.CostDeliveryScore)
	}
}

func TestRankProductOrdering(t *testing.T) {
	db, svc := setupScoringTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "橄榄油")
	variant := testutil.SeedVariant(t, db, product.ID, "6910000000004")
	supA := testutil.SeedSupplier(t, db, "SUP-0008", "供应商F", 20, 5)
	supB := testutil.SeedSupplier(t, db, "SUP-0009", "供应商G", 25, 8)
	supC := testutil.SeedSupplier(t, db, "SUP-0010", "供应商H", 5, 40)

	testutil.SeedOffer(t, db, variant.ID, supA.ID, 130, 30, true)
	best := testutil.SeedOffer(t, db, variant.ID, supB.ID, 90, 30, true)
	testutil.SeedOffer(t, db, variant.ID, supC.ID, 110, 30, true)

	if err := svc.RecomputeProductScores(ctx, product.ID); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	ranked, err := svc.RankProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("ranked count = %d, want 3", len(ranked))
	}
	if ranked[0].OfferID != best.ID {
		t.Errorf("top offer = %s, want cheapest %s", ranked[0].OfferID, best.ID)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].OverallScore > ranked[i-1].OverallScore {
			t.Error("ranking not sorted by overall score desc")
		}
	}
	if ranked[0].SupplierName != "供应商G" {
		t.Errorf("top supplier name = %q", ranked[0].SupplierName)
	}
}
