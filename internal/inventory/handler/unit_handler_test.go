package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/nimo-wms/internal/inventory/repository"
	"github.com/bitfantasy/nimo-wms/internal/inventory/service"
	"github.com/bitfantasy/nimo-wms/internal/testutil"

	catrepo "github.com/bitfantasy/nimo-wms/internal/catalog/repository"
)

func setupUnitTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	catalogRepo := catrepo.NewCatalogRepository(db)
	repos := repository.NewRepositories(db)
	svc := service.NewLifecycleService(repos.Unit, repos.StatusLog, catalogRepo, db)
	h := NewUnitHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/inventory")
	api.GET("/units", h.ListUnits)
	api.POST("/units", h.CreateUnit)
	api.GET("/units/stats", h.GetStats)
	api.GET("/units/:id", h.GetUnit)
	api.POST("/units/:id/transition", h.TransitionUnit)
	api.GET("/units/:id/history", h.GetHistory)
	api.GET("/units/:id/logs", h.ListLogs)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestUnitCreateAllocatesSequence(t *testing.T) {
	env := setupUnitTest(t)
	token := testutil.DefaultTestToken()

	product := testutil.SeedProduct(t, env.DB, "运动水壶")
	variant := testutil.SeedVariant(t, env.DB, product.ID, "6901234567890")

	body := map[string]interface{}{
		"variant_id":     variant.ID,
		"purchase_price": "35.50",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["sequential_id"].(float64) != 1 {
		t.Errorf("first unit sequential_id = %v, want 1", data["sequential_id"])
	}
	if data["status"].(string) != "ordered" {
		t.Errorf("new unit status = %v, want ordered", data["status"])
	}
	if data["date_ordered"] == nil {
		t.Error("date_ordered should be stamped on creation")
	}

	// 同变体第二个单件拿到序号2
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	if data["sequential_id"].(float64) != 2 {
		t.Errorf("second unit sequential_id = %v, want 2", data["sequential_id"])
	}

	// 别的变体从1重新计数
	variant2 := testutil.SeedVariant(t, env.DB, product.ID, "6901234567891")
	body["variant_id"] = variant2.ID
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	data = resp["data"].(map[string]interface{})
	if data["sequential_id"].(float64) != 1 {
		t.Errorf("other variant sequential_id = %v, want 1", data["sequential_id"])
	}
}

func TestUnitCreateUnknownVariant(t *testing.T) {
	env := setupUnitTest(t)
	token := testutil.DefaultTestToken()

	body := map[string]interface{}{
		"variant_id":     "no-such-variant",
		"purchase_price": "10.00",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUnitTransitionFlow(t *testing.T) {
	env := setupUnitTest(t)
	token := testutil.DefaultTestToken()

	product := testutil.SeedProduct(t, env.DB, "保温杯")
	variant := testutil.SeedVariant(t, env.DB, product.ID, "6909876543210")

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units", map[string]interface{}{
		"variant_id":     variant.ID,
		"purchase_price": "42.00",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", w.Code, w.Body.String())
	}
	unitID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// ordered → received
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units/"+unitID+"/transition",
		map[string]interface{}{"status": "received", "note": "到货入库"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"].(string) != "received" {
		t.Errorf("status = %v, want received", data["status"])
	}
	if data["date_received"] == nil {
		t.Error("date_received should be stamped")
	}

	// received → sold 不在边表里
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units/"+unitID+"/transition",
		map[string]interface{}{"status": "sold"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("illegal transition should give 400, got %d: %s", w.Code, w.Body.String())
	}

	// 无效状态值
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units/"+unitID+"/transition",
		map[string]interface{}{"status": "teleported"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status should give 400, got %d: %s", w.Code, w.Body.String())
	}

	// received → quality_check → ready_for_sale，带质检结果
	for _, step := range []map[string]interface{}{
		{"status": "quality_check"},
		{"status": "ready_for_sale", "quality_result": "passed", "location": "Shelf B2"},
	} {
		w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units/"+unitID+"/transition", step, token)
		if w.Code != http.StatusOK {
			t.Fatalf("transition to %v failed: %d %s", step["status"], w.Code, w.Body.String())
		}
	}

	// 详情视图的派生字段
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/inventory/units/"+unitID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("get failed: %d %s", w.Code, w.Body.String())
	}
	view := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if view["status_label"].(string) != "Ready for Sale" {
		t.Errorf("status_label = %v", view["status_label"])
	}
	if view["current_location"].(string) != "Shelf B2" {
		t.Errorf("current_location = %v, want Shelf B2", view["current_location"])
	}
	if view["available_for_sale"].(bool) != true {
		t.Error("unit should be available for sale")
	}
	history := view["history"].([]interface{})
	if len(history) != 4 {
		t.Errorf("history entries = %d, want 4", len(history))
	}

	// 变更日志含初始创建共4条，倒序
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/inventory/units/"+unitID+"/logs", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("logs failed: %d %s", w.Code, w.Body.String())
	}
	logs := testutil.ParseResponse(w)["data"].(map[string]interface{})["items"].([]interface{})
	if len(logs) != 4 {
		t.Errorf("log entries = %d, want 4", len(logs))
	}
	last := logs[0].(map[string]interface{})
	if last["to_status"].(string) != "ready_for_sale" {
		t.Errorf("latest log to_status = %v", last["to_status"])
	}
}

func TestUnitDiscardedIsTerminal(t *testing.T) {
	env := setupUnitTest(t)
	token := testutil.DefaultTestToken()

	product := testutil.SeedProduct(t, env.DB, "滞销样品")
	variant := testutil.SeedVariant(t, env.DB, product.ID, "6900000000001")

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units", map[string]interface{}{
		"variant_id":     variant.ID,
		"purchase_price": "5.00",
	}, token)
	unitID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units/"+unitID+"/transition",
		map[string]interface{}{"status": "discarded"}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("discard failed: %d %s", w.Code, w.Body.String())
	}

	// 终态不允许任何出边
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units/"+unitID+"/transition",
		map[string]interface{}{"status": "ordered"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("leaving discarded should give 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUnitStatsAndAuth(t *testing.T) {
	env := setupUnitTest(t)
	token := testutil.DefaultTestToken()

	// 未认证
	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/inventory/units", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token should give 401, got %d", w.Code)
	}

	product := testutil.SeedProduct(t, env.DB, "统计商品")
	variant := testutil.SeedVariant(t, env.DB, product.ID, "6900000000002")
	for i := 0; i < 3; i++ {
		testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/inventory/units", map[string]interface{}{
			"variant_id":     variant.ID,
			"purchase_price": "1.00",
		}, token)
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/inventory/units/stats", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("stats failed: %d %s", w.Code, w.Body.String())
	}
	byStatus := testutil.ParseResponse(w)["data"].(map[string]interface{})["by_status"].(map[string]interface{})
	if byStatus["ordered"].(float64) != 3 {
		t.Errorf("ordered count = %v, want 3", byStatus["ordered"])
	}
}
