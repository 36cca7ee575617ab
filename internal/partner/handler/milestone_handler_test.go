package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
	"github.com/KenTheWhale/unisew-partner/internal/partner/service"
	"github.com/KenTheWhale/unisew-partner/internal/partner/testutil"
	"github.com/KenTheWhale/unisew-partner/internal/shared/ghn"
)

// failingEstimator simulates an unreachable shipping provider
type failingEstimator struct{}

func (failingEstimator) CalculateLeadTime(ctx context.Context, shopID string, req ghn.LeadTimeRequest) (int64, error) {
	return 0, ghn.ErrTimeout
}

var milestoneTestNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func setupMilestoneTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	walletSvc := service.NewWalletService(repos.Wallet, nil)
	svc := service.NewMilestoneService(repos.Partner, repos.Order, repos.Phase, repos.Milestone,
		walletSvc, failingEstimator{}, 53320)
	svc.SetClock(func() time.Time { return milestoneTestNow })
	h := NewMilestoneHandler(svc)

	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/orders/:id/milestone/window", h.GetWindow)
	api.POST("/orders/:id/milestone/draft", h.BuildDraft)
	api.POST("/orders/:id/milestone/reorder", h.Reorder)
	api.POST("/orders/:id/milestone", h.Assign)
	api.PATCH("/milestone/stages/:stageId/status", h.UpdateStageStatus)

	testutil.SeedPartner(t, db, "partner-001", "Test Factory")
	testutil.SeedOrder(t, db, "order-001", "partner-001", milestoneTestNow.AddDate(0, 0, 30))
	testutil.SeedPhase(t, db, "phase-cut", "partner-001", "Cutting", 1)
	testutil.SeedPhase(t, db, "phase-sew", "partner-001", "Sewing", 2)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestMilestoneWindowFallsBack(t *testing.T) {
	env := setupMilestoneTest(t)
	token := partnerToken("partner-001")

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/orders/order-001/milestone/window", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	window := data["window"].(map[string]interface{})
	if window["source"] != "fallback" {
		t.Errorf("Expected fallback window source, got %v", window["source"])
	}
	if data["lead_time_warning"] == nil {
		t.Error("Expected lead_time_warning when estimator is unreachable")
	}
	// deadline 2026-03-31, fallback maxEnd = deadline - 1d
	if window["max_end"] != "2026-03-30" {
		t.Errorf("Expected max_end 2026-03-30, got %v", window["max_end"])
	}
}

func TestMilestoneAssignValidationErrors(t *testing.T) {
	env := setupMilestoneTest(t)
	token := partnerToken("partner-001")

	// Stage 2 starts before stage 1 ends
	body := map[string]interface{}{
		"stages": []map[string]interface{}{
			{"phase_id": "phase-cut", "stage": 1, "start_date": "2026-03-01", "end_date": "2026-03-03"},
			{"phase_id": "phase-sew", "stage": 2, "start_date": "2026-03-03", "end_date": "2026-03-05"},
		},
	}
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/orders/order-001/milestone", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40002 {
		t.Errorf("Expected business code 40002, got %v", resp["code"])
	}
	violations := resp["data"].(map[string]interface{})["violations"].([]interface{})
	if len(violations) == 0 {
		t.Fatal("Expected violation details in response")
	}
}

func TestMilestoneAssignSuccess(t *testing.T) {
	env := setupMilestoneTest(t)
	token := partnerToken("partner-001")

	body := map[string]interface{}{
		"stages": []map[string]interface{}{
			{"phase_id": "phase-cut", "stage": 1, "start_date": "2026-03-01", "end_date": "2026-03-03"},
			{"phase_id": "phase-sew", "stage": 2, "start_date": "2026-03-04", "end_date": "2026-03-06"},
		},
	}
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/orders/order-001/milestone", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Re-submission rejected: order left pending state on assignment
	w = testutil.DoRequest(env.Router, "POST", "/api/v1/orders/order-001/milestone", body, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 on re-submission, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMilestoneOwnershipEnforced(t *testing.T) {
	env := setupMilestoneTest(t)
	testutil.SeedPartner(t, env.DB, "partner-002", "Other Factory")

	w := testutil.DoRequest(env.Router, "GET", "/api/v1/orders/order-001/milestone/window", nil, partnerToken("partner-002"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for foreign order, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMilestoneReorder(t *testing.T) {
	env := setupMilestoneTest(t)
	token := partnerToken("partner-001")

	body := map[string]interface{}{
		"stages": []map[string]interface{}{
			{"phase_id": "phase-cut", "stage": 1, "start_date": "2026-03-01", "end_date": "2026-03-03"},
			{"phase_id": "phase-sew", "stage": 2, "start_date": "2026-03-04", "end_date": "2026-03-06"},
		},
		"from": 1,
		"to":   0,
	}
	w := testutil.DoRequest(env.Router, "POST", "/api/v1/orders/order-001/milestone/reorder", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	stages := resp["data"].(map[string]interface{})["stages"].([]interface{})
	first := stages[0].(map[string]interface{})
	if first["phase_id"] != "phase-sew" {
		t.Errorf("Expected phase-sew first after move, got %v", first["phase_id"])
	}
	if first["stage"].(float64) != 1 {
		t.Errorf("Expected renumbered stage 1, got %v", first["stage"])
	}
}
