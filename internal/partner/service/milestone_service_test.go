package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KenTheWhale/unisew-partner/internal/partner/entity"
	"github.com/KenTheWhale/unisew-partner/internal/partner/repository"
	"github.com/KenTheWhale/unisew-partner/internal/partner/schedule"
	"github.com/KenTheWhale/unisew-partner/internal/partner/testutil"
	"github.com/KenTheWhale/unisew-partner/internal/shared/ghn"
)

// stubEstimator returns a fixed ETA or error
type stubEstimator struct {
	eta int64
	err error
}

func (s *stubEstimator) CalculateLeadTime(ctx context.Context, shopID string, req ghn.LeadTimeRequest) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.eta, nil
}

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newTestMilestoneService(est ShippingEstimator) *MilestoneService {
	svc := &MilestoneService{estimator: est, serviceID: 53320, now: fixedClock}
	return svc
}

func TestResolveLeadTimeConfigErrors(t *testing.T) {
	svc := newTestMilestoneService(&stubEstimator{eta: testNow.Add(72 * time.Hour).Unix()})
	order := &entity.Order{SchoolDistrict: 1454, SchoolWardCode: "21012"}

	_, err := svc.ResolveLeadTime(context.Background(), &entity.Partner{}, order)
	if !errors.Is(err, ErrShippingUIDMissing) {
		t.Errorf("expected ErrShippingUIDMissing, got %v", err)
	}

	partner := &entity.Partner{ShippingUID: "12345", DistrictID: 1442, WardCode: "20101"}
	_, err = svc.ResolveLeadTime(context.Background(), partner, &entity.Order{})
	if !errors.Is(err, ErrSchoolAddressMissing) {
		t.Errorf("expected ErrSchoolAddressMissing, got %v", err)
	}
}

func TestResolveLeadTimeDays(t *testing.T) {
	// ETA three calendar days out
	svc := newTestMilestoneService(&stubEstimator{eta: testNow.Add(72 * time.Hour).Unix()})
	partner := &entity.Partner{ShippingUID: "12345", DistrictID: 1442, WardCode: "20101"}
	order := &entity.Order{SchoolDistrict: 1454, SchoolWardCode: "21012"}

	days, err := svc.ResolveLeadTime(context.Background(), partner, order)
	if err != nil {
		t.Fatalf("ResolveLeadTime failed: %v", err)
	}
	if days != 3 {
		t.Errorf("expected 3 lead-time days, got %d", days)
	}
}

func TestWindowForLeadTime(t *testing.T) {
	svc := newTestMilestoneService(&stubEstimator{eta: testNow.Add(72 * time.Hour).Unix()})
	partner := &entity.Partner{ShippingUID: "12345", DistrictID: 1442, WardCode: "20101"}
	deadline := testNow.AddDate(0, 0, 30)
	order := &entity.Order{
		SchoolDistrict: 1454,
		SchoolWardCode: "21012",
		Deadline:       deadline,
	}

	result := svc.windowFor(context.Background(), partner, order)
	if result.ResolveErr != nil {
		t.Fatalf("unexpected resolve error: %v", result.ResolveErr)
	}
	if result.Window.Source != schedule.SourceLeadTime {
		t.Errorf("expected lead_time source, got %s", result.Window.Source)
	}
	// maxEnd = deadline - (3+1) days
	wantEnd := schedule.DateOf(deadline).AddDays(-4)
	if !result.Window.MaxEnd.Equal(wantEnd) {
		t.Errorf("expected maxEnd %s, got %s", wantEnd, result.Window.MaxEnd)
	}
	if !result.Window.MaxStart.Equal(wantEnd.AddDays(-1)) {
		t.Errorf("expected maxStart %s, got %s", wantEnd.AddDays(-1), result.Window.MaxStart)
	}
}

func TestWindowForFallsBackOnUpstreamError(t *testing.T) {
	svc := newTestMilestoneService(&stubEstimator{err: ghn.ErrTimeout})
	partner := &entity.Partner{ShippingUID: "12345", DistrictID: 1442, WardCode: "20101"}
	deadline := testNow.AddDate(0, 0, 30)
	order := &entity.Order{
		SchoolDistrict: 1454,
		SchoolWardCode: "21012",
		Deadline:       deadline,
	}

	result := svc.windowFor(context.Background(), partner, order)
	if result.ResolveErr == nil {
		t.Fatal("expected resolve error to be surfaced")
	}
	if result.Window.Source != schedule.SourceFallback {
		t.Errorf("expected fallback source, got %s", result.Window.Source)
	}
	wantEnd := schedule.DateOf(deadline).AddDays(-1)
	if !result.Window.MaxEnd.Equal(wantEnd) {
		t.Errorf("expected fallback maxEnd %s, got %s", wantEnd, result.Window.MaxEnd)
	}
}

// setupAssignTest wires a milestone service against a real database,
// with the estimator failing so the window is the deterministic fallback.
func setupAssignTest(t *testing.T) (*MilestoneService, *repository.Repositories, *entity.Order, []*entity.Phase) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	partner := testutil.SeedPartner(t, db, "partner-001", "Test Factory")
	deadline := testNow.AddDate(0, 0, 30)
	order := testutil.SeedOrder(t, db, "order-001", partner.ID, deadline)
	phases := []*entity.Phase{
		testutil.SeedPhase(t, db, "phase-cut", partner.ID, "Cutting", 1),
		testutil.SeedPhase(t, db, "phase-sew", partner.ID, "Sewing", 2),
		testutil.SeedPhase(t, db, "phase-pack", partner.ID, "Packing", 3),
	}

	walletSvc := NewWalletService(repos.Wallet, nil)
	svc := NewMilestoneService(repos.Partner, repos.Order, repos.Phase, repos.Milestone,
		walletSvc, &stubEstimator{err: ghn.ErrTimeout}, 53320)
	svc.SetClock(fixedClock)
	return svc, repos, order, phases
}

func validStages(phases []*entity.Phase) []schedule.Stage {
	today := schedule.DateOf(testNow)
	return []schedule.Stage{
		{PhaseID: phases[0].ID, Ordinal: 1, Start: today, End: today.AddDays(2)},
		{PhaseID: phases[1].ID, Ordinal: 2, Start: today.AddDays(3), End: today.AddDays(5)},
		{PhaseID: phases[2].ID, Ordinal: 3, Start: today.AddDays(6), End: today.AddDays(8)},
	}
}

func TestAssignMilestonePersistsAllStages(t *testing.T) {
	svc, repos, order, phases := setupAssignTest(t)
	ctx := context.Background()

	result, err := svc.AssignMilestone(ctx, "partner-001", order.ID, validStages(phases))
	if err != nil {
		t.Fatalf("AssignMilestone failed: %v", err)
	}
	if result.Window.Source != schedule.SourceFallback {
		t.Errorf("expected fallback window, got %s", result.Window.Source)
	}

	rows, err := repos.Milestone.ListByOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("ListByOrder failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 persisted stages, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Stage != i+1 {
			t.Errorf("row %d: expected stage %d, got %d", i, i+1, row.Stage)
		}
		if row.Status != entity.StageStatusAssigned {
			t.Errorf("row %d: expected assigned status, got %s", i, row.Status)
		}
	}

	updated, err := repos.Order.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if updated.Status != entity.OrderStatusProcessing {
		t.Errorf("expected order processing after assignment, got %s", updated.Status)
	}
}

func TestAssignMilestoneRejectsInvalidWithoutWriting(t *testing.T) {
	svc, repos, order, phases := setupAssignTest(t)
	ctx := context.Background()

	today := schedule.DateOf(testNow)
	// Stage 2 starts on stage 1's end date: overlap violation
	invalid := []schedule.Stage{
		{PhaseID: phases[0].ID, Ordinal: 1, Start: today, End: today.AddDays(2)},
		{PhaseID: phases[1].ID, Ordinal: 2, Start: today.AddDays(2), End: today.AddDays(4)},
	}

	_, err := svc.AssignMilestone(ctx, "partner-001", order.ID, invalid)
	var violations schedule.Violations
	if !errors.As(err, &violations) {
		t.Fatalf("expected schedule.Violations, got %v", err)
	}

	rows, err := repos.Milestone.ListByOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("ListByOrder failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no persisted stages after rejected submission, got %d", len(rows))
	}

	updated, _ := repos.Order.FindByID(ctx, order.ID)
	if updated.Status != entity.OrderStatusPending {
		t.Errorf("expected order still pending, got %s", updated.Status)
	}
}

func TestAssignMilestoneRejectsNonPendingOrder(t *testing.T) {
	svc, repos, order, phases := setupAssignTest(t)
	ctx := context.Background()

	if err := repos.Order.UpdateStatus(ctx, order.ID, entity.OrderStatusProcessing); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	_, err := svc.AssignMilestone(ctx, "partner-001", order.ID, validStages(phases))
	if !errors.Is(err, ErrOrderNotSchedulable) {
		t.Errorf("expected ErrOrderNotSchedulable, got %v", err)
	}
}

func TestAssignMilestoneRejectsForeignPhase(t *testing.T) {
	svc, _, order, phases := setupAssignTest(t)
	ctx := context.Background()

	stages := validStages(phases)
	stages[0].PhaseID = "phase-unknown"
	_, err := svc.AssignMilestone(ctx, "partner-001", order.ID, stages)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown phase, got %v", err)
	}
}

func TestUpdateStageStatusCompletionCascade(t *testing.T) {
	svc, repos, order, phases := setupAssignTest(t)
	ctx := context.Background()

	if _, err := svc.AssignMilestone(ctx, "partner-001", order.ID, validStages(phases)); err != nil {
		t.Fatalf("AssignMilestone failed: %v", err)
	}
	rows, err := repos.Milestone.ListByOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("ListByOrder failed: %v", err)
	}

	// assigned → completed is not a legal transition
	if _, err := svc.UpdateStageStatus(ctx, "partner-001", rows[0].ID, entity.StageStatusCompleted); !errors.Is(err, ErrStageTransition) {
		t.Errorf("expected ErrStageTransition, got %v", err)
	}

	for _, row := range rows {
		if _, err := svc.UpdateStageStatus(ctx, "partner-001", row.ID, entity.StageStatusProcessing); err != nil {
			t.Fatalf("transition to processing failed: %v", err)
		}
		stage, err := svc.UpdateStageStatus(ctx, "partner-001", row.ID, entity.StageStatusCompleted)
		if err != nil {
			t.Fatalf("transition to completed failed: %v", err)
		}
		if stage.CompletedDate == nil {
			t.Error("expected completed date to be set")
		}
	}

	updated, err := repos.Order.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if updated.Status != entity.OrderStatusCompleted {
		t.Errorf("expected order completed after last stage, got %s", updated.Status)
	}

	wallet, err := repos.Wallet.FindByPartner(ctx, "partner-001")
	if err != nil {
		t.Fatalf("FindByPartner failed: %v", err)
	}
	if wallet.Balance != order.Price {
		t.Errorf("expected wallet credited %d, got %d", order.Price, wallet.Balance)
	}
	txs, _, err := repos.Wallet.ListTransactions(ctx, wallet.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected exactly one credit transaction, got %d", len(txs))
	}
	if txs[0].Type != entity.TransactionTypeCredit || txs[0].Amount != order.Price {
		t.Errorf("unexpected transaction: type=%s amount=%d", txs[0].Type, txs[0].Amount)
	}
}

func TestBuildDraftSeedsSequentialStages(t *testing.T) {
	svc, _, order, phases := setupAssignTest(t)
	ctx := context.Background()

	phaseIDs := []string{phases[0].ID, phases[1].ID, phases[2].ID}
	stages, result, err := svc.BuildDraft(ctx, "partner-001", order.ID, phaseIDs)
	if err != nil {
		t.Fatalf("BuildDraft failed: %v", err)
	}
	if result.Window.Source != schedule.SourceFallback {
		t.Errorf("expected fallback window, got %s", result.Window.Source)
	}

	today := schedule.DateOf(testNow)
	if !stages[0].Start.Equal(today) {
		t.Errorf("expected first stage to start today, got %s", stages[0].Start)
	}
	for i := 1; i < len(stages); i++ {
		if stages[i].Ordinal != i+1 {
			t.Errorf("stage %d: expected ordinal %d, got %d", i, i+1, stages[i].Ordinal)
		}
		gap := stages[i-1].End.DaysUntil(stages[i].Start)
		if gap != 2 {
			t.Errorf("stage %d: expected 2-day gap, got %d", i, gap)
		}
	}
}

func TestReorderDraftRenumbers(t *testing.T) {
	svc := newTestMilestoneService(&stubEstimator{})
	today := schedule.DateOf(testNow)
	stages := []schedule.Stage{
		{PhaseID: "a", Ordinal: 1, Start: today, End: today.AddDays(1)},
		{PhaseID: "b", Ordinal: 2, Start: today.AddDays(2), End: today.AddDays(3)},
		{PhaseID: "c", Ordinal: 3, Start: today.AddDays(4), End: today.AddDays(5)},
	}

	moved, err := svc.ReorderDraft(stages, 2, 0)
	if err != nil {
		t.Fatalf("ReorderDraft failed: %v", err)
	}
	if moved[0].PhaseID != "c" || moved[1].PhaseID != "a" || moved[2].PhaseID != "b" {
		t.Errorf("unexpected order after move: %s %s %s", moved[0].PhaseID, moved[1].PhaseID, moved[2].PhaseID)
	}
	for i, st := range moved {
		if st.Ordinal != i+1 {
			t.Errorf("position %d: expected ordinal %d, got %d", i, i+1, st.Ordinal)
		}
	}
}
