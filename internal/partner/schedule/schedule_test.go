package schedule

import (
	"encoding/json"
	"testing"
	"time"
)

func d(s string) Date {
	dt, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return dt
}

func TestComputeWindowFromLeadTime(t *testing.T) {
	w := ComputeWindow(d("2024-03-20"), 3)
	if w.Source != SourceLeadTime {
		t.Errorf("Expected lead_time source, got %s", w.Source)
	}
	if w.MaxEnd.String() != "2024-03-16" {
		t.Errorf("Expected max end 2024-03-16, got %s", w.MaxEnd)
	}
	if w.MaxStart.String() != "2024-03-15" {
		t.Errorf("Expected max start 2024-03-15, got %s", w.MaxStart)
	}
}

func TestComputeWindowFallback(t *testing.T) {
	deadline := d("2024-03-20")
	for _, leadDays := range []int{0, -1, -100} {
		w := ComputeWindow(deadline, leadDays)
		if w.Source != SourceFallback {
			t.Errorf("leadDays=%d: expected fallback source, got %s", leadDays, w.Source)
		}
		if w.MaxEnd.String() != "2024-03-19" {
			t.Errorf("leadDays=%d: expected max end 2024-03-19, got %s", leadDays, w.MaxEnd)
		}
		if w.MaxStart.String() != "2024-03-18" {
			t.Errorf("leadDays=%d: expected max start 2024-03-18, got %s", leadDays, w.MaxStart)
		}
	}
}

// Increasing lead time must never move the window later.
func TestWindowMonotonicity(t *testing.T) {
	deadline := d("2024-06-30")
	prev := ComputeWindow(deadline, 1)
	for leadDays := 2; leadDays <= 30; leadDays++ {
		w := ComputeWindow(deadline, leadDays)
		if w.MaxEnd.After(prev.MaxEnd) {
			t.Fatalf("leadDays=%d: max end %s moved later than %s", leadDays, w.MaxEnd, prev.MaxEnd)
		}
		if w.MaxStart.After(prev.MaxStart) {
			t.Fatalf("leadDays=%d: max start %s moved later than %s", leadDays, w.MaxStart, prev.MaxStart)
		}
		prev = w
	}
}

func TestComputeWindowDeterministic(t *testing.T) {
	a := ComputeWindow(d("2024-03-20"), 5)
	b := ComputeWindow(d("2024-03-20"), 5)
	if a != b {
		t.Errorf("Same inputs produced different windows: %+v vs %+v", a, b)
	}
}

func validStages(today Date) []Stage {
	return []Stage{
		{PhaseID: "ph-cut", Ordinal: 1, Start: today, End: today.AddDays(2)},
		{PhaseID: "ph-sew", Ordinal: 2, Start: today.AddDays(4), End: today.AddDays(6)},
		{PhaseID: "ph-pack", Ordinal: 3, Start: today.AddDays(8), End: today.AddDays(10)},
	}
}

func TestValidateAcceptsSequentialStages(t *testing.T) {
	today := d("2024-03-01")
	w := ComputeWindow(d("2024-03-20"), 3) // max start 03-15, max end 03-16
	if vs := Validate(validStages(today), w, today); len(vs) != 0 {
		t.Errorf("Expected no violations, got %v", vs)
	}
}

// A stage missing a date must short-circuit: only incomplete violations are
// reported even when other stages would also break the window bounds.
func TestValidateIncompleteShortCircuits(t *testing.T) {
	today := d("2024-03-01")
	w := ComputeWindow(d("2024-03-10"), 3) // tight window: max end 03-06
	stages := []Stage{
		{PhaseID: "ph-cut", Ordinal: 1, Start: today}, // end missing
		{PhaseID: "ph-sew", Ordinal: 2, Start: today.AddDays(20), End: today.AddDays(25)}, // would break bounds
	}
	vs := Validate(stages, w, today)
	if len(vs) != 1 {
		t.Fatalf("Expected exactly 1 violation, got %d: %v", len(vs), vs)
	}
	if vs[0].Kind != ViolationIncomplete || vs[0].Ordinal != 1 {
		t.Errorf("Expected incomplete violation on stage 1, got %+v", vs[0])
	}
}

func TestValidateEmptyList(t *testing.T) {
	today := d("2024-03-01")
	vs := Validate(nil, ComputeWindow(d("2024-03-20"), 3), today)
	if len(vs) != 1 || vs[0].Kind != ViolationIncomplete {
		t.Errorf("Expected single incomplete violation for empty list, got %v", vs)
	}
}

// Stage 2 starting before stage 1 ends must be flagged by the validator
// itself, not only by the assignment UI.
func TestValidateOverlapFlagged(t *testing.T) {
	today := d("2024-03-01")
	w := ComputeWindow(d("2024-04-20"), 3)
	stages := []Stage{
		{PhaseID: "ph-cut", Ordinal: 1, Start: today, End: today.AddDays(5)},
		{PhaseID: "ph-sew", Ordinal: 2, Start: today.AddDays(3), End: today.AddDays(8)},
	}
	vs := Validate(stages, w, today)
	found := false
	for _, v := range vs {
		if v.Kind == ViolationOverlap && v.Ordinal == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected overlap violation on stage 2, got %v", vs)
	}
}

func TestValidateBoundViolations(t *testing.T) {
	today := d("2024-03-01")
	w := ComputeWindow(d("2024-03-10"), 3) // max start 03-05, max end 03-06
	stages := []Stage{
		{PhaseID: "ph-cut", Ordinal: 1, Start: today, End: today.AddDays(2)},
		{PhaseID: "ph-sew", Ordinal: 2, Start: d("2024-03-06"), End: d("2024-03-09")},
	}
	vs := Validate(stages, w, today)
	kinds := map[ViolationKind]int{}
	for _, v := range vs {
		kinds[v.Kind]++
	}
	if kinds[ViolationStartBound] != 1 {
		t.Errorf("Expected 1 start-bound violation, got %v", vs)
	}
	if kinds[ViolationEndBound] != 1 {
		t.Errorf("Expected 1 end-bound violation, got %v", vs)
	}
	// violation carries the literal bound that was exceeded
	for _, v := range vs {
		if v.Kind == ViolationStartBound && !v.Bound.Equal(w.MaxStart) {
			t.Errorf("Start-bound violation carries %s, want %s", v.Bound, w.MaxStart)
		}
	}
}

// Fallback- and lead-time-derived bounds must be distinguishable in messages.
func TestValidateMessagesNameBoundSource(t *testing.T) {
	today := d("2024-03-01")
	late := []Stage{{PhaseID: "ph-cut", Ordinal: 1, Start: today, End: d("2024-06-01")}}

	leadW := ComputeWindow(d("2024-03-10"), 3)
	fbW := ComputeWindow(d("2024-03-10"), 0)
	leadVs := Validate(late, leadW, today)
	fbVs := Validate(late, fbW, today)
	if len(leadVs) == 0 || len(fbVs) == 0 {
		t.Fatal("Expected violations in both modes")
	}
	if leadVs[0].Message == fbVs[0].Message {
		t.Errorf("Lead-time and fallback messages should differ: %q", leadVs[0].Message)
	}
}

func TestValidateFirstStageMustStartToday(t *testing.T) {
	today := d("2024-03-01")
	w := ComputeWindow(d("2024-04-20"), 3)
	stages := validStages(today.AddDays(1))
	vs := Validate(stages, w, today)
	found := false
	for _, v := range vs {
		if v.Kind == ViolationFirstStart {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected first-start violation, got %v", vs)
	}
}

func TestValidateOrdinalGap(t *testing.T) {
	today := d("2024-03-01")
	w := ComputeWindow(d("2024-04-20"), 3)
	stages := validStages(today)
	stages[2].Ordinal = 5
	vs := Validate(stages, w, today)
	found := false
	for _, v := range vs {
		if v.Kind == ViolationOrdinal && v.Ordinal == 5 {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected ordinal violation, got %v", vs)
	}
}

func TestValidateMinimumDuration(t *testing.T) {
	today := d("2024-03-01")
	w := ComputeWindow(d("2024-04-20"), 3)
	stages := []Stage{{PhaseID: "ph-cut", Ordinal: 1, Start: today, End: today}}
	vs := Validate(stages, w, today)
	found := false
	for _, v := range vs {
		if v.Kind == ViolationDuration {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected duration violation for zero-length stage, got %v", vs)
	}
}

// Running the validator twice over the same inputs must give identical results.
func TestValidateIdempotent(t *testing.T) {
	today := d("2024-03-01")
	w := ComputeWindow(d("2024-03-10"), 3)
	stages := []Stage{
		{PhaseID: "ph-cut", Ordinal: 1, Start: today, End: d("2024-03-09")},
		{PhaseID: "ph-sew", Ordinal: 3, Start: d("2024-03-02"), End: d("2024-03-08")},
	}
	first := Validate(stages, w, today)
	second := Validate(stages, w, today)
	if len(first) != len(second) {
		t.Fatalf("Validation not idempotent: %d vs %d violations", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Violation %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestMoveReordersAndRenumbers(t *testing.T) {
	stages := []Stage{
		{PhaseID: "a", Ordinal: 1},
		{PhaseID: "b", Ordinal: 2},
		{PhaseID: "c", Ordinal: 3},
	}
	out, err := Move(stages, 0, 2)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	want := []string{"b", "c", "a"}
	for i, ph := range want {
		if out[i].PhaseID != ph {
			t.Errorf("Position %d: expected %s, got %s", i, ph, out[i].PhaseID)
		}
		if out[i].Ordinal != i+1 {
			t.Errorf("Position %d: expected ordinal %d, got %d", i, i+1, out[i].Ordinal)
		}
	}
	// input untouched
	if stages[0].PhaseID != "a" || stages[0].Ordinal != 1 {
		t.Errorf("Move mutated its input: %+v", stages[0])
	}
}

func TestMoveOutOfRange(t *testing.T) {
	stages := []Stage{{PhaseID: "a", Ordinal: 1}}
	if _, err := Move(stages, 0, 3); err == nil {
		t.Error("Expected error for out-of-range move")
	}
	if _, err := Move(stages, -1, 0); err == nil {
		t.Error("Expected error for negative index")
	}
}

func TestSeedDatesSatisfiesSequencing(t *testing.T) {
	today := d("2024-03-01")
	stages := []Stage{
		{PhaseID: "a", Ordinal: 1},
		{PhaseID: "b", Ordinal: 2},
		{PhaseID: "c", Ordinal: 3},
	}
	seeded := SeedDates(stages, today, 2, 2)
	if !seeded[0].Start.Equal(today) {
		t.Errorf("Stage 1 should start today, got %s", seeded[0].Start)
	}
	// seeded dates pass every check except possibly window bounds
	w := ComputeWindow(today.AddDays(60), 3)
	if vs := Validate(seeded, w, today); len(vs) != 0 {
		t.Errorf("Seeded stages should validate cleanly, got %v", vs)
	}
	// default 2-day gap between consecutive stages
	gap := seeded[0].End.DaysUntil(seeded[1].Start)
	if gap != 2 {
		t.Errorf("Expected 2-day gap, got %d", gap)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	type payload struct {
		Start Date `json:"start_date"`
		End   Date `json:"end_date"`
	}
	in := []byte(`{"start_date":"2024-03-01","end_date":"2024-03-05"}`)
	var p payload
	if err := json.Unmarshal(in, &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if p.Start.String() != "2024-03-01" || p.End.String() != "2024-03-05" {
		t.Errorf("Unexpected dates: %s, %s", p.Start, p.End)
	}
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != string(in) {
		t.Errorf("Round trip mismatch: %s", out)
	}
}

func TestDateOfTruncatesClock(t *testing.T) {
	ts := time.Date(2024, 3, 1, 23, 59, 59, 0, time.FixedZone("ICT", 7*3600))
	if got := DateOf(ts).String(); got != "2024-03-01" {
		t.Errorf("Expected 2024-03-01, got %s", got)
	}
}

func TestDateParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"01/03/2024", "2024-3-1", "yesterday", ""} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("Expected parse error for %q", s)
		}
	}
}
