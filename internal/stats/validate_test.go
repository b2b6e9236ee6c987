package stats

import "testing"

func warningsByCategory(ws []Warning) map[WarningCategory]Warning {
	m := make(map[WarningCategory]Warning, len(ws))
	for _, w := range ws {
		m[w.Category] = w
	}
	return m
}

func repeatHistory(p HistoryPoint, n int) []HistoryPoint {
	h := make([]HistoryPoint, n)
	for i := range h {
		h[i] = p
	}
	return h
}

// ============================================================
// Individual rules
// ============================================================

func TestAnalyzeShotFastUnderdoseNoHistory(t *testing.T) {
	ws := AnalyzeShot(ShotInput{TimeSeconds: intp(15), DoseG: 18, YieldG: 20}, nil)
	if len(ws) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %+v", len(ws), ws)
	}
	m := warningsByCategory(ws)
	if len(m) != 3 {
		t.Fatalf("categories must be unique: %+v", ws)
	}
	if w := m[TimeVeryShort]; w.Severity != SeverityError {
		t.Fatalf("time under 20s should be an error, got %+v", w)
	}
	if w := m[RatioLow]; w.Severity != SeverityWarning {
		t.Fatalf("ratio 1.11 should warn, got %+v", w)
	}
	if w := m[YieldLow]; w.Severity != SeverityWarning {
		t.Fatalf("yield 20g on 18g should warn, got %+v", w)
	}
}

func TestAnalyzeShotCleanShotNoWarnings(t *testing.T) {
	hist := repeatHistory(HistoryPoint{TimeSeconds: intp(30), DoseG: 18}, 5)
	ws := AnalyzeShot(ShotInput{TimeSeconds: intp(30), DoseG: 18, YieldG: 36, Rating: intp(9)}, hist)
	if len(ws) != 0 {
		t.Fatalf("expected no warnings, got %+v", ws)
	}
}

func TestAnalyzeShotRatioHigh(t *testing.T) {
	ws := AnalyzeShot(ShotInput{DoseG: 18, YieldG: 72}, nil)
	m := warningsByCategory(ws)
	w, ok := m[RatioHigh]
	if !ok || w.Severity != SeverityWarning {
		t.Fatalf("ratio 4.0 should produce a high-ratio warning: %+v", ws)
	}
	if _, ok := m[RatioLow]; ok {
		t.Fatal("ratio branches are exclusive")
	}
}

func TestAnalyzeShotTimeVeryLong(t *testing.T) {
	ws := AnalyzeShot(ShotInput{TimeSeconds: intp(80), DoseG: 18, YieldG: 36}, nil)
	m := warningsByCategory(ws)
	if w, ok := m[TimeVeryLong]; !ok || w.Severity != SeverityWarning {
		t.Fatalf("80s extraction should warn: %+v", ws)
	}
}

func TestAnalyzeShotTimeBelowAverage(t *testing.T) {
	hist := repeatHistory(HistoryPoint{TimeSeconds: intp(40), DoseG: 18}, 4)
	ws := AnalyzeShot(ShotInput{TimeSeconds: intp(25), DoseG: 18, YieldG: 36}, hist)
	m := warningsByCategory(ws)
	w, ok := m[TimeVeryShort]
	if !ok || w.Severity != SeverityInfo {
		t.Fatalf("25s vs 40s average should be an info note: %+v", ws)
	}
}

func TestAnalyzeShotRelativeTimeRuleNeedsHistoryTimes(t *testing.T) {
	// History exists but carries no times: the relative rule cannot fire.
	hist := []HistoryPoint{{DoseG: 18}, {DoseG: 18}}
	ws := AnalyzeShot(ShotInput{TimeSeconds: intp(25), DoseG: 18, YieldG: 36}, hist)
	if _, ok := warningsByCategory(ws)[TimeVeryShort]; ok {
		t.Fatalf("no history times, no relative time warning: %+v", ws)
	}
}

func TestAnalyzeShotNoTimeSkipsTimeRules(t *testing.T) {
	ws := AnalyzeShot(ShotInput{DoseG: 18, YieldG: 36}, nil)
	m := warningsByCategory(ws)
	if _, ok := m[TimeVeryShort]; ok {
		t.Fatalf("missing time must skip time rules: %+v", ws)
	}
	if _, ok := m[TimeVeryLong]; ok {
		t.Fatalf("missing time must skip time rules: %+v", ws)
	}
}

func TestAnalyzeShotDoseUnusual(t *testing.T) {
	hist := repeatHistory(HistoryPoint{TimeSeconds: intp(30), DoseG: 18}, 5)
	ws := AnalyzeShot(ShotInput{TimeSeconds: intp(30), DoseG: 9, YieldG: 18}, hist)
	m := warningsByCategory(ws)
	if w, ok := m[DoseUnusual]; !ok || w.Severity != SeverityInfo {
		t.Fatalf("9g against an 18g average should note the dose: %+v", ws)
	}
}

func TestAnalyzeShotDoseRuleInertWithoutHistory(t *testing.T) {
	// With no history the average is the shot's own dose, so the rule
	// can never trigger.
	ws := AnalyzeShot(ShotInput{TimeSeconds: intp(30), DoseG: 9, YieldG: 18}, nil)
	if _, ok := warningsByCategory(ws)[DoseUnusual]; ok {
		t.Fatalf("dose rule should be inert without history: %+v", ws)
	}
}

func TestAnalyzeShotRatingInconsistent(t *testing.T) {
	ws := AnalyzeShot(ShotInput{TimeSeconds: intp(30), DoseG: 18, YieldG: 30, Rating: intp(9)}, nil)
	m := warningsByCategory(ws)
	if w, ok := m[RatingInconsistent]; !ok || w.Severity != SeverityInfo {
		t.Fatalf("rating 9 at ratio 1.67 should raise an info note: %+v", ws)
	}
}

func TestAnalyzeShotRatingInconsistentNeedsHighRating(t *testing.T) {
	ws := AnalyzeShot(ShotInput{TimeSeconds: intp(30), DoseG: 18, YieldG: 30, Rating: intp(7)}, nil)
	if _, ok := warningsByCategory(ws)[RatingInconsistent]; ok {
		t.Fatalf("rating 7 should not trigger the inconsistency note: %+v", ws)
	}
}

func TestAnalyzeShotZeroDose(t *testing.T) {
	ws := AnalyzeShot(ShotInput{TimeSeconds: intp(30), DoseG: 0, YieldG: 36}, nil)
	m := warningsByCategory(ws)
	if _, ok := m[RatioLow]; !ok {
		t.Fatalf("zero dose means ratio 0, which is low: %+v", ws)
	}
	if _, ok := m[YieldLow]; ok {
		t.Fatalf("yield rule compares against dose*1.2 = 0: %+v", ws)
	}
}

// ============================================================
// Ordering and determinism
// ============================================================

func TestAnalyzeShotWarningOrderIsRuleOrder(t *testing.T) {
	ws := AnalyzeShot(ShotInput{TimeSeconds: intp(15), DoseG: 18, YieldG: 20}, nil)
	want := []WarningCategory{RatioLow, TimeVeryShort, YieldLow}
	if len(ws) != len(want) {
		t.Fatalf("expected %d warnings, got %+v", len(want), ws)
	}
	for i, cat := range want {
		if ws[i].Category != cat {
			t.Fatalf("warning %d: got %s, want %s", i, ws[i].Category, cat)
		}
	}
}

func TestAnalyzeShotDeterministic(t *testing.T) {
	in := ShotInput{TimeSeconds: intp(15), DoseG: 18, YieldG: 20, Rating: intp(8)}
	hist := repeatHistory(HistoryPoint{TimeSeconds: intp(35), DoseG: 19}, 3)
	first := AnalyzeShot(in, hist)
	second := AnalyzeShot(in, hist)
	if len(first) != len(second) {
		t.Fatalf("analysis is not deterministic: %+v vs %+v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("analysis is not deterministic at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSeverityString(t *testing.T) {
	cases := []struct {
		sev  Severity
		want string
	}{
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
	}
	for _, c := range cases {
		if got := c.sev.String(); got != c.want {
			t.Errorf("Severity(%d).String() = %q, want %q", c.sev, got, c.want)
		}
	}
}
