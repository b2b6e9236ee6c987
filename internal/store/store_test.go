package store

import (
	"math"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedBean inserts a bean and returns it.
func seedBean(t *testing.T, s *Store, roaster, name string, roastDaysAgo int) *Bean {
	t.Helper()
	b, err := s.CreateBean(Bean{
		Roaster:   roaster,
		Name:      name,
		RoastDate: time.Now().UTC().AddDate(0, 0, -roastDaysAgo),
		BuyDate:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed bean: %v", err)
	}
	return b
}

// seedShot inserts a shot for the given bean with a date offset in days.
func seedShot(t *testing.T, s *Store, beanID int64, daysAgo int, rating *int) *Shot {
	t.Helper()
	shot, err := s.CreateShot(Shot{
		Date:   time.Now().UTC().AddDate(0, 0, -daysAgo),
		BeanID: beanID,
		DoseG:  18,
		YieldG: 36,
		Rating: rating,
	})
	if err != nil {
		t.Fatalf("seed shot: %v", err)
	}
	return shot
}

func ratingPtr(v int) *int { return &v }

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/crema.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	// Running migrate again should be a no-op
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Beans
// ============================================================

func TestCreateAndGetBean(t *testing.T) {
	s := newTestStore(t)
	alt := 1850
	b, err := s.CreateBean(Bean{
		Roaster:   "Square Mile",
		Name:      "Red Brick",
		RoastDate: time.Now().UTC().AddDate(0, 0, -7),
		BuyDate:   time.Now().UTC(),
		Country:   "Brazil",
		Process:   "Natural",
		Varietal:  "Catuai",
		AltitudeM: &alt,
		Notes:     "house blend",
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if b.Roaster != "Square Mile" || b.Name != "Red Brick" {
		t.Fatalf("unexpected bean: %+v", b)
	}
	if b.AltitudeM == nil || *b.AltitudeM != 1850 {
		t.Fatalf("altitude = %v, want 1850", b.AltitudeM)
	}
	if !b.Active {
		t.Fatal("new bean should be active")
	}
	if b.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
	if b.Label() != "Square Mile - Red Brick" {
		t.Fatalf("label = %q", b.Label())
	}
}

func TestCreateBeanDuplicateBatch(t *testing.T) {
	s := newTestStore(t)
	roast := time.Now().UTC().AddDate(0, 0, -7)
	_, err := s.CreateBean(Bean{Roaster: "SM", Name: "Red Brick", RoastDate: roast, BuyDate: roast})
	if err != nil {
		t.Fatal(err)
	}
	// Same roaster, name and roast date: the same batch, rejected.
	_, err = s.CreateBean(Bean{Roaster: "SM", Name: "Red Brick", RoastDate: roast, BuyDate: roast})
	if err == nil {
		t.Fatal("expected error for duplicate batch")
	}
	// A fresh roast date is a new batch.
	_, err = s.CreateBean(Bean{Roaster: "SM", Name: "Red Brick", RoastDate: roast.AddDate(0, 0, 14), BuyDate: roast})
	if err != nil {
		t.Fatalf("new roast date should be allowed: %v", err)
	}
}

func TestGetBeanNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetBean(999)
	if err == nil {
		t.Fatal("expected error for missing bean")
	}
}

func TestListBeansOrderAndEmpty(t *testing.T) {
	s := newTestStore(t)
	beans, err := s.ListBeans(false)
	if err != nil {
		t.Fatal(err)
	}
	if beans != nil {
		t.Fatalf("expected nil slice, got %d items", len(beans))
	}

	seedBean(t, s, "A", "Older", 14)
	seedBean(t, s, "B", "Fresher", 3)

	beans, err = s.ListBeans(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(beans) != 2 {
		t.Fatalf("expected 2 beans, got %d", len(beans))
	}
	// Newest roast first
	if beans[0].Name != "Fresher" || beans[1].Name != "Older" {
		t.Fatalf("expected newest roast first: got %s, %s", beans[0].Name, beans[1].Name)
	}
}

func TestDeactivateBean(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)
	if err := s.DeactivateBean(b.ID); err != nil {
		t.Fatal(err)
	}

	beans, _ := s.ListBeans(true)
	if len(beans) != 0 {
		t.Fatal("deactivated bean should be hidden from active list")
	}
	beans, _ = s.ListBeans(false)
	if len(beans) != 1 || beans[0].Active {
		t.Fatal("deactivated bean should appear in the full list with Active=false")
	}
	// Still resolvable for old shots.
	if _, err := s.GetBean(b.ID); err != nil {
		t.Fatalf("deactivated bean should stay resolvable: %v", err)
	}
}

func TestSearchBeans(t *testing.T) {
	s := newTestStore(t)
	seedBean(t, s, "Square Mile", "Red Brick", 7)
	seedBean(t, s, "Tim Wendelboe", "Karogoto", 3)

	byRoaster, err := s.SearchBeans("square")
	if err != nil {
		t.Fatal(err)
	}
	if len(byRoaster) != 1 || byRoaster[0].Roaster != "Square Mile" {
		t.Fatalf("roaster search failed: %+v", byRoaster)
	}

	byName, _ := s.SearchBeans("karo")
	if len(byName) != 1 || byName[0].Name != "Karogoto" {
		t.Fatalf("name search failed: %+v", byName)
	}

	none, _ := s.SearchBeans("geisha")
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %+v", none)
	}
}

func TestUpdateBean(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)
	b.Country = "Brazil"
	b.Notes = "updated"
	if err := s.UpdateBean(*b); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetBean(b.ID)
	if got.Country != "Brazil" || got.Notes != "updated" {
		t.Fatalf("update not applied: %+v", got)
	}
}

// ============================================================
// Grinders and profiles
// ============================================================

func TestCreateGrinderUniqueName(t *testing.T) {
	s := newTestStore(t)
	g, err := s.CreateGrinder("Niche Zero", "2.4", "single dose")
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "Niche Zero" || g.DefaultSetting != "2.4" || !g.Active {
		t.Fatalf("unexpected grinder: %+v", g)
	}
	if _, err := s.CreateGrinder("Niche Zero", "", ""); err == nil {
		t.Fatal("expected error for duplicate grinder name")
	}
}

func TestListGrindersSorted(t *testing.T) {
	s := newTestStore(t)
	s.CreateGrinder("Zeta", "", "")
	s.CreateGrinder("Alpha", "", "")
	grinders, err := s.ListGrinders(false)
	if err != nil {
		t.Fatal(err)
	}
	if grinders[0].Name != "Alpha" || grinders[1].Name != "Zeta" {
		t.Fatalf("expected sorted by name: %+v", grinders)
	}
}

func TestDeactivateGrinder(t *testing.T) {
	s := newTestStore(t)
	g, _ := s.CreateGrinder("Old Mill", "", "")
	s.DeactivateGrinder(g.ID)

	active, _ := s.ListGrinders(true)
	if len(active) != 0 {
		t.Fatal("deactivated grinder should be hidden")
	}
	all, _ := s.ListGrinders(false)
	if len(all) != 1 || all[0].Active {
		t.Fatal("deactivated grinder should appear in the full list")
	}
}

func TestUpdateGrinder(t *testing.T) {
	s := newTestStore(t)
	g, _ := s.CreateGrinder("Niche", "2.4", "")
	if err := s.UpdateGrinder(g.ID, "Niche Zero", "2.6", "burrs seasoned"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetGrinder(g.ID)
	if got.Name != "Niche Zero" || got.DefaultSetting != "2.6" || got.Notes != "burrs seasoned" {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestProfileCRUD(t *testing.T) {
	s := newTestStore(t)
	p, err := s.CreateProfile("Classic 9 bar", "flat profile", "9 bar / 93C")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateProfile("Classic 9 bar", "", ""); err == nil {
		t.Fatal("expected error for duplicate profile name")
	}

	if err := s.UpdateProfile(p.ID, "Classic 9 bar", "flat", "9 bar / 94C"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetProfile(p.ID)
	if got.Parameters != "9 bar / 94C" {
		t.Fatalf("update not applied: %+v", got)
	}

	s.DeactivateProfile(p.ID)
	active, _ := s.ListProfiles(true)
	if len(active) != 0 {
		t.Fatal("deactivated profile should be hidden")
	}
}

func TestSearchGrindersAndProfiles(t *testing.T) {
	s := newTestStore(t)
	s.CreateGrinder("Niche Zero", "", "")
	s.CreateGrinder("Comandante C40", "", "")
	s.CreateProfile("Classic 9 bar", "", "")

	grinders, err := s.SearchGrinders("niche")
	if err != nil {
		t.Fatal(err)
	}
	if len(grinders) != 1 || grinders[0].Name != "Niche Zero" {
		t.Fatalf("grinder search failed: %+v", grinders)
	}

	profiles, _ := s.SearchProfiles("classic")
	if len(profiles) != 1 {
		t.Fatalf("profile search failed: %+v", profiles)
	}
}

// ============================================================
// Shots
// ============================================================

func TestCreateShotComputesRatio(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)

	shot, err := s.CreateShot(Shot{
		Date:   time.Now().UTC(),
		BeanID: b.ID,
		DoseG:  18,
		YieldG: 36,
		Ratio:  99, // stored ratio must be recomputed, not trusted
	})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(shot.Ratio-2.0) > 0.001 {
		t.Fatalf("ratio = %f, want 2.0", shot.Ratio)
	}
	if shot.CreatedAt.IsZero() || shot.UpdatedAt.IsZero() {
		t.Fatal("timestamps should be set")
	}
}

func TestCreateShotZeroDose(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)
	shot, err := s.CreateShot(Shot{Date: time.Now().UTC(), BeanID: b.ID, DoseG: 0, YieldG: 36})
	if err != nil {
		t.Fatal(err)
	}
	if shot.Ratio != 0 {
		t.Fatalf("zero dose should store ratio 0, got %f", shot.Ratio)
	}
}

func TestCreateShotRequiresBean(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateShot(Shot{Date: time.Now().UTC(), BeanID: 999, DoseG: 18, YieldG: 36})
	if err == nil {
		t.Fatal("expected foreign key error for missing bean")
	}
}

func TestCreateShotOptionalFieldsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)
	g, _ := s.CreateGrinder("Niche Zero", "2.4", "")
	timeSec := 28
	temp := 93.5
	preinfSec := 5
	preinfBar := 2.5
	rating := 8

	shot, err := s.CreateShot(Shot{
		Date:           time.Now().UTC(),
		BeanID:         b.ID,
		GrinderID:      &g.ID,
		DoseG:          18,
		YieldG:         36,
		TimeSeconds:    &timeSec,
		TempC:          &temp,
		GrindSetting:   "2.4",
		PreinfusionSec: &preinfSec,
		PreinfusionBar: &preinfBar,
		Aroma:          "floral",
		Flavor:         "stone fruit",
		Body:           "medium",
		Acidity:        "bright",
		Finish:         "long",
		Notes:          "dialed in",
		NextShot:       "try 94C",
		Rating:         &rating,
	})
	if err != nil {
		t.Fatal(err)
	}
	if shot.TimeSeconds == nil || *shot.TimeSeconds != 28 {
		t.Fatalf("time = %v", shot.TimeSeconds)
	}
	if shot.TempC == nil || *shot.TempC != 93.5 {
		t.Fatalf("temp = %v", shot.TempC)
	}
	if shot.PreinfusionSec == nil || *shot.PreinfusionSec != 5 {
		t.Fatalf("preinfusion = %v", shot.PreinfusionSec)
	}
	if shot.Rating == nil || *shot.Rating != 8 {
		t.Fatalf("rating = %v", shot.Rating)
	}
	if shot.GrinderID == nil || *shot.GrinderID != g.ID {
		t.Fatalf("grinder = %v", shot.GrinderID)
	}
	if shot.Flavor != "stone fruit" || shot.NextShot != "try 94C" {
		t.Fatalf("tasting fields lost: %+v", shot)
	}
}

func TestCreateShotNullOptionalsStayNil(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)
	shot, err := s.CreateShot(Shot{Date: time.Now().UTC(), BeanID: b.ID, DoseG: 18, YieldG: 36})
	if err != nil {
		t.Fatal(err)
	}
	if shot.TimeSeconds != nil || shot.TempC != nil || shot.Rating != nil ||
		shot.GrinderID != nil || shot.ProfileID != nil {
		t.Fatalf("absent optionals should come back nil: %+v", shot)
	}
}

func TestUpdateShotRecomputesRatio(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)
	shot := seedShot(t, s, b.ID, 0, nil)

	shot.YieldG = 45
	if err := s.UpdateShot(*shot); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetShot(shot.ID)
	if math.Abs(got.Ratio-2.5) > 0.001 {
		t.Fatalf("ratio after update = %f, want 2.5", got.Ratio)
	}
}

func TestDeleteShotIsHard(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)
	shot := seedShot(t, s, b.ID, 0, nil)

	if err := s.DeleteShot(shot.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetShot(shot.ID); err == nil {
		t.Fatal("deleted shot should be gone")
	}
}

// ============================================================
// Shot listing and filters
// ============================================================

func TestListShotsDenormalizedNames(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "Square Mile", "Red Brick", 7)
	g, _ := s.CreateGrinder("Niche Zero", "", "")
	p, _ := s.CreateProfile("Classic 9 bar", "", "")

	_, err := s.CreateShot(Shot{
		Date: time.Now().UTC(), BeanID: b.ID, GrinderID: &g.ID, ProfileID: &p.ID,
		DoseG: 18, YieldG: 36,
	})
	if err != nil {
		t.Fatal(err)
	}
	seedShot(t, s, b.ID, 1, nil) // no grinder or profile

	shots, err := s.ListShots(ShotFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(shots) != 2 {
		t.Fatalf("expected 2 shots, got %d", len(shots))
	}
	if shots[0].BeanLabel != "Square Mile - Red Brick" {
		t.Fatalf("bean label = %q", shots[0].BeanLabel)
	}
	if shots[0].GrinderName != "Niche Zero" || shots[0].ProfileName != "Classic 9 bar" {
		t.Fatalf("names not joined: %+v", shots[0])
	}
	// LEFT JOIN: missing grinder and profile come back as empty strings.
	if shots[1].GrinderName != "" || shots[1].ProfileName != "" {
		t.Fatalf("missing joins should be empty: %+v", shots[1])
	}
}

func TestListShotsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)
	old := seedShot(t, s, b.ID, 5, nil)
	recent := seedShot(t, s, b.ID, 1, nil)

	shots, _ := s.ListShots(ShotFilter{})
	if shots[0].ID != recent.ID || shots[1].ID != old.ID {
		t.Fatalf("expected newest first: %+v", shots)
	}
}

func TestListShotsRatingFilterNeedsBothBounds(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)
	seedShot(t, s, b.ID, 0, ratingPtr(9))
	seedShot(t, s, b.ID, 1, ratingPtr(5))
	seedShot(t, s, b.ID, 2, nil)

	min, max := 8, 10
	shots, err := s.ListShots(ShotFilter{MinRating: &min, MaxRating: &max})
	if err != nil {
		t.Fatal(err)
	}
	if len(shots) != 1 || *shots[0].Rating != 9 {
		t.Fatalf("rating filter failed: %+v", shots)
	}

	// Only one bound set: the range does not apply.
	shots, _ = s.ListShots(ShotFilter{MinRating: &min})
	if len(shots) != 3 {
		t.Fatalf("half-open rating filter should be ignored, got %d shots", len(shots))
	}
}

func TestListShotsByBeanAndGrinder(t *testing.T) {
	s := newTestStore(t)
	b1 := seedBean(t, s, "SM", "Red Brick", 7)
	b2 := seedBean(t, s, "TW", "Karogoto", 3)
	g, _ := s.CreateGrinder("Niche Zero", "", "")

	seedShot(t, s, b1.ID, 0, nil)
	s.CreateShot(Shot{Date: time.Now().UTC(), BeanID: b2.ID, GrinderID: &g.ID, DoseG: 18, YieldG: 36})

	shots, _ := s.ListShots(ShotFilter{BeanID: &b1.ID})
	if len(shots) != 1 || shots[0].BeanID != b1.ID {
		t.Fatalf("bean filter failed: %+v", shots)
	}

	shots, _ = s.ListShots(ShotFilter{GrinderID: &g.ID})
	if len(shots) != 1 || shots[0].BeanID != b2.ID {
		t.Fatalf("grinder filter failed: %+v", shots)
	}
}

func TestListShotsDateRangeHalfOpen(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)
	seedShot(t, s, b.ID, 10, nil)
	inside := seedShot(t, s, b.ID, 3, nil)
	seedShot(t, s, b.ID, 0, nil)

	from := time.Now().UTC().AddDate(0, 0, -5)
	to := time.Now().UTC().AddDate(0, 0, -1)
	shots, err := s.ListShots(ShotFilter{From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(shots) != 1 || shots[0].ID != inside.ID {
		t.Fatalf("date range filter failed: %+v", shots)
	}
}

func TestListShotsLimit(t *testing.T) {
	s := newTestStore(t)
	b := seedBean(t, s, "SM", "Red Brick", 7)
	for i := 0; i < 5; i++ {
		seedShot(t, s, b.ID, i, nil)
	}
	shots, _ := s.ListShots(ShotFilter{Limit: 3})
	if len(shots) != 3 {
		t.Fatalf("limit not applied, got %d shots", len(shots))
	}
}

// ============================================================
// Goals
// ============================================================

func TestCreateAndListGoals(t *testing.T) {
	s := newTestStore(t)
	due := time.Now().UTC().AddDate(0, 1, 0)
	g, err := s.CreateGoal("Dial in", "hit an 8 average", "rating_average", 8, &due)
	if err != nil {
		t.Fatal(err)
	}
	if g.ID == 0 || g.Type != "rating_average" || g.TargetValue != 8 {
		t.Fatalf("unexpected goal: %+v", g)
	}
	if g.Completed {
		t.Fatal("new goal should not be completed")
	}
	if g.DueDate == nil {
		t.Fatal("due date should round-trip")
	}

	goals, err := s.ListGoals(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(goals))
	}
}

func TestCompleteGoalHiddenFromActive(t *testing.T) {
	s := newTestStore(t)
	g, _ := s.CreateGoal("Fifty shots", "", "shots_count", 50, nil)
	if err := s.CompleteGoal(g.ID); err != nil {
		t.Fatal(err)
	}

	active, _ := s.ListGoals(true)
	if len(active) != 0 {
		t.Fatal("completed goal should be hidden from active list")
	}
	all, _ := s.ListGoals(false)
	if len(all) != 1 || !all[0].Completed {
		t.Fatal("completed goal should appear in full list")
	}
	if all[0].CompletedAt == nil {
		t.Fatal("completion timestamp should be set")
	}
}

func TestDeleteGoal(t *testing.T) {
	s := newTestStore(t)
	g, _ := s.CreateGoal("Temp", "", "shots_count", 10, nil)
	if err := s.DeleteGoal(g.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetGoal(g.ID); err == nil {
		t.Fatal("deleted goal should be gone")
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettingsSeeded(t *testing.T) {
	s := newTestStore(t)

	dose, err := s.GetSetting("default_dose")
	if err != nil {
		t.Fatal(err)
	}
	if dose != "18.0" {
		t.Fatalf("default_dose = %q, want 18.0", dose)
	}

	ratio, _ := s.GetSetting("default_ratio")
	if ratio != "2.0" {
		t.Fatalf("default_ratio = %q, want 2.0", ratio)
	}

	autofill, _ := s.GetSetting("autofill_last")
	if autofill != "true" {
		t.Fatalf("autofill_last = %q, want true", autofill)
	}

	window, _ := s.GetSetting("trend_window_days")
	if window != "7" {
		t.Fatalf("trend_window_days = %q, want 7", window)
	}
}

func TestSetSettingUpsert(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetSetting("default_dose", "19.5"); err != nil {
		t.Fatal(err)
	}
	v, _ := s.GetSetting("default_dose")
	if v != "19.5" {
		t.Fatalf("setting not updated: %q", v)
	}

	// New key
	if err := s.SetSetting("custom_key", "abc"); err != nil {
		t.Fatal(err)
	}
	v, _ = s.GetSetting("custom_key")
	if v != "abc" {
		t.Fatalf("new setting not stored: %q", v)
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("does_not_exist")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) == 0 {
		t.Fatal("seeded settings should be present")
	}
	found := false
	for _, st := range settings {
		if st.Key == "default_yield" && st.Value == "36.0" {
			found = true
		}
	}
	if !found {
		t.Fatal("default_yield should be among the seeded settings")
	}
}

func TestTypedSettingAccessors(t *testing.T) {
	s := newTestStore(t)

	if got := s.DefaultDose(); got != 18.0 {
		t.Fatalf("DefaultDose = %v, want 18", got)
	}
	if got := s.DefaultRatio(); got != 2.0 {
		t.Fatalf("DefaultRatio = %v, want 2", got)
	}
	if got := s.DefaultYield(); got != 36.0 {
		t.Fatalf("DefaultYield = %v, want 36", got)
	}
	if !s.AutofillLast() {
		t.Fatal("AutofillLast should default to true")
	}
	if got := s.TrendWindowDays(); got != 7 {
		t.Fatalf("TrendWindowDays = %d, want 7", got)
	}
	if got := s.DefaultGrinderID(); got != 0 {
		t.Fatalf("DefaultGrinderID = %d, want 0 when unset", got)
	}

	s.SetSetting(SettingDefaultDose, "19.5")
	if got := s.DefaultDose(); got != 19.5 {
		t.Fatalf("DefaultDose = %v, want 19.5", got)
	}
	s.SetSetting(SettingAutofillLast, "false")
	if s.AutofillLast() {
		t.Fatal("AutofillLast should be false after update")
	}
	s.SetSetting(SettingTrendWindowDays, "30")
	if got := s.TrendWindowDays(); got != 30 {
		t.Fatalf("TrendWindowDays = %d, want 30", got)
	}
	s.SetSetting(SettingDefaultGrinderID, "42")
	if got := s.DefaultGrinderID(); got != 42 {
		t.Fatalf("DefaultGrinderID = %d, want 42", got)
	}
}

func TestTypedSettingAccessorFallbacks(t *testing.T) {
	s := newTestStore(t)

	// Malformed values fall back to the seeded defaults.
	s.SetSetting(SettingDefaultDose, "not a number")
	if got := s.DefaultDose(); got != 18.0 {
		t.Fatalf("DefaultDose = %v, want fallback 18", got)
	}
	s.SetSetting(SettingTrendWindowDays, "-3")
	if got := s.TrendWindowDays(); got != 7 {
		t.Fatalf("TrendWindowDays = %d, want fallback 7", got)
	}
	s.SetSetting(SettingDefaultProfileID, "garbage")
	if got := s.DefaultProfileID(); got != 0 {
		t.Fatalf("DefaultProfileID = %d, want 0 for malformed value", got)
	}
}
