package planning

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

// fakePersister records saves and can be told to fail.
type fakePersister struct {
	saved   []*Schedule
	stored  *Schedule
	cleared int
	saveErr error
}

func (f *fakePersister) Save(_ context.Context, s *Schedule) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s.Clone())
	f.stored = s.Clone()
	return nil
}

func (f *fakePersister) Load(_ context.Context, fallback *Schedule) *Schedule {
	if f.stored == nil {
		return fallback
	}
	return f.stored.Clone()
}

func (f *fakePersister) Clear(_ context.Context) error {
	f.cleared++
	f.stored = nil
	return nil
}

var fixedNow = func() time.Time { return time.Date(2026, 1, 27, 9, 0, 0, 0, time.UTC) }

func newTestStore(t *testing.T) (*Store, *fakePersister) {
	t.Helper()
	p := &fakePersister{}
	s := NewStore(p, Options{DefaultWeekLabel: "Semaine A", Now: fixedNow})
	return s, p
}

const monday = "2026-01-26"

func TestNewStoreDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	snap := s.Snapshot()
	if snap.CurrentWeek != "2026-W05" {
		t.Errorf("Expected current week 2026-W05, got %s", snap.CurrentWeek)
	}
	if snap.WeekLabel != "Semaine A" {
		t.Errorf("Expected default label, got %q", snap.WeekLabel)
	}
	if len(snap.Days) != 0 {
		t.Errorf("Expected no days, got %d", len(snap.Days))
	}
}

func TestBlockScenario(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)

	if err := s.ToggleDay(ctx, monday); err != nil {
		t.Fatalf("ToggleDay() failed: %v", err)
	}
	day := s.Snapshot().Days[monday]
	if day == nil || !day.Active {
		t.Fatal("Monday should be active")
	}
	if len(day.Blocks) != 1 || len(day.Blocks[0].Slots) != 1 {
		t.Fatalf("Expected 1 block with 1 slot, got %+v", day.Blocks)
	}

	if err := s.AddBlock(ctx, monday); err != nil {
		t.Fatalf("AddBlock() failed: %v", err)
	}
	second := s.Snapshot().Days[monday].Blocks[1]

	// Third block is silently ignored
	if err := s.AddBlock(ctx, monday); err != nil {
		t.Fatalf("AddBlock() on full day failed: %v", err)
	}
	if n := len(s.Snapshot().Days[monday].Blocks); n != 2 {
		t.Fatalf("Expected 2 blocks, got %d", n)
	}

	if err := s.RemoveBlock(ctx, monday, 0); err != nil {
		t.Fatalf("RemoveBlock() failed: %v", err)
	}
	blocks := s.Snapshot().Days[monday].Blocks
	if len(blocks) != 1 || blocks[0].ID != second.ID {
		t.Errorf("Expected former second block at index 0, got %+v", blocks)
	}

	// toggle, add, remove saved; the ignored third add did not
	if len(p.saved) != 3 {
		t.Errorf("Expected 3 saves, got %d", len(p.saved))
	}
}

func TestAddBlockNeverExceedsLimit(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	if err := s.ToggleDay(ctx, monday); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if err := s.AddBlock(ctx, monday); err != nil {
			t.Fatalf("AddBlock() failed: %v", err)
		}
	}
	if n := len(s.Snapshot().Days[monday].Blocks); n != MaxBlocksPerDay {
		t.Errorf("Expected %d blocks, got %d", MaxBlocksPerDay, n)
	}
}

func TestAddBlockAbsentDayIsNoop(t *testing.T) {
	s, p := newTestStore(t)
	if err := s.AddBlock(context.Background(), monday); err != nil {
		t.Errorf("AddBlock() on absent day returned %v", err)
	}
	if len(p.saved) != 0 {
		t.Error("No-op should not save")
	}
}

func TestToggleDayIsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	if err := s.ToggleDay(ctx, "2026-01-28"); err != nil {
		t.Fatal(err)
	}
	before := s.Snapshot()

	if err := s.ToggleDay(ctx, monday); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleDay(ctx, monday); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Errorf("Double toggle changed the schedule:\nbefore %+v\nafter  %+v", before, s.Snapshot())
	}
}

func TestToggleDayRejectsWeekend(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.ToggleDay(context.Background(), "2026-01-31")
	if !errors.Is(err, ErrInvalidDay) {
		t.Errorf("Expected ErrInvalidDay, got %v", err)
	}
}

func TestToggleDayUsesDefaultSlotTime(t *testing.T) {
	p := &fakePersister{}
	s := NewStore(p, Options{DefaultSlotTime: "13h00", Now: fixedNow})
	if err := s.ToggleDay(context.Background(), monday); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Days[monday].Blocks[0].Slots[0].Time; got != "13h00" {
		t.Errorf("Expected default slot time 13h00, got %q", got)
	}
}

func TestSlotOperations(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	if err := s.ToggleDay(ctx, monday); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSlot(ctx, monday, 0); err != nil {
		t.Fatalf("AddSlot() failed: %v", err)
	}
	if err := s.UpdateSlot(ctx, monday, 0, 1, FieldTime, "14h00"); err != nil {
		t.Fatalf("UpdateSlot(time) failed: %v", err)
	}
	if err := s.UpdateSlot(ctx, monday, 0, 1, FieldGroup, "BP MAC 1"); err != nil {
		t.Fatalf("UpdateSlot(group) failed: %v", err)
	}
	if err := s.UpdateBlock(ctx, monday, 0, FieldLocation, "Salle Conseil"); err != nil {
		t.Fatalf("UpdateBlock(location) failed: %v", err)
	}
	if err := s.UpdateBlock(ctx, monday, 0, FieldPerson, "JPB"); err != nil {
		t.Fatalf("UpdateBlock(person) failed: %v", err)
	}

	block := s.Snapshot().Days[monday].Blocks[0]
	if block.Location != "Salle Conseil" || block.Person != "JPB" {
		t.Errorf("Unexpected block fields: %+v", block)
	}
	if len(block.Slots) != 2 || block.Slots[1].Time != "14h00" || block.Slots[1].Group != "BP MAC 1" {
		t.Errorf("Unexpected slots: %+v", block.Slots)
	}

	if err := s.RemoveSlot(ctx, monday, 0, 0); err != nil {
		t.Fatalf("RemoveSlot() failed: %v", err)
	}
	slots := s.Snapshot().Days[monday].Blocks[0].Slots
	if len(slots) != 1 || slots[0].Group != "BP MAC 1" {
		t.Errorf("Expected the second slot to remain, got %+v", slots)
	}
}

func TestStaleReferences(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	if err := s.ToggleDay(ctx, monday); err != nil {
		t.Fatal(err)
	}
	saves := len(p.saved)

	tests := []struct {
		name string
		op   func() error
	}{
		{"add slot on absent day", func() error { return s.AddSlot(ctx, "2026-01-27", 0) }},
		{"add slot on missing block", func() error { return s.AddSlot(ctx, monday, 3) }},
		{"update missing block", func() error { return s.UpdateBlock(ctx, monday, 1, FieldPerson, "x") }},
		{"update missing slot", func() error { return s.UpdateSlot(ctx, monday, 0, 5, FieldTime, "x") }},
		{"remove missing slot", func() error { return s.RemoveSlot(ctx, monday, 0, -1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, ErrStaleReference) {
				t.Errorf("Expected ErrStaleReference, got %v", err)
			}
		})
	}

	if err := s.RemoveBlock(ctx, monday, 4); err != nil {
		t.Errorf("RemoveBlock() out of range should be a no-op, got %v", err)
	}
	if len(p.saved) != saves {
		t.Errorf("Failed operations should not save, got %d extra saves", len(p.saved)-saves)
	}
}

func TestUnknownField(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	if err := s.ToggleDay(ctx, monday); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateBlock(ctx, monday, 0, "time", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField for block, got %v", err)
	}
	if err := s.UpdateSlot(ctx, monday, 0, 0, "person", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField for slot, got %v", err)
	}
}

func TestSaveFailureKeepsSnapshot(t *testing.T) {
	s, p := newTestStore(t)
	p.saveErr = errors.New("disk full")

	err := s.ToggleDay(context.Background(), monday)
	if err == nil || !errors.Is(err, p.saveErr) {
		t.Fatalf("Expected wrapped save error, got %v", err)
	}
	if len(s.Snapshot().Days) != 0 {
		t.Error("Failed save must not change the in-memory schedule")
	}
}

func TestMutationsAreIsolatedFromSnapshots(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	if err := s.ToggleDay(ctx, monday); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if err := s.UpdateSlot(ctx, monday, 0, 0, FieldGroup, "changed"); err != nil {
		t.Fatal(err)
	}
	if snap.Days[monday].Blocks[0].Slots[0].Group != "" {
		t.Error("Earlier snapshot was mutated")
	}
}

func TestSetWeekKeepsOtherWeeks(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	if err := s.ToggleDay(ctx, monday); err != nil {
		t.Fatal(err)
	}
	if err := s.SetWeek(ctx, "2026-W06"); err != nil {
		t.Fatalf("SetWeek() failed: %v", err)
	}
	snap := s.Snapshot()
	if snap.CurrentWeek != "2026-W06" {
		t.Errorf("Expected 2026-W06, got %s", snap.CurrentWeek)
	}
	if _, ok := snap.Days[monday]; !ok {
		t.Error("Switching weeks must not purge days of other weeks")
	}
	if err := s.SetWeek(ctx, "2026-W99"); !errors.Is(err, ErrInvalidWeek) {
		t.Errorf("Expected ErrInvalidWeek, got %v", err)
	}
}

func TestSetWeekOf(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.SetWeekOf(context.Background(), time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().CurrentWeek; got != "2026-W10" {
		t.Errorf("Expected 2026-W10, got %s", got)
	}
}

func TestResetClearsSlot(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	if err := s.SetWeek(ctx, "2026-W20"); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleDay(ctx, monday); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if p.cleared != 1 {
		t.Errorf("Expected 1 clear, got %d", p.cleared)
	}
	snap := s.Snapshot()
	if len(snap.Days) != 0 || snap.CurrentWeek != "2026-W05" {
		t.Errorf("Expected default schedule after reset, got %+v", snap)
	}
}

func TestLoadSeedsIdentifiers(t *testing.T) {
	p := &fakePersister{stored: &Schedule{
		CurrentWeek: "2026-W05",
		WeekLabel:   "Semaine B",
		Days: map[string]*Day{
			monday: {Active: true, Blocks: []Block{{ID: 1737900000000, Slots: []Slot{{ID: 1737900000001}}}}},
		},
	}}
	s := NewStore(p, Options{Now: fixedNow})
	s.Load(context.Background())

	if err := s.AddSlot(context.Background(), monday, 0); err != nil {
		t.Fatal(err)
	}
	slots := s.Snapshot().Days[monday].Blocks[0].Slots
	if slots[1].ID <= 1737900000001 {
		t.Errorf("New identifier %d collides with loaded ones", slots[1].ID)
	}
	if s.Snapshot().WeekLabel != "Semaine B" {
		t.Error("Loaded label not restored")
	}
}

func TestWeekView(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	for _, key := range []string{monday, "2026-01-28"} {
		if err := s.ToggleDay(ctx, key); err != nil {
			t.Fatal(err)
		}
	}
	// A day of another week is stored but not displayed
	if err := s.ToggleDay(ctx, "2026-02-02"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if err := s.AddSlot(ctx, monday, 0); err != nil {
			t.Fatal(err)
		}
	}

	v := s.View()
	if len(v.Dates) != WorkDays {
		t.Errorf("Expected %d dates, got %d", WorkDays, len(v.Dates))
	}
	if len(v.Active) != 2 {
		t.Fatalf("Expected 2 active days, got %d", len(v.Active))
	}
	if v.Active[0].Key != monday || v.Active[1].Key != "2026-01-28" {
		t.Errorf("Active days out of order: %s, %s", v.Active[0].Key, v.Active[1].Key)
	}
	if v.MaxSlots != 5 {
		t.Errorf("Expected tallest block of 5 slots, got %d", v.MaxSlots)
	}
	if v.Layout.Density != DensityFew || v.Layout.Orientation != Portrait {
		t.Errorf("Unexpected layout %+v", v.Layout)
	}
	if !v.IsActive(v.Dates[0]) || v.IsActive(v.Dates[1]) {
		t.Error("IsActive does not match the schedule")
	}
}
