package planning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Persister mirrors the schedule to a durable slot.
// Load never fails: it returns fallback when the slot is absent or unreadable.
type Persister interface {
	Save(ctx context.Context, s *Schedule) error
	Load(ctx context.Context, fallback *Schedule) *Schedule
	Clear(ctx context.Context) error
}

// Options configures a Store.
type Options struct {
	// DefaultWeekLabel is the label of a fresh schedule.
	DefaultWeekLabel string
	// DefaultSlotTime pre-fills the first slot of a newly toggled day.
	DefaultSlotTime string
	Now             func() time.Time
	Logger          *zap.Logger
}

// Store owns the schedule snapshot. Every mutation works on a copy, saves it
// through the Persister and only then replaces the current snapshot.
type Store struct {
	mu        sync.RWMutex
	current   *Schedule
	persister Persister
	nextID    int64
	opts      Options
	logger    *zap.Logger
}

// NewStore creates a store holding the default schedule. Call Load to restore persisted state.
func NewStore(p Persister, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		persister: p,
		opts:      opts,
		logger:    logger,
	}
	s.current = s.defaultSchedule()
	s.nextID = 1
	return s
}

func (s *Store) defaultSchedule() *Schedule {
	return NewSchedule(WeekIdentifierOf(s.opts.Now()), s.opts.DefaultWeekLabel)
}

// Load replaces the in-memory snapshot with the persisted one.
func (s *Store) Load(ctx context.Context) {
	loaded := s.persister.Load(ctx, s.defaultSchedule())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = loaded
	s.nextID = loaded.MaxID() + 1
	s.logger.Info("schedule loaded",
		zap.String("week", loaded.CurrentWeek),
		zap.Int("days", len(loaded.Days)),
	)
}

// Snapshot returns a copy of the current schedule.
func (s *Store) Snapshot() *Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// View returns the current week as displayed and printed.
func (s *Store) View() WeekView {
	return NewWeekView(s.Snapshot())
}

func (s *Store) newID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) newBlock(slotTime string) Block {
	return Block{
		ID:    s.newID(),
		Slots: []Slot{{ID: s.newID(), Time: slotTime}},
	}
}

// apply runs fn on a copy of the snapshot. fn reports whether it changed anything;
// unchanged copies are discarded without a save.
func (s *Store) apply(ctx context.Context, op string, fn func(next *Schedule) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	changed, err := fn(next)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := s.persister.Save(ctx, next); err != nil {
		return fmt.Errorf("%s: save schedule: %w", op, err)
	}
	s.current = next
	s.logger.Debug("schedule updated", zap.String("op", op))
	return nil
}

func dayOf(sched *Schedule, key string) (*Day, error) {
	day, ok := sched.Days[key]
	if !ok || day == nil {
		return nil, fmt.Errorf("%w: day %s", ErrStaleReference, key)
	}
	return day, nil
}

func blockOf(sched *Schedule, key string, blockIndex int) (*Block, error) {
	day, err := dayOf(sched, key)
	if err != nil {
		return nil, err
	}
	if blockIndex < 0 || blockIndex >= len(day.Blocks) {
		return nil, fmt.Errorf("%w: block %d of %s", ErrStaleReference, blockIndex, key)
	}
	return &day.Blocks[blockIndex], nil
}

func slotOf(sched *Schedule, key string, blockIndex, slotIndex int) (*Slot, error) {
	block, err := blockOf(sched, key, blockIndex)
	if err != nil {
		return nil, err
	}
	if slotIndex < 0 || slotIndex >= len(block.Slots) {
		return nil, fmt.Errorf("%w: slot %d of block %d of %s", ErrStaleReference, slotIndex, blockIndex, key)
	}
	return &block.Slots[slotIndex], nil
}

// ToggleDay removes the day with all its blocks, or creates it with one default block.
func (s *Store) ToggleDay(ctx context.Context, key string) error {
	if _, err := ParseDayKey(key); err != nil {
		return err
	}
	return s.apply(ctx, "toggle day", func(next *Schedule) (bool, error) {
		if _, ok := next.Days[key]; ok {
			delete(next.Days, key)
			return true, nil
		}
		if next.Days == nil {
			next.Days = make(map[string]*Day)
		}
		next.Days[key] = &Day{
			Active: true,
			Blocks: []Block{s.newBlock(s.opts.DefaultSlotTime)},
		}
		return true, nil
	})
}

// AddBlock appends an empty block. It does nothing when the day is absent or already full.
func (s *Store) AddBlock(ctx context.Context, key string) error {
	return s.apply(ctx, "add block", func(next *Schedule) (bool, error) {
		day, ok := next.Days[key]
		if !ok || day == nil || len(day.Blocks) >= MaxBlocksPerDay {
			return false, nil
		}
		day.Blocks = append(day.Blocks, s.newBlock(""))
		return true, nil
	})
}

// RemoveBlock deletes the block at blockIndex. Out of range indices are ignored.
func (s *Store) RemoveBlock(ctx context.Context, key string, blockIndex int) error {
	return s.apply(ctx, "remove block", func(next *Schedule) (bool, error) {
		day, ok := next.Days[key]
		if !ok || day == nil || blockIndex < 0 || blockIndex >= len(day.Blocks) {
			return false, nil
		}
		day.Blocks = append(day.Blocks[:blockIndex], day.Blocks[blockIndex+1:]...)
		return true, nil
	})
}

// UpdateBlock sets the location or person of a block.
func (s *Store) UpdateBlock(ctx context.Context, key string, blockIndex int, field, value string) error {
	return s.apply(ctx, "update block", func(next *Schedule) (bool, error) {
		block, err := blockOf(next, key, blockIndex)
		if err != nil {
			return false, err
		}
		switch field {
		case FieldLocation:
			block.Location = value
		case FieldPerson:
			block.Person = value
		default:
			return false, fmt.Errorf("%w: block field %q", ErrUnknownField, field)
		}
		return true, nil
	})
}

// AddSlot appends an empty slot to a block.
func (s *Store) AddSlot(ctx context.Context, key string, blockIndex int) error {
	return s.apply(ctx, "add slot", func(next *Schedule) (bool, error) {
		block, err := blockOf(next, key, blockIndex)
		if err != nil {
			return false, err
		}
		block.Slots = append(block.Slots, Slot{ID: s.newID()})
		return true, nil
	})
}

// UpdateSlot sets the time or group of a slot.
func (s *Store) UpdateSlot(ctx context.Context, key string, blockIndex, slotIndex int, field, value string) error {
	return s.apply(ctx, "update slot", func(next *Schedule) (bool, error) {
		slot, err := slotOf(next, key, blockIndex, slotIndex)
		if err != nil {
			return false, err
		}
		switch field {
		case FieldTime:
			slot.Time = value
		case FieldGroup:
			slot.Group = value
		default:
			return false, fmt.Errorf("%w: slot field %q", ErrUnknownField, field)
		}
		return true, nil
	})
}

// RemoveSlot deletes one slot of a block.
func (s *Store) RemoveSlot(ctx context.Context, key string, blockIndex, slotIndex int) error {
	return s.apply(ctx, "remove slot", func(next *Schedule) (bool, error) {
		if _, err := slotOf(next, key, blockIndex, slotIndex); err != nil {
			return false, err
		}
		block := &next.Days[key].Blocks[blockIndex]
		block.Slots = append(block.Slots[:slotIndex], block.Slots[slotIndex+1:]...)
		return true, nil
	})
}

// SetWeek switches the displayed week. Days of other weeks stay in the schedule.
func (s *Store) SetWeek(ctx context.Context, weekID string) error {
	if _, _, err := ParseWeekID(weekID); err != nil {
		return err
	}
	return s.apply(ctx, "set week", func(next *Schedule) (bool, error) {
		if next.CurrentWeek == weekID {
			return false, nil
		}
		next.CurrentWeek = weekID
		return true, nil
	})
}

// SetWeekOf switches to the ISO week containing date.
func (s *Store) SetWeekOf(ctx context.Context, date time.Time) error {
	return s.SetWeek(ctx, WeekIdentifierOf(date))
}

// SetWeekLabel replaces the free-text week label.
func (s *Store) SetWeekLabel(ctx context.Context, label string) error {
	return s.apply(ctx, "set week label", func(next *Schedule) (bool, error) {
		if next.WeekLabel == label {
			return false, nil
		}
		next.WeekLabel = label
		return true, nil
	})
}

// Reset deletes the persisted slot and returns to the default schedule for the current week.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("reset: clear slot: %w", err)
	}
	s.current = s.defaultSchedule()
	s.nextID = 1
	s.logger.Info("schedule reset", zap.String("week", s.current.CurrentWeek))
	return nil
}
