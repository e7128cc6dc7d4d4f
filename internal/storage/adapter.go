package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/klabast/wb-services/planning-bilans/internal/planning"
)

// storedSchedule mirrors planning.Schedule with optional fields so that
// missing keys can be told apart from empty values.
type storedSchedule struct {
	CurrentWeek *string                  `json:"currentWeek"`
	WeekLabel   *string                  `json:"weekLabel"`
	DaysData    map[string]*planning.Day `json:"daysData"`
}

var _ planning.Persister = (*Adapter)(nil)

// Adapter persists a planning.Schedule as one JSON snapshot in a Slot.
type Adapter struct {
	slot   Slot
	logger *zap.Logger
}

func NewAdapter(slot Slot, logger *zap.Logger) *Adapter {
	return &Adapter{slot: slot, logger: logger}
}

// Save overwrites the slot with the full schedule.
func (a *Adapter) Save(ctx context.Context, s *planning.Schedule) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	return a.slot.Set(ctx, data)
}

// Load reads the slot. Absent or unreadable data yields fallback; missing fields
// take the fallback values and unknown fields are ignored.
func (a *Adapter) Load(ctx context.Context, fallback *planning.Schedule) *planning.Schedule {
	data, err := a.slot.Get(ctx)
	if errors.Is(err, ErrSlotEmpty) {
		return fallback
	}
	if err != nil {
		a.logger.Warn("failed to read schedule, starting empty", zap.Error(err))
		return fallback
	}

	var stored storedSchedule
	if err := json.Unmarshal(data, &stored); err != nil {
		a.logger.Warn("failed to decode schedule, starting empty", zap.Error(err))
		return fallback
	}

	out := planning.NewSchedule(fallback.CurrentWeek, fallback.WeekLabel)
	if stored.CurrentWeek != nil {
		out.CurrentWeek = *stored.CurrentWeek
	}
	if stored.WeekLabel != nil {
		out.WeekLabel = *stored.WeekLabel
	}
	for key, day := range stored.DaysData {
		if day == nil {
			continue
		}
		out.Days[key] = day
	}
	return out
}

// Clear deletes the slot.
func (a *Adapter) Clear(ctx context.Context) error {
	return a.slot.Delete(ctx)
}
