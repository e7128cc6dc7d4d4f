package planning

import "time"

// ActiveDay is one active date of the displayed week with its record.
type ActiveDay struct {
	Date time.Time
	Key  string
	Day  *Day
}

// WeekView is the schedule as seen through its current week.
type WeekView struct {
	Schedule *Schedule
	Dates    []time.Time
	Active   []ActiveDay
	MaxSlots int
	Layout   LayoutConfig
}

// NewWeekView projects a schedule on its current week. Days of other weeks are ignored.
func NewWeekView(s *Schedule) WeekView {
	v := WeekView{
		Schedule: s,
		Dates:    DatesOfWeek(s.CurrentWeek),
	}
	for _, date := range v.Dates {
		key := DayKey(date)
		day, ok := s.Days[key]
		if !ok || day == nil {
			continue
		}
		v.Active = append(v.Active, ActiveDay{Date: date, Key: key, Day: day})
		if n := day.TallestBlock(); n > v.MaxSlots {
			v.MaxSlots = n
		}
	}
	v.Layout = SelectLayout(len(v.Active), v.MaxSlots)
	return v
}

// IsActive reports whether the day of date is present in the schedule.
func (v WeekView) IsActive(date time.Time) bool {
	_, ok := v.Schedule.Days[DayKey(date)]
	return ok
}
