package planning

import "errors"

// MaxBlocksPerDay caps the number of blocks a single day can hold.
const MaxBlocksPerDay = 2

// Editable field names accepted by UpdateBlock and UpdateSlot.
const (
	FieldLocation = "location"
	FieldPerson   = "person"
	FieldTime     = "time"
	FieldGroup    = "group"
)

var (
	// ErrStaleReference is returned when a block or slot index no longer exists.
	ErrStaleReference = errors.New("stale reference")
	ErrUnknownField   = errors.New("unknown field")
	ErrInvalidDay     = errors.New("invalid day key")
	ErrInvalidWeek    = errors.New("invalid week identifier")
)

// Slot is one meeting time inside a block. Time is free text and never parsed here.
type Slot struct {
	ID    int64  `json:"id"`
	Time  string `json:"time"`
	Group string `json:"group"`
}

// Block groups the slots held at one location by one person.
type Block struct {
	ID       int64  `json:"id"`
	Location string `json:"location"`
	Person   string `json:"person"`
	Slots    []Slot `json:"slots"`
}

// Day is present in Schedule.Days only while active; Active is kept for the wire format.
type Day struct {
	Active bool    `json:"active"`
	Blocks []Block `json:"blocks"`
}

// Schedule is the whole persisted planning state.
type Schedule struct {
	CurrentWeek string          `json:"currentWeek"`
	WeekLabel   string          `json:"weekLabel"`
	Days        map[string]*Day `json:"daysData"`
}

// NewSchedule returns an empty schedule for the given week.
func NewSchedule(weekID, label string) *Schedule {
	return &Schedule{
		CurrentWeek: weekID,
		WeekLabel:   label,
		Days:        make(map[string]*Day),
	}
}

// Clone returns a deep copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return nil
	}
	out := &Schedule{
		CurrentWeek: s.CurrentWeek,
		WeekLabel:   s.WeekLabel,
	}
	if s.Days != nil {
		out.Days = make(map[string]*Day, len(s.Days))
		for key, day := range s.Days {
			out.Days[key] = day.clone()
		}
	}
	return out
}

func (d *Day) clone() *Day {
	if d == nil {
		return nil
	}
	out := &Day{Active: d.Active}
	if d.Blocks != nil {
		out.Blocks = make([]Block, len(d.Blocks))
		for i, b := range d.Blocks {
			out.Blocks[i] = b
			if b.Slots != nil {
				out.Blocks[i].Slots = append([]Slot(nil), b.Slots...)
			}
		}
	}
	return out
}

// MaxID returns the largest block or slot identifier in the schedule.
func (s *Schedule) MaxID() int64 {
	var max int64
	for _, day := range s.Days {
		if day == nil {
			continue
		}
		for _, b := range day.Blocks {
			if b.ID > max {
				max = b.ID
			}
			for _, slot := range b.Slots {
				if slot.ID > max {
					max = slot.ID
				}
			}
		}
	}
	return max
}

// TallestBlock returns the largest slot count among the blocks of a day.
func (d *Day) TallestBlock() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, b := range d.Blocks {
		if len(b.Slots) > n {
			n = len(b.Slots)
		}
	}
	return n
}
