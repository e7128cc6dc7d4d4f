package app

import (
	"github.com/klabast/wb-services/planning-bilans/internal/planning"
)

// ScheduleResponse is returned by GET /api/schedule and by every mutation.
type ScheduleResponse struct {
	Schedule    *planning.Schedule    `json:"schedule"`
	Dates       []string              `json:"dates"`
	ActiveDates []string              `json:"activeDates"`
	Holidays    map[string]string     `json:"holidays"`
	MaxSlots    int                   `json:"maxSlotsInAnyActiveDay"`
	Layout      planning.LayoutConfig `json:"layout"`
}

func newScheduleResponse(v planning.WeekView) ScheduleResponse {
	resp := ScheduleResponse{
		Schedule:    v.Schedule,
		Dates:       make([]string, 0, len(v.Dates)),
		ActiveDates: make([]string, 0, len(v.Active)),
		Holidays:    planning.HolidaysOfWeek(v.Schedule.CurrentWeek),
		MaxSlots:    v.MaxSlots,
		Layout:      v.Layout,
	}
	for _, d := range v.Dates {
		resp.Dates = append(resp.Dates, planning.DayKey(d))
	}
	for _, a := range v.Active {
		resp.ActiveDates = append(resp.ActiveDates, a.Key)
	}
	return resp
}

// ConfigResponse is returned by GET /api/config.
type ConfigResponse struct {
	Mode               string `json:"mode"`
	EditMode           bool   `json:"editMode"`
	AuthEnabled        bool   `json:"authEnabled"`
	Title              string `json:"title"`
	Organization       string `json:"organization"`
	LogoURL            string `json:"logoUrl"`
	MaxBlocksPerDay    int    `json:"maxBlocksPerDay"`
	LandscapeSlotLimit int    `json:"landscapeSlotLimit"`
	Today              string `json:"today"`
	CurrentRealWeek    string `json:"currentRealWeek"`
}

// WeekResponse is returned by GET /api/week.
type WeekResponse struct {
	Week     string            `json:"week"`
	Dates    []string          `json:"dates"`
	Holidays map[string]string `json:"holidays"`
}

type weekRequest struct {
	Week string `json:"week"`
	Date string `json:"date"`
}

type labelRequest struct {
	Label *string `json:"label"`
}

type fieldRequest struct {
	Field string  `json:"field"`
	Value *string `json:"value"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}
