package planning

// Orientation is the printed page orientation.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Density is the print density tier, chosen from the number of active days.
type Density string

const (
	DensitySingle Density = "single"
	DensityFew    Density = "few"
	DensityMany   Density = "many"
)

// LandscapeSlotLimit is the slot count from which a single day no longer fits a landscape page.
const LandscapeSlotLimit = 7

// LayoutConfig drives the print page. Lengths are millimetres, scales are rem.
type LayoutConfig struct {
	Orientation      Orientation `json:"orientation"`
	Density          Density     `json:"density"`
	HeaderMargin     float64     `json:"headerMarginMm"`
	TitleScale       float64     `json:"titleScaleRem"`
	LogoHeight       float64     `json:"logoHeightMm"`
	DayGap           float64     `json:"dayGapMm"`
	DayHeaderPadding float64     `json:"dayHeaderPaddingMm"`
	DayTitleScale    float64     `json:"dayTitleScaleRem"`
	SlotRowHeight    float64     `json:"slotRowHeightMm"`
	SlotTextScale    float64     `json:"slotTextScaleRem"`
	TimeColumnWidth  float64     `json:"timeColumnWidthMm"`
}

// densityTable is the only place tier values are defined.
var densityTable = map[Density]LayoutConfig{
	DensitySingle: {
		Density:          DensitySingle,
		HeaderMargin:     10,
		TitleScale:       1.875,
		LogoHeight:       12,
		DayGap:           10,
		DayHeaderPadding: 5,
		DayTitleScale:    1.5,
		SlotRowHeight:    14,
		SlotTextScale:    1.5,
		TimeColumnWidth:  30,
	},
	DensityFew: {
		Density:          DensityFew,
		HeaderMargin:     6,
		TitleScale:       1.5,
		LogoHeight:       10,
		DayGap:           6,
		DayHeaderPadding: 3.5,
		DayTitleScale:    1.25,
		SlotRowHeight:    10,
		SlotTextScale:    1.125,
		TimeColumnWidth:  26,
	},
	DensityMany: {
		Density:          DensityMany,
		HeaderMargin:     3,
		TitleScale:       1.125,
		LogoHeight:       7,
		DayGap:           3,
		DayHeaderPadding: 2,
		DayTitleScale:    1,
		SlotRowHeight:    7,
		SlotTextScale:    0.875,
		TimeColumnWidth:  22,
	},
}

// DensityFor picks the tier for a number of active days.
func DensityFor(activeDays int) Density {
	switch {
	case activeDays <= 1:
		return DensitySingle
	case activeDays <= 3:
		return DensityFew
	default:
		return DensityMany
	}
}

// SelectLayout maps the active day count and the tallest day to a print layout.
// Zero active days yields the single tier, used for the empty placeholder.
func SelectLayout(activeDays, maxSlots int) LayoutConfig {
	cfg := densityTable[DensityFor(activeDays)]
	cfg.Orientation = Portrait
	if activeDays == 1 && maxSlots < LandscapeSlotLimit {
		cfg.Orientation = Landscape
	}
	return cfg
}
