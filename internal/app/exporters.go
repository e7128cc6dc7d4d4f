package app

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/klabast/wb-services/planning-bilans/internal/planning"
)

// Export formats accepted by GET /api/export.
const (
	FormatICS  = "ics"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

const sheetName = "Planning"

var exportHeader = []string{"Jour", "Lieu", "Intervenant", "Heure", "Groupe"}

// slotTimePattern matches 13h00, 13:00, 9h30 and 13h.
var slotTimePattern = regexp.MustCompile(`^\s*(\d{1,2})\s*[hH:]\s*(\d{2})?\s*$`)

// exportRow is one slot of an active day. Blocks without slots yield a row with SlotID 0.
type exportRow struct {
	Date     time.Time
	Key      string
	Location string
	Person   string
	SlotID   int64
	Time     string
	Group    string
}

func (r exportRow) dayLabel() string {
	return frenchDayName(r.Date) + " " + r.Date.Format("02/01/2006")
}

func (r exportRow) record() []string {
	return []string{r.dayLabel(), r.Location, r.Person, r.Time, r.Group}
}

func exportRows(days []planning.ActiveDay) []exportRow {
	var rows []exportRow
	for _, a := range days {
		for _, b := range a.Day.Blocks {
			base := exportRow{Date: a.Date, Key: a.Key, Location: b.Location, Person: b.Person}
			if len(b.Slots) == 0 {
				rows = append(rows, base)
				continue
			}
			for _, sl := range b.Slots {
				row := base
				row.SlotID = sl.ID
				row.Time = sl.Time
				row.Group = sl.Group
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// parseSlotTime reads the free text slot time. ok is false when it is not a clock time.
func parseSlotTime(s string) (hour, minute int, ok bool) {
	m := slotTimePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func exportFilename(week, ext string) string {
	return fmt.Sprintf("planning-bilans_%s.%s", week, ext)
}

// HandleExport downloads the active days of the current week in ICS, XLSX, CSV or JSON format
func (s *Server) HandleExport(c *gin.Context) {
	v := s.store.View()
	week := v.Schedule.CurrentWeek

	switch c.Query("format") {
	case FormatICS:
		reminder, err := reminderParam(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cal, err := s.buildCalendar(v.Active, fmt.Sprintf("%s %s", s.opts.Print.Title, v.Schedule.WeekLabel), reminder)
		if err != nil {
			s.exportFailed(c, FormatICS, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+exportFilename(week, FormatICS))
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
	case FormatXLSX:
		buf, err := s.buildWorkbook(v)
		if err != nil {
			s.exportFailed(c, FormatXLSX, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+exportFilename(week, FormatXLSX))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	case FormatCSV:
		buf, err := buildCSV(exportRows(v.Active))
		if err != nil {
			s.exportFailed(c, FormatCSV, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+exportFilename(week, FormatCSV))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case FormatJSON:
		days := make(map[string]*planning.Day, len(v.Active))
		for _, a := range v.Active {
			days[a.Key] = a.Day
		}
		c.Header("Content-Disposition", "attachment; filename="+exportFilename(week, FormatJSON))
		c.JSON(http.StatusOK, gin.H{
			"currentWeek": week,
			"weekLabel":   v.Schedule.WeekLabel,
			"daysData":    days,
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidFormat})
	}
}

// HandleSubscribe serves every planned day from last year onwards as an inline ICS feed.
func (s *Server) HandleSubscribe(c *gin.Context) {
	snap := s.store.Snapshot()
	minYear := s.opts.Now().Year() - 1

	keys := make([]string, 0, len(snap.Days))
	for key := range snap.Days {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var days []planning.ActiveDay
	for _, key := range keys {
		date, err := planning.ParseDayKey(key)
		if err != nil || date.Year() < minYear || snap.Days[key] == nil {
			continue
		}
		days = append(days, planning.ActiveDay{Date: date, Key: key, Day: snap.Days[key]})
	}

	cal, err := s.buildCalendar(days, s.opts.Print.Title, 0)
	if err != nil {
		s.exportFailed(c, "subscribe", err)
		return
	}
	cal.SetXPublishedTTL("PT1H")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}

func (s *Server) exportFailed(c *gin.Context, format string, err error) {
	_ = c.Error(err)
	s.logger.Error("export failed", zap.String("format", format), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalServer})
}

// reminderParam reads ?reminder=<minutes before a timed slot>.
func reminderParam(c *gin.Context) (time.Duration, error) {
	q := c.Query("reminder")
	if q == "" {
		return 0, nil
	}
	minutes, err := strconv.Atoi(q)
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("reminder must be a non-negative number of minutes")
	}
	return time.Duration(minutes) * time.Minute, nil
}

// buildCalendar emits one VEVENT per slot. Slots with a clock time last one hour;
// the others are all-day events.
func (s *Server) buildCalendar(days []planning.ActiveDay, name string, reminder time.Duration) (*ics.Calendar, error) {
	loc, err := time.LoadLocation(ICSTimezone)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ICSTimezone, err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ICSProductID)
	cal.SetXWRCalName(name)
	cal.SetXWRTimezone(ICSTimezone)

	stamp := s.opts.Now()
	for _, row := range exportRows(days) {
		if row.SlotID == 0 {
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("%d@%s", row.SlotID, ICSUIDDomain))
		event.SetDtStampTime(stamp)
		event.SetSummary(fmt.Sprintf("%s - %s", orDots(row.Group), orDots(row.Person)))
		if row.Location != "" {
			event.SetLocation(row.Location)
		}
		event.SetDescription(fmt.Sprintf("Réunion bilan %s, %s", row.Group, row.dayLabel()))

		hour, minute, timed := parseSlotTime(row.Time)
		if !timed {
			event.SetAllDayStartAt(row.Date)
			event.SetAllDayEndAt(row.Date.AddDate(0, 0, 1))
			continue
		}
		start := time.Date(row.Date.Year(), row.Date.Month(), row.Date.Day(), hour, minute, 0, 0, loc)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(time.Hour))

		if reminder > 0 {
			alarm := event.AddAlarm()
			alarm.SetAction(ics.ActionDisplay)
			alarm.SetTrigger(fmt.Sprintf("-PT%dM", int(reminder.Minutes())))
			alarm.SetDescription("Rappel : " + orDots(row.Group))
		}
	}
	return cal, nil
}

func (s *Server) buildWorkbook(v planning.WeekView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	for _, col := range []struct {
		start, end string
		width      float64
	}{
		{"A", "A", 22},
		{"B", "C", 24},
		{"D", "D", 10},
		{"E", "E", 24},
	} {
		if err := f.SetColWidth(sheetName, col.start, col.end, col.width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2C3E50"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s - %s", s.opts.Print.Title, v.Schedule.WeekLabel)); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	if err := f.MergeCell(sheetName, "A1", "E1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", headerStyle); err != nil {
		return nil, fmt.Errorf("style title: %w", err)
	}

	if err := writeSheetRow(f, sheetName, 2, exportHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A2", "E2", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for r, row := range exportRows(v.Active) {
		if err := writeSheetRow(f, sheetName, r+3, row.record()); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

// writeSheetRow writes values into consecutive cells starting at column A of row.
func writeSheetRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func buildCSV(rows []exportRow) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row.record()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf, w.Error()
}
