package app

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/klabast/wb-services/planning-bilans/internal/planning"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var frenchWeekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// frenchDate formats t as "26 janvier 2026".
func frenchDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// frenchDayName returns the weekday in capitals, e.g. "LUNDI".
func frenchDayName(t time.Time) string {
	return strings.ToUpper(frenchWeekdays[t.Weekday()])
}

type printBlock struct {
	Location string
	Person   string
	Primary  bool
	Slots    []planning.Slot
}

type printDay struct {
	Key    string
	Name   string
	Blocks []printBlock
}

// printPage is the data of templates/print.html.tmpl.
type printPage struct {
	Title        string
	Organization string
	LogoURL      string
	Pill         string
	Layout       planning.LayoutConfig
	Days         []printDay
	GeneratedOn  string
}

func parsePrintTemplate() (*template.Template, error) {
	return template.New("print.html.tmpl").ParseFS(templateFiles, "templates/print.html.tmpl")
}

func orDots(s string) string {
	if s == "" {
		return "..."
	}
	return s
}

func (s *Server) newPrintPage(v planning.WeekView) printPage {
	page := printPage{
		Title:        s.opts.Print.Title,
		Organization: s.opts.Print.Organization,
		LogoURL:      s.opts.Print.LogoURL,
		Layout:       v.Layout,
		GeneratedOn:  s.opts.Now().Format("02/01/2006"),
	}

	first := "Date"
	if len(v.Active) > 0 {
		first = frenchDate(v.Active[0].Date)
	}
	page.Pill = first + " - " + v.Schedule.WeekLabel

	for _, a := range v.Active {
		day := printDay{Key: a.Key, Name: frenchDayName(a.Date)}
		for i, b := range a.Day.Blocks {
			day.Blocks = append(day.Blocks, printBlock{
				Location: orDots(b.Location),
				Person:   orDots(b.Person),
				Primary:  i == 0,
				Slots:    b.Slots,
			})
		}
		page.Days = append(page.Days, day)
	}
	return page
}
