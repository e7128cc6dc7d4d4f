package planning

import "time"

// FrenchHolidays returns the public holidays of metropolitan France for year, keyed by day key.
func FrenchHolidays(year int) map[string]string {
	holidays := map[string]string{
		dayKeyOf(year, 1, 1):   "Jour de l'an",
		dayKeyOf(year, 5, 1):   "Fête du Travail",
		dayKeyOf(year, 5, 8):   "Victoire 1945",
		dayKeyOf(year, 7, 14):  "Fête nationale",
		dayKeyOf(year, 8, 15):  "Assomption",
		dayKeyOf(year, 11, 1):  "Toussaint",
		dayKeyOf(year, 11, 11): "Armistice 1918",
		dayKeyOf(year, 12, 25): "Noël",
	}

	easter := easterSunday(year)
	holidays[DayKey(easter.AddDate(0, 0, 1))] = "Lundi de Pâques"
	holidays[DayKey(easter.AddDate(0, 0, 39))] = "Ascension"
	holidays[DayKey(easter.AddDate(0, 0, 50))] = "Lundi de Pentecôte"

	return holidays
}

// HolidaysOfWeek returns the holidays falling on the working days of the week id.
func HolidaysOfWeek(id string) map[string]string {
	out := make(map[string]string)
	byYear := make(map[int]map[string]string)
	for _, date := range DatesOfWeek(id) {
		year := date.Year()
		if byYear[year] == nil {
			byYear[year] = FrenchHolidays(year)
		}
		key := DayKey(date)
		if name, ok := byYear[year][key]; ok {
			out[key] = name
		}
	}
	return out
}

// easterSunday uses the Meeus/Jones/Butcher algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

func dayKeyOf(year, month, day int) string {
	return DayKey(time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC))
}
