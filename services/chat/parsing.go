package chat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"podgoro/services/availability"
)

// Rule-based entity extraction over guest messages. Everything here is
// deterministic; the router tries these before involving the model.

var (
	fullDateRe  = regexp.MustCompile(`(\d{1,2})\.\s?(\d{1,2})\.\s?(\d{4})`)
	shortDateRe = regexp.MustCompile(`(\d{1,2})\.\s?(\d{1,2})\.?(?:\s|$|,)`)
	dateRangeRe = regexp.MustCompile(`(?:od\s+)?(\d{1,2})\.\s?(\d{1,2})\.?\s?(\d{4})?\s*(?:do|-|–)\s*(\d{1,2})\.\s?(\d{1,2})\.?\s?(\d{4})?`)
	clockRe     = regexp.MustCompile(`\b(\d{1,2})[:.](\d{2})\b`)
	hourOnlyRe  = regexp.MustCompile(`\bob\s+(\d{1,2})h?\b`)
	nightsRe    = regexp.MustCompile(`(\d+)\s*no[čc]`)
	peopleRe    = regexp.MustCompile(`(\d+)\s*(?:oseb|osebe|oseba|ljudi|gost)`)
	adultsRe    = regexp.MustCompile(`(\d+)\s*odrasl`)
	kidsRe      = regexp.MustCompile(`(\d+)\s*otro`)
	plusSplitRe = regexp.MustCompile(`\b(\d+)\s*\+\s*(\d+)\b`)
)

var weekdayNames = map[string]time.Weekday{
	"ponedeljek": time.Monday,
	"torek":      time.Tuesday,
	"sredo":      time.Wednesday,
	"sreda":      time.Wednesday,
	"četrtek":    time.Thursday,
	"petek":      time.Friday,
	"soboto":     time.Saturday,
	"sobota":     time.Saturday,
	"nedeljo":    time.Sunday,
	"nedelja":    time.Sunday,
}

var nightWords = map[string]int{
	"eno": 1, "ena": 1, "dve": 2, "dva": 2, "tri": 3, "štiri": 4,
	"pet": 5, "šest": 6, "sedem": 7, "osem": 8, "devet": 9, "deset": 10,
}

// ExtractDate pulls an arrival date out of a message, returned in
// "DD.MM.YYYY" form. Short dates without a year roll over to next year when
// the day has already passed.
func ExtractDate(text string, now time.Time) (string, bool) {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "pojutri"):
		return now.AddDate(0, 0, 2).Format(availability.DateLayout), true
	case strings.Contains(lower, "jutri"):
		return now.AddDate(0, 0, 1).Format(availability.DateLayout), true
	case strings.Contains(lower, "danes"):
		return now.Format(availability.DateLayout), true
	}

	if m := fullDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return formatIfValid(day, month, year)
	}

	if m := shortDateRe.FindStringSubmatch(text + " "); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := now.Year()
		if s, ok := formatIfValid(day, month, year); ok {
			d, _ := availability.ParseDate(s)
			if d.Before(midnight(now)) {
				return formatIfValid(day, month, year+1)
			}
			return s, true
		}
		return "", false
	}

	for name, wd := range weekdayNames {
		if !strings.Contains(lower, name) {
			continue
		}
		d := nextWeekday(now, wd)
		// "naslednji petek" means the one after the upcoming one when the
		// upcoming one is within this week.
		if strings.Contains(lower, "naslednj") && d.Sub(midnight(now)) < 7*24*time.Hour {
			d = d.AddDate(0, 0, 7)
		}
		return d.Format(availability.DateLayout), true
	}

	return "", false
}

// ExtractDateRange pulls "23.1. do 26.1." style ranges and returns the
// arrival date plus the implied number of nights.
func ExtractDateRange(text string, now time.Time) (date string, nights int, ok bool) {
	m := dateRangeRe.FindStringSubmatch(text)
	if m == nil {
		return "", 0, false
	}
	fromDay, _ := strconv.Atoi(m[1])
	fromMonth, _ := strconv.Atoi(m[2])
	toDay, _ := strconv.Atoi(m[4])
	toMonth, _ := strconv.Atoi(m[5])

	fromYear := now.Year()
	if m[3] != "" {
		fromYear, _ = strconv.Atoi(m[3])
	}
	toYear := fromYear
	if m[6] != "" {
		toYear, _ = strconv.Atoi(m[6])
	}
	if toMonth < fromMonth || (toMonth == fromMonth && toDay < fromDay) {
		if m[6] == "" {
			toYear++
		}
	}

	from, okFrom := formatIfValid(fromDay, fromMonth, fromYear)
	to, okTo := formatIfValid(toDay, toMonth, toYear)
	if !okFrom || !okTo {
		return "", 0, false
	}
	fromT, _ := availability.ParseDate(from)
	toT, _ := availability.ParseDate(to)
	if m[3] == "" && fromT.Before(midnight(now)) {
		fromT = fromT.AddDate(1, 0, 0)
		toT = toT.AddDate(1, 0, 0)
		from = fromT.Format(availability.DateLayout)
	}
	// Count calendar days, not 24h spans; a range across a clock change
	// still covers whole nights.
	n := 0
	for d := fromT; d.Before(toT); d = d.AddDate(0, 0, 1) {
		n++
	}
	if n < 1 {
		return "", 0, false
	}
	return from, n, true
}

// ExtractTime pulls an arrival clock time, returned as "HH:MM".
func ExtractTime(text string) (string, bool) {
	if m := clockRe.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h < 24 && min < 60 {
			return fmt.Sprintf("%02d:%02d", h, min), true
		}
	}
	if m := hourOnlyRe.FindStringSubmatch(strings.ToLower(text)); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h < 24 {
			return fmt.Sprintf("%02d:00", h), true
		}
	}
	return "", false
}

// ExtractNights pulls the stay length from digit or word forms.
func ExtractNights(text string) (int, bool) {
	lower := strings.ToLower(text)
	if m := nightsRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n > 0 {
			return n, true
		}
	}
	if strings.Contains(lower, "noč") || strings.Contains(lower, "noc") {
		for word, n := range nightWords {
			if strings.Contains(lower, word+" noč") || strings.Contains(lower, word+" noc") {
				return n, true
			}
		}
	}
	// A bare number is accepted when the message is only that number, which
	// happens when the flow just asked for the night count.
	if n, err := strconv.Atoi(strings.TrimSpace(lower)); err == nil && n > 0 && n < 31 {
		return n, true
	}
	return 0, false
}

// ExtractPeople pulls the party size. Forms like "2+2" and "2 odrasla in 2
// otroka" also report the number of children.
func ExtractPeople(text string) (people, kids int, ok bool) {
	lower := strings.ToLower(text)

	if m := plusSplitRe.FindStringSubmatch(lower); m != nil {
		adults, _ := strconv.Atoi(m[1])
		children, _ := strconv.Atoi(m[2])
		if adults > 0 {
			return adults + children, children, true
		}
	}

	adults, children := 0, 0
	if m := adultsRe.FindStringSubmatch(lower); m != nil {
		adults, _ = strconv.Atoi(m[1])
	}
	if m := kidsRe.FindStringSubmatch(lower); m != nil {
		children, _ = strconv.Atoi(m[1])
	}
	if adults > 0 {
		return adults + children, children, true
	}

	if m := peopleRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n > 0 {
			return n, children, true
		}
	}

	// Only children mentioned: the count doubles as the party size until a
	// later answer refines it.
	if children > 0 {
		return children, children, true
	}

	if n, err := strconv.Atoi(strings.TrimSpace(lower)); err == nil && n > 0 && n < 100 {
		return n, 0, true
	}
	return 0, 0, false
}

func formatIfValid(day, month, year int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if d.Day() != day || int(d.Month()) != month {
		return "", false
	}
	return d.Format(availability.DateLayout), true
}

func nextWeekday(now time.Time, wd time.Weekday) time.Time {
	d := midnight(now)
	for i := 0; i < 7; i++ {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() == wd {
			return d
		}
	}
	return d
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
