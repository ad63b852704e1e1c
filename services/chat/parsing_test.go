package chat

import (
	"testing"
	"time"
)

// Extraction tests pin the clock so relative dates are deterministic.
var refNow = time.Date(2026, time.October, 1, 10, 0, 0, 0, time.Local) // a Thursday

func TestExtractDateForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"prišli bi 23.10.2026", "23.10.2026"},
		{"prišli bi 23. 10. 2026", "23.10.2026"},
		{"23.10. bi prišli", "23.10.2026"},
		{"jutri", "02.10.2026"},
		{"pojutrišnjem", "03.10.2026"},
		{"danes zvečer", "01.10.2026"},
		{"v petek", "02.10.2026"},
		{"naslednji petek", "09.10.2026"},
	}
	for _, tc := range cases {
		got, ok := ExtractDate(tc.in, refNow)
		if !ok {
			t.Errorf("ExtractDate(%q): no date found", tc.in)
			continue
		}
		if got != tc.want {
			t.Errorf("ExtractDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractDateShortFormRollsForward(t *testing.T) {
	// 15.3. already passed relative to October, so it means next year.
	got, ok := ExtractDate("pridemo 15.3.", refNow)
	if !ok || got != "15.03.2027" {
		t.Errorf("ExtractDate short past date = %q (%v), want 15.03.2027", got, ok)
	}
}

func TestExtractDateNothingThere(t *testing.T) {
	if got, ok := ExtractDate("koliko stane nočitev?", refNow); ok {
		t.Errorf("expected no date, got %q", got)
	}
}

func TestExtractDateRange(t *testing.T) {
	cases := []struct {
		in         string
		wantDate   string
		wantNights int
	}{
		{"od 23.10. do 26.10.", "23.10.2026", 3},
		// Rolls into next spring and spans the clock change; every calendar
		// night still counts.
		{"od 26.3. do 29.3.", "26.03.2027", 3},
	}
	for _, tc := range cases {
		date, nights, ok := ExtractDateRange(tc.in, refNow)
		if !ok {
			t.Fatalf("ExtractDateRange(%q): range not recognized", tc.in)
		}
		if date != tc.wantDate || nights != tc.wantNights {
			t.Errorf("ExtractDateRange(%q) = %q / %d nights, want %s / %d",
				tc.in, date, nights, tc.wantDate, tc.wantNights)
		}
	}
}

func TestExtractTimeForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"prišli bi ob 12:30", "12:30"},
		{"ob 13h", "13:00"},
		{"ob 14", "14:00"},
	}
	for _, tc := range cases {
		got, ok := ExtractTime(tc.in)
		if !ok || got != tc.want {
			t.Errorf("ExtractTime(%q) = %q (%v), want %q", tc.in, got, ok, tc.want)
		}
	}
}

func TestExtractNights(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"3 noči", 3},
		{"za dve nočitvi", 2},
		{"4", 4},
	}
	for _, tc := range cases {
		got, ok := ExtractNights(tc.in)
		if !ok || got != tc.want {
			t.Errorf("ExtractNights(%q) = %d (%v), want %d", tc.in, got, ok, tc.want)
		}
	}
}

func TestExtractPeople(t *testing.T) {
	cases := []struct {
		in     string
		people int
		kids   int
	}{
		{"2+2", 4, 2},
		{"2 odrasla in 2 otroka", 4, 2},
		{"4 osebe", 4, 0},
		{"2 otroka", 2, 2},
		{"6", 6, 0},
	}
	for _, tc := range cases {
		people, kids, ok := ExtractPeople(tc.in)
		if !ok || people != tc.people || kids != tc.kids {
			t.Errorf("ExtractPeople(%q) = %d/%d (%v), want %d/%d",
				tc.in, people, kids, ok, tc.people, tc.kids)
		}
	}
}

func TestMatchFAQ(t *testing.T) {
	answer, ok := matchFAQ("Kje imate ordinacijo?")
	if !ok {
		t.Fatal("location question should match the static FAQ")
	}
	if answer == "" || !containsAny(answer, []string{farmAddress}) {
		t.Errorf("location answer must carry the address, got %q", answer)
	}

	if _, ok := matchFAQ("bi lahko pripeljali psa?"); ok {
		t.Error("unrelated question must not match the static FAQ")
	}
}
