package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"podgoro/models"
	"podgoro/services/availability"
	"podgoro/services/reservation"
)

// Reservation flow steps. Step names which question is currently open.
const (
	stepOffer   = "offer"
	stepDate    = "date"
	stepTime    = "time"
	stepNights  = "nights"
	stepPeople  = "people"
	stepKids    = "kids"
	stepAges    = "kids_ages"
	stepName    = "name"
	stepPhone   = "phone"
	stepEmail   = "email"
	stepDinner  = "dinner"
	stepNote    = "note"
	stepConfirm = "confirm"
)

var yesWords = []string{"da", "ja", "seveda", "potrdi", "prav", "ok", "lahko"}
var noWords = []string{"ne", "brez", "nič", "preskoči"}
var exitWords = []string{"prekliči", "prekini", "izhod", "ne želim", "pozabi", "stop"}

func isYes(msg string) bool {
	lower := strings.ToLower(strings.TrimSpace(msg))
	for _, w := range yesWords {
		if lower == w || strings.HasPrefix(lower, w+" ") || strings.HasPrefix(lower, w+",") {
			return true
		}
	}
	return false
}

func isNo(msg string) bool {
	lower := strings.ToLower(strings.TrimSpace(msg))
	for _, w := range noWords {
		if lower == w || strings.HasPrefix(lower, w+" ") || strings.HasPrefix(lower, w+",") {
			return true
		}
	}
	return false
}

func isExit(msg string) bool {
	return containsAny(strings.ToLower(msg), exitWords)
}

// reservationFlow walks a guest through the open questions of a draft, one
// turn per answer, and creates the reservation on final confirmation.
type reservationFlow struct {
	Checker      *availability.Checker
	Reservations reservation.ReservationService
}

// start opens a draft for the given type and pre-fills whatever the first
// message already contained.
func (f *reservationFlow) start(ctx context.Context, session *models.ChatSession, resType, msg string, now time.Time) string {
	draft := &models.ReservationDraft{Type: resType}
	session.Draft = draft

	if date, nights, ok := ExtractDateRange(msg, now); ok && resType == models.ReservationRoom {
		draft.Date = date
		draft.Nights = nights
	} else if date, ok := ExtractDate(msg, now); ok {
		draft.Date = date
	}
	if t, ok := ExtractTime(msg); ok && resType == models.ReservationTable {
		draft.Time = t
	}
	if resType == models.ReservationRoom && draft.Nights == 0 {
		if n, ok := ExtractNights(msg); ok {
			draft.Nights = n
		}
	}
	if people, kids, ok := ExtractPeople(msg); ok {
		draft.People = people
		draft.Kids = kids
	}

	return f.askNext(ctx, session, now)
}

// advance consumes one guest answer for the open step and asks the next
// question.
func (f *reservationFlow) advance(ctx context.Context, session *models.ChatSession, msg string, now time.Time) string {
	draft := session.Draft
	if draft == nil {
		return f.askNext(ctx, session, now)
	}

	switch draft.Step {
	case stepOffer:
		if isNo(msg) {
			session.Draft = nil
			return "V redu. Lahko vam pomagam s čim drugim?"
		}
		if !isYes(msg) {
			return "Želite rezervirati ta termin? Odgovorite z da ali ne."
		}
	case stepDate:
		if date, nights, ok := ExtractDateRange(msg, now); ok && draft.Type == models.ReservationRoom {
			draft.Date = date
			draft.Nights = nights
		} else if date, ok := ExtractDate(msg, now); ok {
			draft.Date = date
		} else {
			return "Prosim, napišite datum v obliki DD.MM.YYYY (na primer 23.10.2026)."
		}
	case stepTime:
		if t, ok := ExtractTime(msg); ok {
			draft.Time = t
		} else {
			return "Ob kateri uri pridete? Napišite uro v obliki HH:MM, na primer 12:30."
		}
	case stepNights:
		if n, ok := ExtractNights(msg); ok {
			draft.Nights = n
		} else {
			return "Koliko nočitev bi radi? Napišite število, na primer 3."
		}
	case stepPeople:
		if people, kids, ok := ExtractPeople(msg); ok {
			draft.People = people
			if kids > 0 {
				draft.Kids = kids
			}
		} else {
			return "Za koliko oseb naj rezerviram? Napišite na primer \"4 osebe\" ali \"2+2\"."
		}
	case stepKids:
		if isNo(msg) {
			draft.Kids = 0
			draft.KidsAges = "brez otrok"
		} else if _, kids, ok := ExtractPeople(msg); ok && kids > 0 {
			draft.Kids = kids
		} else if n, _, ok := ExtractPeople(msg); ok {
			draft.Kids = n
		} else {
			return "Ali so med gosti tudi otroci? Odgovorite z \"ne\" ali napišite koliko."
		}
	case stepAges:
		draft.KidsAges = strings.TrimSpace(msg)
	case stepName:
		if len(strings.Fields(msg)) < 2 {
			return "Prosim, napišite ime in priimek."
		}
		draft.Name = strings.TrimSpace(msg)
	case stepPhone:
		digits := 0
		for _, r := range msg {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits < 7 {
			return "Prosim, napišite telefonsko številko (vsaj 7 številk)."
		}
		draft.Phone = strings.TrimSpace(msg)
	case stepEmail:
		addr := strings.TrimSpace(msg)
		at := strings.Index(addr, "@")
		if at < 1 || !strings.Contains(addr[at:], ".") {
			return "Ta e-poštni naslov ne izgleda pravilno. Poskusite znova."
		}
		draft.Email = addr
	case stepDinner:
		if isYes(msg) {
			draft.Dinner = true
		} else if !isNo(msg) {
			return "Ali želite tudi večerjo (doplačilo 25 € na osebo)? Odgovorite z da ali ne."
		}
	case stepNote:
		if !isNo(msg) {
			draft.Note = strings.TrimSpace(msg)
		}
	case stepConfirm:
		return f.finish(ctx, session, msg)
	}

	return f.askNext(ctx, session, now)
}

// askNext finds the first unanswered question, runs the advisory availability
// check once the slot fields are complete, and either asks on or proposes the
// final summary.
func (f *reservationFlow) askNext(ctx context.Context, session *models.ChatSession, now time.Time) string {
	draft := session.Draft

	switch {
	case draft.Date == "":
		draft.Step = stepDate
		if draft.Type == models.ReservationRoom {
			return "Kateri dan bi prišli? Sobe sprejemajo goste od srede do nedelje."
		}
		return "Za kateri dan bi rezervirali mizo? Kosila strežemo ob sobotah in nedeljah."
	case draft.Type == models.ReservationTable && draft.Time == "":
		draft.Step = stepTime
		return "Ob kateri uri pridete? Prihod je možen med 12:00 in 15:00."
	case draft.Type == models.ReservationRoom && draft.Nights == 0:
		draft.Step = stepNights
		return "Koliko nočitev bi radi?"
	case draft.People == 0:
		draft.Step = stepPeople
		return "Za koliko oseb naj rezerviram?"
	}

	// Slot fields are complete; make sure the request can succeed before
	// collecting contact details.
	if reply, blocked := f.adviseSlot(ctx, draft); blocked {
		return reply
	}

	switch {
	case draft.Type == models.ReservationRoom && draft.Kids == 0 && draft.KidsAges == "":
		draft.Step = stepKids
		return "Ali so med gosti tudi otroci?"
	case draft.Type == models.ReservationRoom && draft.Kids > 0 && draft.KidsAges == "":
		draft.Step = stepAges
		return "Koliko so stari otroci?"
	case draft.Name == "":
		draft.Step = stepName
		return "Na katero ime naj se glasi rezervacija? Prosim ime in priimek."
	case draft.Phone == "":
		draft.Step = stepPhone
		return "Na kateri telefonski številki ste dosegljivi?"
	case draft.Email == "":
		draft.Step = stepEmail
		return "Na kateri e-poštni naslov vam pošljemo potrditev?"
	case draft.Type == models.ReservationRoom && draft.Step != stepDinner && draft.Step != stepNote && !draft.Dinner:
		draft.Step = stepDinner
		return "Ali želite tudi večerjo? Doplačilo je 25 € na osebo, ob ponedeljkih in torkih večerje ni."
	case draft.Step != stepNote && draft.Note == "":
		draft.Step = stepNote
		return "Imate še kakšno posebno željo ali opombo? Če ne, napišite \"ne\"."
	}

	draft.Step = stepConfirm
	return f.summary(draft) + "\nAli potrdite rezervacijo? (da/ne)"
}

// adviseSlot runs the advisory availability check over the draft's slot. The
// second return value is true when the guest has to pick something else.
func (f *reservationFlow) adviseSlot(ctx context.Context, draft *models.ReservationDraft) (string, bool) {
	slot := models.Slot{
		Type: draft.Type, Date: draft.Date, Time: draft.Time,
		Nights: draft.Nights, People: draft.People,
	}
	res, err := f.Checker.Check(ctx, slot)
	if err != nil {
		// Invalid slot: start over from the date.
		draft.Date = ""
		draft.Step = stepDate
		var re *availability.RuleError
		if errors.As(err, &re) {
			return re.Message + " Prosim, izberite drug termin.", true
		}
		return "Tega termina ne morem preveriti. Prosim, izberite drug datum.", true
	}
	if !res.Available {
		draft.Date = ""
		draft.Step = stepDate
		reply := res.Message
		if len(res.Alternatives) > 0 {
			reply += " Prosti termini: " + strings.Join(res.Alternatives, ", ") + "."
		}
		return reply + " Kateri datum vam ustreza?", true
	}
	return "", false
}

// finish handles the confirmation answer: create on yes, drop on no.
func (f *reservationFlow) finish(ctx context.Context, session *models.ChatSession, msg string) string {
	draft := session.Draft
	switch {
	case isYes(msg):
		res, err := f.Reservations.Create(ctx, draft, session.SessionID)
		if err != nil {
			if reservation.IsConflict(err) {
				// Someone took the slot between the advisory check and the
				// write. Keep the draft, ask for a new date.
				draft.Date = ""
				draft.Step = stepDate
				return "Žal je bil ta termin medtem zaseden. Kateri drug datum vam ustreza?"
			}
			if reservation.IsValidation(err) {
				draft.Step = stepConfirm
				return "Rezervacije ni bilo mogoče oddati: preverite podatke in poskusite znova."
			}
			return "Pri oddaji rezervacije je prišlo do napake. Poskusite znova ali nas pokličite na " + farmPhone + "."
		}
		session.Draft = nil
		return fmt.Sprintf(
			"Hvala, %s! Vaša rezervacija (%s) je zabeležena in čaka na potrditev. "+
				"Potrdilo boste prejeli na %s.", res.GuestName, res.ID, res.Email)
	case isNo(msg):
		session.Draft = nil
		return "V redu, rezervacija je preklicana. Lahko vam pomagam s čim drugim?"
	}
	return "Prosim, odgovorite z \"da\" za potrditev ali \"ne\" za preklic."
}

func (f *reservationFlow) summary(d *models.ReservationDraft) string {
	var b strings.Builder
	b.WriteString("Povzetek rezervacije:\n")
	if d.Type == models.ReservationRoom {
		fmt.Fprintf(&b, "- Soba, prihod %s, %d nočitev\n", d.Date, d.Nights)
	} else {
		fmt.Fprintf(&b, "- Miza, %s ob %s\n", d.Date, d.Time)
	}
	fmt.Fprintf(&b, "- Število oseb: %d", d.People)
	if d.Kids > 0 {
		fmt.Fprintf(&b, " (od tega %d otrok)", d.Kids)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Ime: %s, tel. %s, %s\n", d.Name, d.Phone, d.Email)
	if d.Dinner {
		b.WriteString("- Z večerjo\n")
	}
	if d.Note != "" {
		fmt.Fprintf(&b, "- Opomba: %s\n", d.Note)
	}
	return strings.TrimRight(b.String(), "\n")
}
