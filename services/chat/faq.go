package chat

import "strings"

// Farm contact facts served verbatim by the static FAQ layer. These answers
// are pre-authored and never paraphrased by the model.
const (
	farmName    = "Kmetija Pod Goro"
	farmAddress = "Gorska cesta 7, 2315 Zeleno Polje"
	farmPhone   = "02 700 12 34"
	farmMobile  = "031 777 888"
	farmEmail   = "info@kmetijapodgoro.si"
	farmWeb     = "www.kmetijapodgoro.si"
)

type faqEntry struct {
	keywords []string
	answer   string
}

var faqEntries = []faqEntry{
	{
		keywords: []string{"naslov", "lokacij", "kje ste", "kje se nahaja", "kje imate", "kako pridem", "kako pridemo"},
		answer: "Najdete nas na naslovu " + farmAddress + ". " +
			"Do kmetije vodi označena pot z glavne ceste proti Zelenemu Polju.",
	},
	{
		keywords: []string{"kontakt", "telefon", "pokličem", "poklicati", "mail", "e-pošt", "email"},
		answer: "Dosegljivi smo na " + farmPhone + " ali " + farmMobile + ", " +
			"po e-pošti na " + farmEmail + ". Več informacij je na " + farmWeb + ".",
	},
	{
		keywords: []string{"cena", "cenik", "koliko stane", "koliko je", "stane"},
		answer: "Nočitev z zajtrkom stane 50 € na osebo na noč. Večerja je na voljo z doplačilom 25 € na osebo " +
			"(ob ponedeljkih in torkih večerje ne strežemo). Minimalno bivanje sta 2 nočitvi, " +
			"v juniju, juliju in avgustu 3 nočitve.",
	},
	{
		keywords: []string{"odpiralni", "delovni čas", "kdaj ste odprti", "kdaj imate odprto", "obratujete"},
		answer: "Sobe sprejemajo goste od srede do nedelje. Kosila strežemo ob sobotah in nedeljah " +
			"med 12:00 in 20:00, zadnji prihod na kosilo je ob 15:00. Od 30.12. do konca februarja " +
			"in med božičnimi prazniki (22.12.–26.12.) smo zaprti.",
	},
	{
		keywords: []string{"zajtrk", "vključen"},
		answer:   "Zajtrk je vključen v ceno nočitve.",
	},
}

var greetingWords = []string{"živjo", "zdravo", "dober dan", "dobro jutro", "dober večer", "pozdravljeni", "hej", "oj"}

var goodbyeWords = []string{"hvala", "nasvidenje", "adijo", "lep dan", "se vidimo", "lp"}

const greetingReply = "Pozdravljeni na kmetiji " + farmName + "! " +
	"Pomagam vam lahko z rezervacijo sobe ali mize za vikend kosilo, " +
	"ali odgovorim na vprašanja o ponudbi."

const goodbyeReply = "Hvala za obisk in lep pozdrav s kmetije " + farmName + "!"

// matchFAQ returns the pre-authored answer for a message, if any keyword
// matches. First entry wins.
func matchFAQ(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, e := range faqEntries {
		for _, kw := range e.keywords {
			if strings.Contains(lower, kw) {
				return e.answer, true
			}
		}
	}
	return "", false
}

func isGreeting(message string) bool {
	return containsAny(strings.ToLower(message), greetingWords)
}

func isGoodbye(message string) bool {
	return containsAny(strings.ToLower(message), goodbyeWords)
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
