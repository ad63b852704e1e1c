package chat

import (
	"context"
	"fmt"
	"strings"

	"podgoro/models"
)

// CheckAvailabilityTool is the function the model must call before making any
// availability claim.
const CheckAvailabilityTool = "check_availability"

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	Name string
	Args map[string]any
}

// OracleRequest is one conversational turn handed to the model.
type OracleRequest struct {
	System   string
	Messages []models.Turn
	// ForceTool, when set, instructs the model that it must call the named
	// tool on this attempt.
	ForceTool string
}

// OracleReply is what the model produced: free text, tool calls, or both.
type OracleReply struct {
	Text      string
	ToolCalls []ToolCall
}

// Oracle is the language-model capability the router consults for reservation
// messages the rules could not resolve. The router never trusts it to police
// itself: the tool-call requirement is enforced on the reply.
type Oracle interface {
	Converse(ctx context.Context, req OracleRequest) (OracleReply, error)
}

// systemPrompt anchors the model in the farm's actual offer so it does not
// invent services. Availability questions must go through the tool.
const systemPrompt = `Si prijazen asistent turistične kmetije ` + farmName + `.
Pomagaš gostom pri rezervaciji sob in miz za vikend kosila ter odgovarjaš na vprašanja o ponudbi.

Pravila hiše:
- Sobe: prihod od srede do nedelje, minimalno 2 nočitvi (junij-avgust 3 nočitve), do 12 gostov.
- Cena: 50 € na osebo na noč z zajtrkom, večerja +25 € (ni je ob ponedeljkih in torkih).
- Kosila: sobota in nedelja 12:00-20:00, zadnji prihod ob 15:00, do 35 oseb v skupini.
- Zaprto: 22.12.-26.12. in od 30.12. do konca februarja.

Za VSAKO vprašanje o prostih terminih MORAŠ poklicati funkcijo check_availability.
Nikoli ne trdi, da je termin prost ali zaseden, brez klica te funkcije.
Odgovarjaj kratko in v slovenščini.`

// slotFromToolArgs converts model-provided tool arguments into a slot.
// Missing or mistyped required fields produce an error so the router can
// re-prompt.
func slotFromToolArgs(args map[string]any) (models.Slot, error) {
	slot := models.Slot{}

	typ, _ := args["type"].(string)
	typ = strings.ToLower(strings.TrimSpace(typ))
	switch typ {
	case models.ReservationRoom, models.ReservationTable:
		slot.Type = typ
	default:
		return slot, fmt.Errorf("tool args: missing or unknown type %q", typ)
	}

	date, _ := args["date"].(string)
	if strings.TrimSpace(date) == "" {
		return slot, fmt.Errorf("tool args: missing date")
	}
	slot.Date = strings.TrimSpace(date)

	if t, ok := args["time"].(string); ok {
		slot.Time = strings.TrimSpace(t)
	}
	slot.Nights = intArg(args, "nights")
	slot.People = intArg(args, "people")

	// Fill the blanks the model may omit with the most common request.
	if slot.People == 0 {
		slot.People = 2
	}
	if slot.Type == models.ReservationRoom && slot.Nights == 0 {
		slot.Nights = 2
	}
	if slot.Type == models.ReservationTable && slot.Time == "" {
		slot.Time = "12:00"
	}
	return slot, nil
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

// claimsAvailability reports whether free text asserts something about slot
// availability. Replies that do so without a tool call violate the routing
// contract.
func claimsAvailability(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range []string{"prost", "na voljo", "zaseden", "polno", "available", "rezervirano za vas"} {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
