// Package chat routes guest messages: pre-authored answers first, then
// deterministic extraction, then the model with an enforced tool policy, and
// a knowledge-grounded fallback that declines instead of inventing.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"podgoro/models"
	"podgoro/services/availability"
	"podgoro/services/knowledge"
	"podgoro/services/reservation"
	"podgoro/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RouterService is the chat entry point the HTTP handler talks to.
type RouterService interface {
	Route(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
}

// maxTurns bounds the history kept per session.
const maxTurns = 20

// oracleAttempts bounds how often a reply violating the tool policy is
// re-prompted before the router gives up on the model for this turn.
const oracleAttempts = 2

// DefaultRouter is the production router.
type DefaultRouter struct {
	Sessions      SessionStore
	Oracle        Oracle
	Retriever     *knowledge.Retriever
	Checker       *availability.Checker
	Reservations  reservation.ReservationService
	OracleTimeout time.Duration

	locks *sessionLocks
	flow  reservationFlow
	now   func() time.Time
}

// NewDefaultRouter wires a router from its collaborators.
func NewDefaultRouter(
	sessions SessionStore,
	oracle Oracle,
	retriever *knowledge.Retriever,
	checker *availability.Checker,
	reservations reservation.ReservationService,
	oracleTimeout time.Duration,
) *DefaultRouter {
	return &DefaultRouter{
		Sessions:      sessions,
		Oracle:        oracle,
		Retriever:     retriever,
		Checker:       checker,
		Reservations:  reservations,
		OracleTimeout: oracleTimeout,
		locks:         newSessionLocks(),
		flow:          reservationFlow{Checker: checker, Reservations: reservations},
		now:           time.Now,
	}
}

// Route processes one guest message. Turns on the same session id are
// serialized; the second caller observes the state the first left behind.
func (r *DefaultRouter) Route(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return models.ChatResponse{
			SessionID: sessionID,
			Reply:     "Prosim, napišite sporočilo.",
			Kind:      models.KindFallback,
		}, nil
	}

	lock := r.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := r.Sessions.Get(ctx, sessionID)
	if err != nil {
		// A broken session store must not kill the conversation; start
		// clean for this turn.
		utils.GetLogger().Error("session load failed", zap.String("sessionId", sessionID), zap.Error(err))
		session = &models.ChatSession{SessionID: sessionID}
	}

	session.Turns = append(session.Turns, models.Turn{Role: "user", Text: msg, At: r.now()})

	reply, kind := r.route(ctx, session, msg)

	session.Turns = append(session.Turns, models.Turn{Role: "assistant", Text: reply, At: r.now()})
	if len(session.Turns) > maxTurns {
		session.Turns = session.Turns[len(session.Turns)-maxTurns:]
	}

	// A farewell with no open draft ends the conversation; drop the session
	// instead of letting it idle out in the store.
	if session.Draft == nil && reply == goodbyeReply {
		if err := r.Sessions.Clear(ctx, sessionID); err != nil {
			utils.GetLogger().Error("session clear failed", zap.String("sessionId", sessionID), zap.Error(err))
		}
		return models.ChatResponse{SessionID: sessionID, Reply: reply, Kind: kind}, nil
	}

	if err := r.Sessions.Set(ctx, session); err != nil {
		utils.GetLogger().Error("session save failed", zap.String("sessionId", sessionID), zap.Error(err))
	}

	return models.ChatResponse{SessionID: sessionID, Reply: reply, Kind: kind}, nil
}

// route picks the path for one message. Order matters: an active draft owns
// the turn, pre-authored answers beat everything else, rules beat the model,
// and the model is only consulted for reservation-shaped messages it can
// actually help with.
func (r *DefaultRouter) route(ctx context.Context, session *models.ChatSession, msg string) (string, string) {
	lower := strings.ToLower(msg)

	if session.Draft != nil {
		if isExit(msg) {
			session.Draft = nil
			return "V redu, rezervacijo sem prekinil. Lahko vam pomagam s čim drugim?", models.KindFlow
		}
		return r.flow.advance(ctx, session, msg, r.now()), models.KindFlow
	}

	if answer, ok := matchFAQ(msg); ok {
		return answer, models.KindFAQ
	}

	if reservationSignal(lower) {
		if resType, ok := detectReservationType(lower); ok {
			return r.flow.start(ctx, session, resType, msg, r.now()), models.KindFlow
		}
		// Reservation-shaped but underspecified: let the model interpret it,
		// under the tool policy.
		return r.oracleRoute(ctx, session)
	}

	if isGreeting(lower) {
		return greetingReply, models.KindFAQ
	}
	if isGoodbye(lower) {
		return goodbyeReply, models.KindFAQ
	}

	return r.knowledgeRoute(ctx, session, msg)
}

// Words that mark a message as being about rooms, tables or free slots.
var roomWords = []string{"sobo", "soba", "sobe", "prenočišč", "nočitev", "noč", "spanje", "apartma"}
var tableWords = []string{"mizo", "miza", "mize", "kosilo", "kosila"}
var signalWords = []string{"rezerv", "prost", "termin", "na voljo", "kapacitet", "zasedeno"}

func reservationSignal(lower string) bool {
	return containsAny(lower, signalWords) ||
		containsAny(lower, roomWords) ||
		containsAny(lower, tableWords)
}

// detectReservationType decides room vs table from the wording. Ambiguous or
// absent wording reports false.
func detectReservationType(lower string) (string, bool) {
	room := containsAny(lower, roomWords)
	table := containsAny(lower, tableWords)
	switch {
	case room && !table:
		return models.ReservationRoom, true
	case table && !room:
		return models.ReservationTable, true
	}
	return "", false
}

// oracleRoute runs the model under the tool policy: any availability claim
// must come from a check_availability call. Violations are re-prompted with
// forced tool use; timeouts degrade to a deterministic reply. Nothing on this
// path ever writes a reservation.
func (r *DefaultRouter) oracleRoute(ctx context.Context, session *models.ChatSession) (string, string) {
	logger := utils.GetLogger()
	octx, cancel := context.WithTimeout(ctx, r.OracleTimeout)
	defer cancel()

	req := OracleRequest{System: systemPrompt, Messages: session.Turns}
	for attempt := 0; attempt < oracleAttempts; attempt++ {
		reply, err := r.Oracle.Converse(octx, req)
		if err != nil {
			routingErr := NewRoutingUnavailableError(err.Error())
			logger.Warn("oracle unavailable, degrading to deterministic reply",
				zap.String("sessionId", session.SessionID), zap.Error(routingErr))
			return oracleDownReply, models.KindFallback
		}

		if tc := findToolCall(reply, CheckAvailabilityTool); tc != nil {
			slot, argErr := slotFromToolArgs(tc.Args)
			if argErr != nil {
				logger.Debug("oracle tool args unusable, forcing retry", zap.Error(argErr))
				req.ForceTool = CheckAvailabilityTool
				continue
			}
			return r.answerAvailability(ctx, session, slot)
		}

		if claimsAvailability(reply.Text) {
			// The contract: no availability claims without a tool call.
			logger.Warn("oracle claimed availability without tool call, forcing retry",
				zap.String("sessionId", session.SessionID))
			req.ForceTool = CheckAvailabilityTool
			continue
		}

		if strings.TrimSpace(reply.Text) != "" {
			return reply.Text, models.KindFlow
		}
		req.ForceTool = CheckAvailabilityTool
	}

	misuse := NewToolMisuseError("model would not call the availability tool")
	logger.Warn("giving up on oracle for this turn",
		zap.String("sessionId", session.SessionID), zap.Error(misuse))
	return toolMisuseReply, models.KindFallback
}

// answerAvailability turns a checker verdict into a guest reply. An available
// slot opens a pre-filled draft so a plain "da" continues into the flow.
func (r *DefaultRouter) answerAvailability(ctx context.Context, session *models.ChatSession, slot models.Slot) (string, string) {
	result, err := r.Checker.Check(ctx, slot)
	if err != nil {
		var re *availability.RuleError
		if errors.As(err, &re) {
			return re.Message, models.KindAvailability
		}
		utils.GetLogger().Error("availability check failed", zap.Error(err))
		return "Trenutno ne morem preveriti razpoložljivosti. Poskusite kasneje ali nas pokličite na " + farmPhone + ".",
			models.KindFallback
	}

	if !result.Available {
		reply := result.Message
		if len(result.Alternatives) > 0 {
			reply += " Prosti termini: " + strings.Join(result.Alternatives, ", ") + "."
		}
		return reply, models.KindAvailability
	}

	session.Draft = &models.ReservationDraft{
		Type:   slot.Type,
		Step:   stepOffer,
		Date:   slot.Date,
		Time:   slot.Time,
		Nights: slot.Nights,
		People: slot.People,
	}
	return result.Message + " Želite rezervirati? (da/ne)", models.KindAvailability
}

// knowledgeRoute answers from the corpus. With no trustworthy snippet the
// router declines; it never lets the model answer unanchored.
func (r *DefaultRouter) knowledgeRoute(ctx context.Context, session *models.ChatSession, msg string) (string, string) {
	results := r.Retriever.Retrieve(msg, 3)
	if len(results) == 0 {
		return noKnowledgeReply, models.KindFallback
	}

	var snippets strings.Builder
	for _, res := range results {
		snippets.WriteString("- ")
		snippets.WriteString(res.Doc.Content)
		snippets.WriteString("\n")
	}

	octx, cancel := context.WithTimeout(ctx, r.OracleTimeout)
	defer cancel()
	reply, err := r.Oracle.Converse(octx, OracleRequest{
		System: groundedPrompt + "\n\nIzvlečki:\n" + snippets.String(),
		Messages: []models.Turn{
			{Role: "user", Text: msg, At: r.now()},
		},
	})
	if err != nil || strings.TrimSpace(reply.Text) == "" {
		// Degrade to the best snippet verbatim.
		return results[0].Doc.Content, models.KindKnowledge
	}
	return reply.Text, models.KindKnowledge
}

const groundedPrompt = `Si asistent turistične kmetije ` + farmName + `.
Odgovori na vprašanje IZKLJUČNO na podlagi spodnjih izvlečkov s spletne strani.
Če izvlečki odgovora ne vsebujejo, reci, da podatka nimaš.
Odgovori kratko, v slovenščini.`

const oracleDownReply = "Trenutno imam težave z razumevanjem sporočila. " +
	"Lahko poskusite znova, napišete datum in število oseb (na primer \"soba, 23.10., 4 osebe\"), " +
	"ali nas pokličete na " + farmPhone + "."

const toolMisuseReply = "Da preverim razpoložljivost, mi prosim napišite vrsto rezervacije (soba ali miza), " +
	"datum in število oseb."

const noKnowledgeReply = "Žal o tem nimam zanesljivega podatka. " +
	"Pokličete nas lahko na " + farmPhone + " ali pišete na " + farmEmail + "."

func findToolCall(reply OracleReply, name string) *ToolCall {
	for i := range reply.ToolCalls {
		if reply.ToolCalls[i].Name == name {
			return &reply.ToolCalls[i]
		}
	}
	return nil
}
