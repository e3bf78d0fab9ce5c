// ============================================================================
// UPDATE DISPATCHER
// ============================================================================
// Entry point for every inbound Telegram update. Classifies the update
// (button tap / location / command / free-text reply), routes to the right
// handler, and owns the single error boundary: business conditions and
// faults alike become a chat message here, never a failed webhook.
// ============================================================================

package bot

import (
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourorg/sgbusbot/internal/debug"
	"github.com/yourorg/sgbusbot/internal/models"
)

// LiveData is the live half of the transit data gateway.
type LiveData interface {
	ServicesAtStop(code string) ([]models.ServiceArrival, error)
	Arrivals(code, serviceNo string) ([]models.ArrivalEstimate, error)
}

// StaticData is the static half of the transit data gateway.
type StaticData interface {
	StopByCode(code string) (models.StopRecord, error)
	SearchStopsByDescription(query string) ([]models.StopRecord, error)
	Directions(serviceNo string) ([]models.ServiceDirection, error)
	Route(serviceNo string, direction int) ([]string, error)
	AllStops() []models.StopRecord
}

// nearbyStopCount is how many stops a shared location resolves to.
const nearbyStopCount = 5

// Bot is the conversation engine.
type Bot struct {
	gateway Gateway
	live    LiveData
	data    StaticData
	states  *StateStore

	// now is swapped out by tests
	now func() time.Time
}

// New creates the conversation engine over its three collaborators.
func New(gateway Gateway, live LiveData, data StaticData) *Bot {
	return &Bot{
		gateway: gateway,
		live:    live,
		data:    data,
		states:  NewStateStore(),
		now:     time.Now,
	}
}

// HandleUpdate processes one inbound update. A button tap and a message can
// co-occur in a single update; each gets its own error boundary so one
// failing branch never aborts the other. Never returns an error: the webhook
// must always answer 200 to Telegram.
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		cq := update.CallbackQuery
		chatID := callbackChatID(cq)
		if err := b.handleCallback(cq); err != nil {
			b.reportError(chatID, "callback "+cq.Data, err)
		}
	}

	if update.Message != nil {
		msg := update.Message
		chatID := msg.Chat.ID
		if err := b.handleMessage(chatID, msg); err != nil {
			b.reportError(chatID, "message "+msg.Text, err)
		}
	}
}

func (b *Bot) handleMessage(chatID int64, msg *tgbotapi.Message) error {
	switch {
	case msg.Location != nil:
		// A shared location supersedes any pending prompt
		b.states.Clear(chatID)
		return b.handleLocation(chatID, msg.Location.Latitude, msg.Location.Longitude)

	case msg.Text != "":
		return b.handleText(chatID, msg.Text)

	default:
		return models.ErrTextOnly
	}
}

func (b *Bot) handleText(chatID int64, text string) error {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return models.ErrTextOnly
	}

	if strings.HasPrefix(normalized, "/") {
		// An explicit command always takes priority over a pending state
		b.states.Clear(chatID)

		fields := strings.Fields(normalized)
		word := strings.TrimPrefix(fields[0], "/")
		// Commands in groups arrive as /busstop@BotName
		if at := strings.Index(word, "@"); at >= 0 {
			word = word[:at]
		}
		return b.handleCommand(chatID, word, fields[1:])
	}

	// Free text: only meaningful as the answer to a pending prompt.
	// Consume is atomic, so the state is cleared regardless of the outcome.
	switch b.states.Consume(chatID) {
	case StateAwaitingStopQuery:
		return b.busStop(chatID, strings.Fields(normalized))
	case StateAwaitingServiceQuery:
		return b.bus(chatID, strings.Fields(normalized))
	default:
		log.Printf("💬 chat %d: ignoring free text with no pending prompt", chatID)
		return nil
	}
}

// reportError converts any condition into a user-visible message and logs it
// with enough context for diagnosis.
func (b *Bot) reportError(chatID int64, context string, err error) {
	log.Printf("❌ chat %d: %s: %v", chatID, context, err)
	debug.LogError("dispatch failed", map[string]interface{}{
		"chat_id": chatID,
		"context": context,
		"error":   err.Error(),
	})

	if chatID == 0 {
		return
	}
	if sendErr := b.gateway.SendText(chatID, err.Error()); sendErr != nil {
		log.Printf("❌ chat %d: failed to report error: %v", chatID, sendErr)
	}
}

func callbackChatID(cq *tgbotapi.CallbackQuery) int64 {
	if cq.Message != nil && cq.Message.Chat != nil {
		return cq.Message.Chat.ID
	}
	return 0
}
