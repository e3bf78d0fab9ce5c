package bot

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourorg/sgbusbot/internal/models"
)

// handleCallback routes one button tap. The tap is acknowledged whatever the
// branch outcome, so Telegram's loading spinner always clears; the branch
// error still surfaces as a chat message through the dispatcher boundary.
func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) error {
	err := b.dispatchCallback(callbackChatID(cq), cq.Data)

	if ackErr := b.gateway.AcknowledgeTap(cq.ID); ackErr != nil {
		log.Printf("❌ failed to acknowledge tap %s: %v", cq.ID, ackErr)
	}

	return err
}

func (b *Bot) dispatchCallback(chatID int64, token string) error {
	action, err := DecodeToken(token)
	if err != nil {
		return err
	}

	switch a := action.(type) {
	case StopServiceAction:
		return b.sendArrivals(chatID, a)
	case StopAction:
		return b.sendServicesForStop(chatID, a.StopCode)
	case RouteAction:
		return b.sendRoute(chatID, a)
	default:
		return fmt.Errorf("%w: %q", models.ErrInvalidCallbackData, token)
	}
}

// sendArrivals renders up to three upcoming arrivals for one service at one
// stop, with a Refresh button reusing the same token (map resend off).
func (b *Bot) sendArrivals(chatID int64, a StopServiceAction) error {
	if a.ResendMap {
		stop, err := b.data.StopByCode(a.StopCode)
		if err != nil {
			return err
		}
		if err := b.gateway.SendLocation(chatID, stop.Latitude, stop.Longitude); err != nil {
			return err
		}
	}

	arrivals, err := b.live.Arrivals(a.StopCode, a.ServiceNo)
	if err != nil {
		return err
	}

	now := b.now()
	var lines []string
	for _, arr := range arrivals {
		// No estimate for this slot
		if arr.EstimatedArrival == "" {
			continue
		}
		line := fmt.Sprintf("<b>%s</b> (%s)", FormatClockTime(arr.EstimatedArrival), FormatTimeUntil(arr.EstimatedArrival, now))
		if desc := LoadDescription(arr.Load); desc != "" {
			line += "\n" + desc
		}
		if desc := VehicleTypeDescription(arr.Type); desc != "" {
			line += ", " + desc
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return models.ErrNoMoreBuses
	}

	text := fmt.Sprintf("Bus <b>%s</b> 🚌\n\n%s", a.ServiceNo, strings.Join(lines, "\n\n"))
	refresh := StopServiceAction{StopCode: a.StopCode, ServiceNo: a.ServiceNo, ResendMap: false}
	grid := [][]Button{{{Label: "Refresh 🔄", Token: refresh.Token()}}}
	return b.gateway.SendButtons(chatID, text, grid)
}

// sendRoute lists the ordered stops of a service direction, one button per
// stop. Tokens force a map resend since the user arrived via a route listing
// and has not seen the stop on a map yet.
func (b *Bot) sendRoute(chatID int64, a RouteAction) error {
	codes, err := b.data.Route(a.ServiceNo, a.Direction)
	if err != nil {
		return err
	}

	grid := make([][]Button, 0, len(codes))
	for _, code := range codes {
		label := code
		if stop, err := b.data.StopByCode(code); err == nil {
			label = stop.Description
		}
		grid = append(grid, []Button{{
			Label: label,
			Token: StopServiceAction{StopCode: code, ServiceNo: a.ServiceNo, ResendMap: true}.Token(),
		}})
	}

	text := fmt.Sprintf("Bus <b>%s</b> - stops along the route:", a.ServiceNo)
	return b.gateway.SendButtons(chatID, text, grid)
}
