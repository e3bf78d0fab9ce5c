package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Button is one tappable inline button: a visible label and the callback
// token echoed back on tap.
type Button struct {
	Label string
	Token string
}

// Gateway is the outbound messaging surface. Text may carry the HTML markup
// subset (<b>, <u>, <code>); the implementation owns dialect translation.
type Gateway interface {
	SendText(chatID int64, text string) error
	SendButtons(chatID int64, text string, grid [][]Button) error
	SendLocation(chatID int64, latitude, longitude float64) error
	AcknowledgeTap(tapID string) error
}

// TelegramGateway sends through the Telegram Bot API.
type TelegramGateway struct {
	api *tgbotapi.BotAPI
}

// NewTelegramGateway wraps a Bot API client.
func NewTelegramGateway(api *tgbotapi.BotAPI) *TelegramGateway {
	return &TelegramGateway{api: api}
}

func (g *TelegramGateway) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := g.api.Send(msg)
	return err
}

func (g *TelegramGateway) SendButtons(chatID int64, text string, grid [][]Button) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(grid))
	for _, row := range grid {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token))
		}
		rows = append(rows, buttons)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := g.api.Send(msg)
	return err
}

func (g *TelegramGateway) SendLocation(chatID int64, latitude, longitude float64) error {
	_, err := g.api.Send(tgbotapi.NewLocation(chatID, latitude, longitude))
	return err
}

func (g *TelegramGateway) AcknowledgeTap(tapID string) error {
	_, err := g.api.Request(tgbotapi.NewCallback(tapID, ""))
	return err
}
