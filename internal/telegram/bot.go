package telegram

import (
	"fmt"
	"strings"

	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/logger"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/shop"
	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/shop/keyboard"
)

// API is the slice of the Bot API the dispatcher needs. *Client satisfies
// it; tests substitute a fake.
type API interface {
	SendMessage(chatID int64, text string, markup *InlineKeyboardMarkup) error
	EditMessageText(chatID int64, messageID int, text string, markup *InlineKeyboardMarkup) error
	SendPhoto(chatID int64, caption string, markup *InlineKeyboardMarkup, photo []byte) error
	AnswerCallbackQuery(callbackID string) error
}

// Bot glues inbound updates to the shop router and delivers its
// renderings back through the Bot API.
type Bot struct {
	API    API
	Router *shop.Router
	Log    *logger.Logger
}

func NewBot(api API, router *shop.Router, log *logger.Logger) *Bot {
	return &Bot{API: api, Router: router, Log: log}
}

// HandleUpdate processes one inbound update. Updates that are neither a
// command message nor a callback are dropped.
func (b *Bot) HandleUpdate(update Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && strings.HasPrefix(update.Message.Text, "/"):
		b.handleCommand(update.Message)
	}
}

func (b *Bot) handleCommand(msg *Message) {
	if msg.From == nil {
		return
	}

	// "/start@some_bot extra" → "start"
	name := strings.Fields(msg.Text)[0]
	name = strings.TrimPrefix(name, "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}

	rendering := b.Router.Command(name, visitorFrom(msg.From))
	if err := b.API.SendMessage(msg.Chat.ID, rendering.Text, markupFrom(rendering.Menu)); err != nil {
		b.Log.Error("TELEGRAM", fmt.Sprintf("send reply to chat %d: %v", msg.Chat.ID, err))
	}
}

func (b *Bot) handleCallback(query *CallbackQuery) {
	// Acknowledge before doing any work so the transport never treats the
	// press as unhandled.
	if err := b.API.AnswerCallbackQuery(query.ID); err != nil {
		b.Log.Error("TELEGRAM", fmt.Sprintf("answer callback %s: %v", query.ID, err))
	}
	if query.From == nil || query.Message == nil {
		return
	}

	rendering := b.Router.Callback(query.Data, visitorFrom(query.From))
	b.deliver(query.Message.Chat.ID, query.Message.MessageID, rendering)
}

// deliver edits the menu message in place; confirmations that carry a QR
// image go out as a fresh photo message instead, since an edit cannot
// change a message's type.
func (b *Bot) deliver(chatID int64, messageID int, rendering shop.Rendering) {
	markup := markupFrom(rendering.Menu)

	if len(rendering.QR) > 0 {
		err := b.API.SendPhoto(chatID, rendering.Text, markup, rendering.QR)
		if err == nil {
			return
		}
		b.Log.Error("TELEGRAM", fmt.Sprintf("send photo to chat %d: %v", chatID, err))
	}

	if err := b.API.EditMessageText(chatID, messageID, rendering.Text, markup); err != nil {
		b.Log.Error("TELEGRAM", fmt.Sprintf("edit message %d in chat %d: %v", messageID, chatID, err))
		if err := b.API.SendMessage(chatID, rendering.Text, markup); err != nil {
			b.Log.Error("TELEGRAM", fmt.Sprintf("send fallback to chat %d: %v", chatID, err))
		}
	}
}

func visitorFrom(user *User) shop.Visitor {
	fullName := strings.TrimSpace(user.FirstName + " " + user.LastName)
	return shop.Visitor{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		FullName:  fullName,
	}
}

// markupFrom converts a menu to Bot API markup. An empty menu (the admin
// denial) yields no markup at all.
func markupFrom(menu keyboard.Menu) *InlineKeyboardMarkup {
	if len(menu) == 0 {
		return nil
	}
	rows := make([][]InlineKeyboardButton, 0, len(menu))
	for _, row := range menu {
		buttons := make([]InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, InlineKeyboardButton{Text: b.Label, CallbackData: b.Action})
		}
		rows = append(rows, buttons)
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}
