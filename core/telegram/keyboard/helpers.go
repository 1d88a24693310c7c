// Package keyboard builds inline keyboards from small button descriptors.
package keyboard

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// InlineBtn describes one inline button: label, callback unique, and an
// optional payload.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

const defaultCancelButtonText = "❌ Cancel"

func toRow(markup *tele.ReplyMarkup, buttons []InlineBtn) []tele.InlineButton {
	row := make([]tele.InlineButton, len(buttons))
	for i, b := range buttons {
		row[i] = *markup.Data(b.Text, b.Unique, b.Data).Inline()
	}
	return row
}

// InlineButtonsRows builds an inline keyboard from explicit rows.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	for _, row := range rows {
		markup.InlineKeyboard = append(markup.InlineKeyboard, toRow(markup, row))
	}
	return markup
}

// InlineButtons places each button on its own row.
func InlineButtons(buttons []InlineBtn) *tele.ReplyMarkup {
	return InlineButtonsNPerRow(buttons, 1)
}

// InlineButtonsNPerRow lays a flat button list out as a grid with up to n
// buttons per row. Slot pickers use this for compact time grids.
func InlineButtonsNPerRow(buttons []InlineBtn, n int) *tele.ReplyMarkup {
	if n < 1 {
		n = 1
	}
	var rows [][]InlineBtn
	for len(buttons) > n {
		rows = append(rows, buttons[:n])
		buttons = buttons[n:]
	}
	if len(buttons) > 0 {
		rows = append(rows, buttons)
	}
	return InlineButtonsRows(rows...)
}

// AppendRow adds one row to an existing markup, for keyboards that mix
// generated grids with fixed action rows.
func AppendRow(markup *tele.ReplyMarkup, buttons ...InlineBtn) {
	markup.InlineKeyboard = append(markup.InlineKeyboard, toRow(markup, buttons))
}

// AppendCancelRow adds a cancel row to an existing markup.
func AppendCancelRow(markup *tele.ReplyMarkup, action string, options ...string) {
	btn := CancelButton(markup, action, options...)
	markup.InlineKeyboard = append(markup.InlineKeyboard, []tele.InlineButton{*btn.Inline()})
}

// SingleButtonMarkup builds a one-button keyboard, used for navigation rows
// like back-to-menu.
func SingleButtonMarkup(text, unique string, data ...string) *tele.ReplyMarkup {
	return InlineButtonsRows([]InlineBtn{{Text: text, Unique: unique, Data: strings.Join(data, "|")}})
}

// CancelButton returns a cancel button bound to markup. The first option
// overrides the payload, the second the label.
func CancelButton(markup *tele.ReplyMarkup, action string, options ...string) tele.Btn {
	payload, text := "cancel", defaultCancelButtonText
	if len(options) > 0 && options[0] != "" {
		payload = options[0]
	}
	if len(options) > 1 && options[1] != "" {
		text = options[1]
	}
	return markup.Data(text, action, payload)
}

// SingleCancelMarkup builds a keyboard holding only a cancel button.
func SingleCancelMarkup(action string, options ...string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	AppendCancelRow(markup, action, options...)
	return markup
}
