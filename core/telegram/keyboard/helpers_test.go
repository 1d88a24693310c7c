package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

func TestInlineButtonsNPerRowChunks(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "10:00", Unique: "slot", Data: "10:00"},
		{Text: "10:30", Unique: "slot", Data: "10:30"},
		{Text: "11:00", Unique: "slot", Data: "11:00"},
		{Text: "11:30", Unique: "slot", Data: "11:30"},
		{Text: "12:00", Unique: "slot", Data: "12:00"},
	}

	markup := InlineButtonsNPerRow(buttons, 2)
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Len(t, markup.InlineKeyboard[1], 2)
	assert.Len(t, markup.InlineKeyboard[2], 1)
	assert.Equal(t, "12:00", markup.InlineKeyboard[2][0].Text)
}

func TestInlineButtonsOnePerRow(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "A", Unique: "a"},
		{Text: "B", Unique: "b"},
	})
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Len(t, markup.InlineKeyboard[0], 1)
}

func TestAppendCancelRow(t *testing.T) {
	markup := InlineButtonsRows([]InlineBtn{{Text: "Pick", Unique: "pick"}})
	AppendCancelRow(markup, "appt_cancel")

	require.Len(t, markup.InlineKeyboard, 2)
	row := markup.InlineKeyboard[1]
	require.Len(t, row, 1)
	assert.Equal(t, defaultCancelButtonText, row[0].Text)
}

func TestCancelButtonOverrides(t *testing.T) {
	markup := &tele.ReplyMarkup{}
	btn := CancelButton(markup, "fill_cancel", "stop", "Abort")
	assert.Equal(t, "Abort", btn.Text)
	assert.Equal(t, "stop", btn.Data)
}
