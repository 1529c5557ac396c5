package telegram

import (
	"errors"
	"net/url"
	"testing"

	"SneakerShopBot/internal/application"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEventCommand(t *testing.T) {
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 7,
		From:      &tgbotapi.User{ID: 42, UserName: "buyer"},
		Chat:      &tgbotapi.Chat{ID: 100},
		Text:      "/start",
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}}

	ev, ok := ToEvent(update)
	require.True(t, ok)
	assert.Equal(t, application.EventCommand, ev.Kind)
	assert.Equal(t, "start", ev.Command)
	assert.Equal(t, int64(42), ev.UserId)
	assert.Equal(t, int64(100), ev.ChatId)
	assert.Equal(t, "buyer", ev.Username)
	assert.Equal(t, 7, ev.MessageId)
}

func TestToEventText(t *testing.T) {
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 3,
		From:      &tgbotapi.User{ID: 1},
		Chat:      &tgbotapi.Chat{ID: 1},
		Text:      "Кроссовки",
	}}

	ev, ok := ToEvent(update)
	require.True(t, ok)
	assert.Equal(t, application.EventText, ev.Kind)
	assert.Equal(t, "Кроссовки", ev.Text)
}

func TestToEventPhotoTakesLargestSize(t *testing.T) {
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Chat: &tgbotapi.Chat{ID: 1},
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", Width: 90},
			{FileID: "medium", Width: 320},
			{FileID: "large", Width: 1280},
		},
	}}

	ev, ok := ToEvent(update)
	require.True(t, ok)
	assert.Equal(t, application.EventPhoto, ev.Kind)
	assert.Equal(t, "large", ev.PhotoFileId)
}

func TestToEventCallback(t *testing.T) {
	update := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 5, UserName: "u"},
		Message: &tgbotapi.Message{MessageID: 11, Chat: &tgbotapi.Chat{ID: 50}},
		Data:    "cat:3",
	}}

	ev, ok := ToEvent(update)
	require.True(t, ok)
	assert.Equal(t, application.EventCallback, ev.Kind)
	assert.Equal(t, "cb1", ev.CallbackId)
	assert.Equal(t, "cat:3", ev.Data)
	assert.Equal(t, int64(50), ev.ChatId)
	assert.Equal(t, 11, ev.MessageId)
}

func TestToEventSkipsUnsupported(t *testing.T) {
	_, ok := ToEvent(tgbotapi.Update{})
	assert.False(t, ok)

	_, ok = ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Chat: &tgbotapi.Chat{ID: 1},
		Text: "   ",
	}})
	assert.False(t, ok)
}

func TestInlineKeyboard(t *testing.T) {
	markup := InlineKeyboard(application.Keyboard{
		{{Text: "Каталог", Data: "catalog"}},
		{{Text: "Канал", URL: "https://t.me/shop"}, {Text: "Назад", Data: "back:main"}},
	})

	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[1], 2)
	require.NotNil(t, markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "catalog", *markup.InlineKeyboard[0][0].CallbackData)
	require.NotNil(t, markup.InlineKeyboard[1][0].URL)
	assert.Equal(t, "https://t.me/shop", *markup.InlineKeyboard[1][0].URL)
	assert.Nil(t, markup.InlineKeyboard[1][0].CallbackData)
}

func TestStripURLHidesToken(t *testing.T) {
	err := &url.Error{
		Op:  "Get",
		URL: "https://api.telegram.org/file/bot123:SECRET/photos/file_1.jpg",
		Err: errors.New("connection reset"),
	}

	stripped := stripURL(err)
	assert.NotContains(t, stripped.Error(), "SECRET")
	assert.Equal(t, "Get: connection reset", stripped.Error())

	plain := errors.New("boom")
	assert.Equal(t, plain, stripURL(plain))
}
