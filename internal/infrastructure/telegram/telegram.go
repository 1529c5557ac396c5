// Package telegram connects the bot core to the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"SneakerShopBot/internal/application"
	"SneakerShopBot/internal/application/media"
	"SneakerShopBot/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

type Client struct {
	api     *tgbotapi.BotAPI
	files   *resty.Client
	timeout int
}

func New(cfg config.TelegramConfig) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error with the token: %w", err)
	}
	api.Debug = cfg.Debug
	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Client{
		api:     api,
		files:   resty.New().SetTimeout(30 * time.Second),
		timeout: cfg.Timeout,
	}, nil
}

func (c *Client) Close() error {
	return c.files.Close()
}

func (c *Client) SendMessage(chatId int64, out application.OutMessage) (int, error) {
	msg := tgbotapi.NewMessage(chatId, out.Text)
	if out.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdownV2
	}
	msg.ReplyToMessageID = out.ReplyTo
	if len(out.Keyboard) > 0 {
		msg.ReplyMarkup = InlineKeyboard(out.Keyboard)
	}

	sent, err := c.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// SendMediaGroup sends photos as one album. A single photo goes as a plain
// photo message since albums need at least two items.
func (c *Client) SendMediaGroup(chatId int64, photos [][]byte) ([]int, error) {
	switch len(photos) {
	case 0:
		return nil, nil
	case 1:
		sent, err := c.api.Send(tgbotapi.NewPhoto(chatId, photoFile(0, photos[0])))
		if err != nil {
			return nil, err
		}
		return []int{sent.MessageID}, nil
	}

	files := make([]interface{}, 0, len(photos))
	for i, photo := range photos {
		files = append(files, tgbotapi.NewInputMediaPhoto(photoFile(i, photo)))
	}
	sent, err := c.api.SendMediaGroup(tgbotapi.NewMediaGroup(chatId, files))
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(sent))
	for _, m := range sent {
		ids = append(ids, m.MessageID)
	}
	return ids, nil
}

func (c *Client) DeleteMessage(chatId int64, messageId int) error {
	_, err := c.api.Request(tgbotapi.NewDeleteMessage(chatId, messageId))
	return err
}

func (c *Client) AnswerCallback(callbackId, text string) error {
	_, err := c.api.Request(tgbotapi.NewCallback(callbackId, text))
	return err
}

func (c *Client) DownloadFile(ctx context.Context, fileId string) ([]byte, error) {
	link, err := c.api.GetFileDirectURL(fileId)
	if err != nil {
		return nil, fmt.Errorf("get url of file %s: %w", fileId, stripURL(err))
	}

	res, err := c.files.R().SetContext(ctx).Get(link)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileId, stripURL(err))
	}
	if res.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", res.StatusCode(), res.Status())
	}
	return res.Bytes(), nil
}

// Listen feeds updates into dispatch until ctx is done.
func (c *Client) Listen(ctx context.Context, dispatch func(context.Context, application.Event) error) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.timeout

	updates := c.api.GetUpdatesChan(u)
	defer c.api.StopReceivingUpdates()

	log.Println("Bot has been started...")
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			ev, ok := ToEvent(update)
			if !ok {
				continue
			}
			if err := dispatch(ctx, ev); err != nil {
				return err
			}
		}
	}
}

// ToEvent converts an update into an event. Updates the bot does not serve
// are reported with ok == false.
func ToEvent(update tgbotapi.Update) (application.Event, bool) {
	if cb := update.CallbackQuery; cb != nil {
		if cb.From == nil {
			return application.Event{}, false
		}
		ev := application.Event{
			Kind:       application.EventCallback,
			UserId:     cb.From.ID,
			ChatId:     cb.From.ID,
			Username:   cb.From.UserName,
			Data:       cb.Data,
			CallbackId: cb.ID,
		}
		if cb.Message != nil {
			ev.MessageId = cb.Message.MessageID
			if cb.Message.Chat != nil {
				ev.ChatId = cb.Message.Chat.ID
			}
		}
		return ev, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return application.Event{}, false
	}

	ev := application.Event{
		UserId:    msg.From.ID,
		ChatId:    msg.Chat.ID,
		Username:  msg.From.UserName,
		MessageId: msg.MessageID,
	}
	switch {
	case msg.IsCommand():
		ev.Kind = application.EventCommand
		ev.Command = msg.Command()
	case len(msg.Photo) > 0:
		ev.Kind = application.EventPhoto
		ids := make([]string, 0, len(msg.Photo))
		for _, size := range msg.Photo {
			ids = append(ids, size.FileID)
		}
		ev.PhotoFileId = media.Largest(ids)
	case strings.TrimSpace(msg.Text) != "":
		ev.Kind = application.EventText
		ev.Text = msg.Text
	default:
		return application.Event{}, false
	}
	return ev, true
}

func InlineKeyboard(keyboard application.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// stripURL drops the request URL from err. File URLs carry the bot token.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func photoFile(i int, photo []byte) tgbotapi.FileBytes {
	return tgbotapi.FileBytes{Name: fmt.Sprintf("photo%d.jpg", i+1), Bytes: photo}
}
