package application

import (
	"context"
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"

	"SneakerShopBot/internal/application/states"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var (
	errInvalidPrice  = errors.New("price is not a number")
	errNegativePrice = errors.New("price is negative")
)

type nameInput struct {
	Name string `validate:"required,max=64"`
}

type priceInput struct {
	Price float64 `validate:"gte=0"`
}

// send delivers msg and returns its id, or 0 when the transport failed.
// Transport failures never stop a flow.
func (b *Bot) send(chatId int64, msg OutMessage) int {
	id, err := b.sender.SendMessage(chatId, msg)
	if err != nil {
		log.Printf("Error sending message: %v", err)
		return 0
	}
	return id
}

func (b *Bot) reply(ev Event, text string) int {
	return b.send(ev.ChatId, OutMessage{Text: text, ReplyTo: ev.MessageId})
}

// show sends msg as part of the current view so the next view retracts it.
func (b *Bot) show(ctx context.Context, chatId int64, msg OutMessage) int {
	id := b.send(chatId, msg)
	if id != 0 {
		states.FromContext(ctx).Remember(id)
	}
	return id
}

func (b *Bot) showPhotos(ctx context.Context, chatId int64, photos [][]byte) {
	ids, err := b.sender.SendMediaGroup(chatId, photos)
	if err != nil {
		log.Printf("Error sending media group: %v", err)
	}
	states.FromContext(ctx).Remember(ids...)
}

func (b *Bot) answer(ev Event, text string) {
	if ev.CallbackId == "" {
		return
	}
	if err := b.sender.AnswerCallback(ev.CallbackId, text); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

// retract deletes the messages of the current view and, for a button press,
// the message carrying the button.
func (b *Bot) retract(ctx context.Context, ev Event) {
	ids := states.FromContext(ctx).TakeMessages()
	if ev.Kind == EventCallback && ev.MessageId != 0 && !slices.Contains(ids, ev.MessageId) {
		ids = append(ids, ev.MessageId)
	}
	if err := b.deleteMessages(ev.ChatId, ids...); err != nil {
		log.Warnf("Error deleting messages: %v", err)
	}
}

func (b *Bot) deleteMessages(chatId int64, ids ...int) error {
	var err error
	for _, id := range ids {
		err = multierr.Append(err, b.sender.DeleteMessage(chatId, id))
	}
	return err
}

// storeFailed reports an unexpected storage error and abandons the wizard.
func (b *Bot) storeFailed(ctx context.Context, ev Event, err error) {
	log.WithField("user_id", ev.UserId).Errorf("Storage error: %v", err)
	b.reply(ev, RetryText)
	states.FromContext(ctx).Finish()
}

func (b *Bot) validName(name string) bool {
	return b.validate.Struct(nameInput{Name: name}) == nil
}

func parseProductId(text string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(text), 10, 64)
}

// parsePrice accepts "5000", "5000.50" and "5000,50".
func (b *Bot) parsePrice(text string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	s = strings.Replace(s, ",", ".", 1)
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, errInvalidPrice
	}
	if b.validate.Struct(priceInput{Price: price}) != nil {
		return 0, errNegativePrice
	}
	return price, nil
}

// isDone reports whether text ends a photo upload.
func isDone(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "готово" || t == "done"
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

type photoCountInput struct {
	Count int `validate:"min=1,max=50"`
}

// parsePhotoCount reads the number of photos an admin is about to upload.
func (b *Bot) parsePhotoCount(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || b.validate.Struct(photoCountInput{Count: n}) != nil {
		return 0, false
	}
	return n, true
}
