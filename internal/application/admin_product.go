package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"SneakerShopBot/internal/application/callback"
	"SneakerShopBot/internal/application/states"
	"SneakerShopBot/internal/model"
	"SneakerShopBot/internal/storage"

	log "github.com/sirupsen/logrus"
)

const (
	InvalidIdText       = "Введите корректный код товара, состоящий из цифр:"
	ProductNotFoundText = "Товар с указанным кодом не найден."
	ProductRetryText    = "Товар не найден. Попробуйте еще раз."
	InvalidPriceText    = "Введите корректную стоимость, состоящую из цифр."
	NegativePriceText   = "Минимальная цена не может быть отрицательной."
	PhotoCountText      = "Введите количество фотографий (от 1 до 50) или '-', чтобы загружать их до слова 'готово':"
	SendPhotosText      = "Отправляйте фотографии. Когда закончите, напишите 'готово'."
)

// readPrice parses the text of ev as a price, re-prompting on bad input.
func (b *Bot) readPrice(ev Event) (float64, bool) {
	price, err := b.parsePrice(ev.Text)
	switch {
	case errors.Is(err, errNegativePrice):
		b.reply(ev, NegativePriceText)
		return 0, false
	case err != nil:
		b.reply(ev, InvalidPriceText)
		return 0, false
	}
	return price, true
}

// readProduct loads the product whose code is the text of ev. An invalid code
// always re-prompts; a missing product re-prompts only when retry is set and
// finishes the wizard otherwise.
func (b *Bot) readProduct(ctx context.Context, ev Event, retry bool) (*model.Product, bool) {
	id, err := parseProductId(ev.Text)
	if err != nil {
		b.reply(ev, InvalidIdText)
		return nil, false
	}

	p, err := b.store.Products.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		if retry {
			b.reply(ev, ProductRetryText)
		} else {
			b.abandon(ctx, ev, ProductNotFoundText)
		}
		return nil, false
	}
	if err != nil {
		b.storeFailed(ctx, ev, err)
		return nil, false
	}
	return p, true
}

// CreateProduct walks through name, min price, category, parse name and the
// photo count. Photos themselves are handled by ReceivePhoto.
func (b *Bot) CreateProduct(ctx context.Context, ev Event) {
	session := states.FromContext(ctx)
	draft := &session.Draft

	switch session.Step {
	case states.StepName:
		name, ok := b.readName(ev)
		if !ok {
			return
		}
		draft.Name = name
		session.Advance(states.StepMinPrice)
		b.reply(ev, "Введите минимальную стоимость товара:")

	case states.StepMinPrice:
		price, ok := b.readPrice(ev)
		if !ok {
			return
		}
		draft.MinPrice = &price
		b.askCategory(ctx, ev)

	case states.StepCategory:
		b.reply(ev, "Выберите категорию кнопкой выше.")

	case states.StepParseName:
		text := strings.TrimSpace(ev.Text)
		if text != "-" {
			if !b.validName(text) {
				b.reply(ev, InvalidNameText)
				return
			}
			draft.ParseName = &text
		}
		session.Advance(states.StepPhotoCount)
		b.reply(ev, PhotoCountText)

	case states.StepPhotoCount:
		text := strings.TrimSpace(ev.Text)
		if text == "-" {
			draft.PhotoMode = states.PhotoModeOpen
			session.Advance(states.StepPhotos)
			b.reply(ev, SendPhotosText)
			return
		}
		n, ok := b.parsePhotoCount(text)
		if !ok {
			b.reply(ev, PhotoCountText)
			return
		}
		draft.PhotoMode = states.PhotoModeCount
		draft.PhotosLeft = n
		session.Advance(states.StepPhotos)
		b.reply(ev, fmt.Sprintf("Отправьте %d фото.", n))

	case states.StepPhotos:
		b.photoText(ctx, ev)
	}
}

func (b *Bot) askCategory(ctx context.Context, ev Event) {
	leaves, err := b.store.Categories.ListLeaves(ctx)
	if err != nil {
		b.storeFailed(ctx, ev, err)
		return
	}
	if len(leaves) == 0 {
		b.abandon(ctx, ev, "Нет доступных категорий для размещения товара. Сначала создайте категорию.")
		return
	}

	states.FromContext(ctx).Advance(states.StepCategory)
	b.send(ev.ChatId, OutMessage{
		Text:     "Выберите категорию для размещения товара:",
		Keyboard: LeavesKeyboard(leaves),
	})
}

// PickCategory takes the category chosen for a new product.
func (b *Bot) PickCategory(ctx context.Context, ev Event, data callback.Data) {
	session := states.FromContext(ctx)
	if !session.Is(states.WizardCreateProduct, states.StepCategory) {
		b.answer(ev, OutdatedText)
		return
	}

	id, err := data.Int64(0)
	if err != nil {
		b.answer(ev, OutdatedText)
		return
	}

	node, err := b.nav.Category(ctx, id)
	if err != nil || !node.IsLeaf() || node.Category.IsRoot() {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Error loading category %d: %v", id, err)
		}
		b.answer(ev, "Категория недоступна, выберите другую.")
		return
	}

	if err := b.deleteMessages(ev.ChatId, ev.MessageId); err != nil {
		log.Printf("Error deleting category picker: %v", err)
	}
	session.Draft.CategoryId = id
	session.Advance(states.StepParseName)
	b.send(ev.ChatId, OutMessage{
		Text: fmt.Sprintf("Категория '%s' выбрана. Введите название товара для поиска цен по размерам или '-', чтобы пропустить:", node.Category.Name),
	})
	b.answer(ev, "")
}

func (b *Bot) EditProductName(ctx context.Context, ev Event) {
	session := states.FromContext(ctx)

	if session.Step == states.StepProductId {
		p, ok := b.readProduct(ctx, ev, false)
		if !ok {
			return
		}
		session.Draft.ProductId = p.Id
		session.Advance(states.StepNewName)
		b.reply(ev, "Введите новое название товара:")
		return
	}

	name, ok := b.readName(ev)
	if !ok {
		return
	}
	id := session.Draft.ProductId
	err := b.store.Products.UpdateName(ctx, id, name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.abandon(ctx, ev, ProductNotFoundText)
	case errors.Is(err, storage.ErrAlreadyExists):
		b.abandon(ctx, ev, fmt.Sprintf("Товар с названием '%s' уже есть в этой категории.", name))
	case err != nil:
		b.storeFailed(ctx, ev, err)
	default:
		b.done(ctx, ev, fmt.Sprintf("Для товара с кодом %d название изменено на %s.", id, name))
	}
}

func (b *Bot) EditMinPrice(ctx context.Context, ev Event) {
	session := states.FromContext(ctx)

	if session.Step == states.StepProductId {
		p, ok := b.readProduct(ctx, ev, false)
		if !ok {
			return
		}
		session.Draft.ProductId = p.Id
		session.Advance(states.StepMinPrice)
		b.reply(ev, "Введите новую минимальную стоимость товара:")
		return
	}

	price, ok := b.readPrice(ev)
	if !ok {
		return
	}
	id := session.Draft.ProductId
	err := b.store.Products.UpdateMinPrice(ctx, id, price)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.abandon(ctx, ev, ProductNotFoundText)
	case err != nil:
		b.storeFailed(ctx, ev, err)
	default:
		b.done(ctx, ev, fmt.Sprintf("Для товара с кодом %d цена изменена на %s ₽.", id, formatPrice(price)))
	}
}

// EditPhotos serves both edit_product_photos and add_photos: after the code
// is accepted every photo goes through ReceivePhoto.
func (b *Bot) EditPhotos(ctx context.Context, ev Event) {
	session := states.FromContext(ctx)

	if session.Step == states.StepPhotos {
		b.photoText(ctx, ev)
		return
	}

	p, ok := b.readProduct(ctx, ev, true)
	if !ok {
		return
	}
	session.Draft.ProductId = p.Id
	session.Draft.PhotoMode = states.PhotoModeOpen
	session.Advance(states.StepPhotos)
	if session.Wizard == states.WizardEditPhotos {
		b.reply(ev, "Отправьте новые фотографии, они заменят текущие. Когда закончите, напишите 'готово'.")
		return
	}
	b.reply(ev, SendPhotosText)
}

func (b *Bot) DeleteProduct(ctx context.Context, ev Event) {
	id, err := parseProductId(ev.Text)
	if err != nil {
		b.reply(ev, InvalidIdText)
		return
	}

	err = b.store.Products.Delete(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.abandon(ctx, ev, ProductNotFoundText)
	case err != nil:
		b.storeFailed(ctx, ev, err)
	default:
		b.done(ctx, ev, fmt.Sprintf("Товар с кодом %d успешно удален.", id))
	}
}
