package application

import (
	"context"
	"errors"
	"fmt"

	"SneakerShopBot/internal/application/states"
	"SneakerShopBot/internal/model"
	"SneakerShopBot/internal/storage"

	log "github.com/sirupsen/logrus"
)

const (
	ProductCreatedText = "Все фотографии добавлены. Товар успешно создан."
	ProductUpdatedText = "Все новые фотографии добавлены. Товар успешно обновлен."
	PhotoOrDoneText    = "Отправьте фотографию или напишите 'готово'."
	CategoryLostText   = "Категория больше недоступна, товар не создан."
)

// ReceivePhoto takes one photo of the active photo step.
func (b *Bot) ReceivePhoto(ctx context.Context, ev Event) {
	session := states.FromContext(ctx)

	photo, err := b.sender.DownloadFile(ctx, ev.PhotoFileId)
	if err != nil {
		log.WithField("user_id", ev.UserId).Errorf("Error downloading photo: %v", err)
		b.reply(ev, "Не удалось загрузить фотографию, отправьте ее еще раз.")
		return
	}

	switch session.Wizard {
	case states.WizardCreateProduct:
		if session.Draft.PhotoMode == states.PhotoModeCount {
			b.countedPhoto(ctx, ev, photo)
			return
		}
		b.openPhoto(ctx, ev, photo)
	case states.WizardEditPhotos, states.WizardAddPhotos:
		b.editPhoto(ctx, ev, photo)
	}
}

func draftProduct(d states.Draft) *model.Product {
	return &model.Product{
		Name:       d.Name,
		CategoryId: d.CategoryId,
		MinPrice:   d.MinPrice,
		ParseName:  d.ParseName,
	}
}

// countedPhoto collects photos until the declared number is reached and then
// creates the product with all of them at once.
func (b *Bot) countedPhoto(ctx context.Context, ev Event, photo []byte) {
	draft := &states.FromContext(ctx).Draft
	draft.Photos = append(draft.Photos, photo)
	draft.PhotosLeft--
	if draft.PhotosLeft > 0 {
		b.reply(ev, fmt.Sprintf("Фото получено. Осталось: %d.", draft.PhotosLeft))
		return
	}

	if _, err := b.store.Products.Create(ctx, draftProduct(*draft), draft.Photos...); err != nil {
		b.createFailed(ctx, ev, err)
		return
	}
	b.done(ctx, ev, ProductCreatedText)
}

// openPhoto stores each photo right away, creating the product with the
// first one.
func (b *Bot) openPhoto(ctx context.Context, ev Event, photo []byte) {
	draft := &states.FromContext(ctx).Draft

	id, err := b.store.Products.Create(ctx, draftProduct(*draft), photo)
	if err != nil {
		b.createFailed(ctx, ev, err)
		return
	}
	draft.ProductId = id
	draft.PhotosAdded++
	b.reply(ev, fmt.Sprintf("Фото %d добавлено. %s", draft.PhotosAdded, PhotoOrDoneText))
}

// editPhoto replaces the stored photos with the first one received by
// edit_product_photos and appends everything else.
func (b *Bot) editPhoto(ctx context.Context, ev Event, photo []byte) {
	session := states.FromContext(ctx)
	draft := &session.Draft

	var err error
	if session.Wizard == states.WizardEditPhotos && !draft.PhotosReplaced {
		err = b.store.Products.ReplacePhotos(ctx, draft.ProductId, photo)
		draft.PhotosReplaced = err == nil
	} else {
		err = b.store.Products.AddPhoto(ctx, draft.ProductId, photo)
	}
	if errors.Is(err, storage.ErrNotFound) {
		b.abandon(ctx, ev, ProductNotFoundText)
		return
	}
	if err != nil {
		b.storeFailed(ctx, ev, err)
		return
	}
	draft.PhotosAdded++
	b.reply(ev, fmt.Sprintf("Фото %d добавлено. %s", draft.PhotosAdded, PhotoOrDoneText))
}

// photoText handles text sent while photos are expected. Only "готово" in
// open mode ends the upload.
func (b *Bot) photoText(ctx context.Context, ev Event) {
	session := states.FromContext(ctx)
	draft := &session.Draft

	if !isDone(ev.Text) {
		b.reply(ev, PhotoOrDoneText)
		return
	}
	if draft.PhotoMode == states.PhotoModeCount {
		b.reply(ev, fmt.Sprintf("Осталось загрузить фотографий: %d.", draft.PhotosLeft))
		return
	}

	if draft.PhotosAdded == 0 {
		if session.Wizard == states.WizardCreateProduct {
			b.abandon(ctx, ev, "Фотографии не добавлены, товар не создан.")
			return
		}
		b.abandon(ctx, ev, "Фотографии не добавлены.")
		return
	}

	if session.Wizard == states.WizardCreateProduct {
		b.done(ctx, ev, ProductCreatedText)
		return
	}
	b.done(ctx, ev, ProductUpdatedText)
}

func (b *Bot) createFailed(ctx context.Context, ev Event, err error) {
	if errors.Is(err, storage.ErrParentNotFound) || errors.Is(err, storage.ErrNotLeaf) {
		b.abandon(ctx, ev, CategoryLostText)
		return
	}
	b.storeFailed(ctx, ev, err)
}
