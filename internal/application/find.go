package application

import (
	"context"
	"errors"
	"fmt"

	"SneakerShopBot/internal/application/states"
	"SneakerShopBot/internal/storage"
)

// FindProduct shows the product whose code the user typed.
func (b *Bot) FindProduct(ctx context.Context, ev Event) {
	id, err := parseProductId(ev.Text)
	if err != nil {
		b.reply(ev, InvalidIdText)
		return
	}

	p, err := b.store.Products.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		b.abandon(ctx, ev, ProductNotFoundText)
		return
	}
	if err != nil {
		b.storeFailed(ctx, ev, err)
		return
	}

	states.FromContext(ctx).Finish()
	if !p.HasPhotos() {
		b.reply(ev, fmt.Sprintf("Товар '%s' найден, но у него нет фотографий.", p.Name))
		return
	}

	b.retract(ctx, ev)
	b.renderProduct(ctx, ev.ChatId, *p)
	b.show(ctx, ev.ChatId, OutMessage{Text: ChooseOptionText, Keyboard: NavigationKeyboard()})
}
