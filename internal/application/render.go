package application

import (
	"context"
	"fmt"
	"math"
	"strings"

	"SneakerShopBot/internal/application/media"
	"SneakerShopBot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

// ProductCaption is the MarkdownV2 text under the photos of a product.
func ProductCaption(p model.Product, manager string) string {
	var sb strings.Builder
	sb.WriteString("Товар: " + escape(p.Name) + "\n\n")

	if p.MinPrice == nil || *p.MinPrice <= 0 {
		sb.WriteString(fmt.Sprintf("*Код товара: %d*\n\n", p.Id))
		sb.WriteString(escape("Цены на товар не найдены. Уточните цену у: " + manager))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Цена: от %s ₽\n\n", escape(formatPrice(math.Ceil(*p.MinPrice)))))
	sb.WriteString(fmt.Sprintf("*Код товара: %d*\n\n", p.Id))
	sb.WriteString("Подробности цены на размер уточните у: " + escape(manager) + "\n\n")
	sb.WriteString("Обязательно укажите *размер* и *код товара*")
	return sb.String()
}

func BuyText(manager string) string {
	return "Для покупки товара напишите: " + escape(manager) + "\n\n" +
		"Обязательно укажите *код товара* \\(указан внизу описания товара\\) и *размер*"
}

func SizePricesText(p model.Product, prices []model.SizePrice) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Цены по размерам для '%s' (код %d):\n\n", p.Name, p.Id))
	for _, sp := range prices {
		sb.WriteString(fmt.Sprintf("%s: %d ₽\n", formatPrice(sp.Size), sp.Price))
	}
	return sb.String()
}

// renderProduct shows the photos of p followed by its caption and buttons,
// all as part of the current view.
func (b *Bot) renderProduct(ctx context.Context, chatId int64, p model.Product) {
	for _, chunk := range media.Chunk(p.PhotoBlobs(), media.MaxGroupSize) {
		b.showPhotos(ctx, chatId, chunk)
	}
	b.show(ctx, chatId, OutMessage{
		Text:     ProductCaption(p, b.cfg.ManagerContact),
		Markdown: true,
		Keyboard: ProductKeyboard(p, b.prices != nil),
	})
}
