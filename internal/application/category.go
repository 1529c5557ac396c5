package application

import (
	"context"
	"errors"
	"fmt"

	"SneakerShopBot/internal/application/callback"
	"SneakerShopBot/internal/application/catalog"
	"SneakerShopBot/internal/application/states"
	"SneakerShopBot/internal/infrastructure/pricing"
	"SneakerShopBot/internal/model"
	"SneakerShopBot/internal/storage"

	log "github.com/sirupsen/logrus"
)

func (b *Bot) ShowCategory(ctx context.Context, ev Event, data callback.Data) {
	id, err := data.Int64(0)
	if err != nil {
		log.Printf("Error parsing category callback: %v", err)
		b.answer(ev, OutdatedText)
		return
	}

	node, err := b.nav.Category(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		b.answer(ev, CategoryGoneText)
		return
	}
	if err != nil {
		log.Printf("Error loading category %d: %v", id, err)
		b.answer(ev, RetryText)
		return
	}

	if node.IsLeaf() {
		if node.Category.IsRoot() {
			b.answer(ev, NoSubcategories)
			return
		}
		b.renderListing(ctx, ev, id, model.SortPriceAsc, catalog.ActionShow)
		return
	}

	b.retract(ctx, ev)
	b.showNode(ctx, ev.ChatId, node)
	b.answer(ev, "")
}

// showNode lists the children of a category and remembers where its "back"
// button leads.
func (b *Bot) showNode(ctx context.Context, chatId int64, node catalog.Node) {
	menu := b.rememberBack(ctx, node.Category.Id)

	if node.IsLeaf() {
		b.show(ctx, chatId, OutMessage{Text: NoSubcategories, Keyboard: column(backButton(menu))})
		return
	}
	b.show(ctx, chatId, OutMessage{
		Text:     fmt.Sprintf(SubcategoriesText, node.Category.Name),
		Keyboard: CategoriesKeyboard(node.Children, menu),
	})
}

func (b *Bot) rememberBack(ctx context.Context, nodeId int64) states.Menu {
	browse := &states.FromContext(ctx).Browse

	menu, anchor, err := b.nav.BackTarget(ctx, nodeId)
	if err != nil {
		log.Printf("Error resolving back target of %d: %v", nodeId, err)
		menu, anchor = states.MenuGlobal, 0
	}

	browse.Previous = menu
	switch menu {
	case states.MenuSubcategory:
		browse.GlobalCategory = anchor
	case states.MenuSubSubcategory:
		browse.Subcategory = anchor
	}
	return menu
}

func (b *Bot) ShowListing(ctx context.Context, ev Event, data callback.Data) {
	id, err := data.Int64(0)
	if err != nil {
		log.Printf("Error parsing listing callback: %v", err)
		b.answer(ev, OutdatedText)
		return
	}
	b.renderListing(ctx, ev, id, model.ParseSortKey(data.Arg(1)), catalog.ParseAction(data.Arg(2)))
}

// renderListing replaces the current view with one page of products. The
// page restarts at 1 whenever the category or the sort order changes.
func (b *Bot) renderListing(ctx context.Context, ev Event, categoryId int64, sort model.SortKey, action catalog.Action) {
	session := states.FromContext(ctx)

	page := 1
	if action != catalog.ActionShow && session.Browse.Category == categoryId && session.Browse.Sort == sort {
		page = session.Browse.Page
	}

	listing, err := b.nav.TurnPage(ctx, categoryId, sort, page, action)
	if errors.Is(err, storage.ErrNotFound) {
		b.answer(ev, CategoryGoneText)
		return
	}
	if err != nil {
		log.Printf("Error listing products of %d: %v", categoryId, err)
		b.answer(ev, RetryText)
		return
	}

	b.retract(ctx, ev)
	menu := b.rememberBack(ctx, categoryId)
	session.Browse.Category = categoryId
	session.Browse.Sort = sort
	session.Browse.Page = listing.Page

	if len(listing.Items) == 0 {
		b.show(ctx, ev.ChatId, OutMessage{Text: EmptyListingText, Keyboard: ListingKeyboard(listing, menu)})
		b.answer(ev, EmptyListingText)
		return
	}

	for _, p := range listing.Items {
		b.renderProduct(ctx, ev.ChatId, p)
	}
	b.show(ctx, ev.ChatId, OutMessage{
		Text:     fmt.Sprintf("Страница %d из %d. %s", listing.Page, listing.TotalPages, ChooseOptionText),
		Keyboard: ListingKeyboard(listing, menu),
	})
	b.show(ctx, ev.ChatId, OutMessage{Text: SortText, Keyboard: SortKeyboard(listing)})
	b.answer(ev, "")
}

// GoBack re-reads the screen the pressed button points to, so categories
// changed meanwhile show up as they are now.
func (b *Bot) GoBack(ctx context.Context, ev Event, data callback.Data) {
	session := states.FromContext(ctx)

	menu, ok := states.ParseMenu(data.Arg(0))
	if !ok {
		menu = session.Browse.Previous
	}

	resolved, node, err := b.nav.Resolve(ctx, menu, session.Browse)
	if err != nil {
		log.Printf("Error resolving %s menu: %v", menu, err)
		b.answer(ev, RetryText)
		return
	}

	b.retract(ctx, ev)
	switch resolved {
	case states.MenuMain:
		b.showMainMenu(ctx, ev.ChatId)
	case states.MenuGlobal:
		b.showRoots(ctx, ev.ChatId, node.Children)
	default:
		b.showNode(ctx, ev.ChatId, *node)
	}
	b.answer(ev, "")
}

// BuyProduct counts the purchase intent and tells the user whom to write.
func (b *Bot) BuyProduct(ctx context.Context, ev Event, data callback.Data) {
	id, err := data.Int64(0)
	if err != nil {
		log.Printf("Error parsing buy callback: %v", err)
		b.answer(ev, OutdatedText)
		return
	}

	err = b.store.Products.IncrementPopularity(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		log.Printf("Product %d not found", id)
		b.answer(ev, "Товар не найден.")
		return
	}
	if err != nil {
		log.Printf("Error counting purchase of %d: %v", id, err)
	}

	b.show(ctx, ev.ChatId, OutMessage{Text: BuyText(b.cfg.ManagerContact), Markdown: true})
	b.answer(ev, "")
}

func (b *Bot) SizePrices(ctx context.Context, ev Event, data callback.Data) {
	const unavailable = "Цены по размерам недоступны."

	id, err := data.Int64(0)
	if err != nil || b.prices == nil {
		b.answer(ev, unavailable)
		return
	}

	p, err := b.store.Products.Get(ctx, id)
	if err != nil || p.ParseName == nil {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("Error loading product %d: %v", id, err)
		}
		b.answer(ev, unavailable)
		return
	}
	b.answer(ev, "Ищу цены...")

	var expectedMin float64
	if p.MinPrice != nil {
		expectedMin = *p.MinPrice
	}

	prices, err := b.prices.LookupPrices(ctx, *p.ParseName, expectedMin)
	if err != nil {
		if !errors.Is(err, pricing.ErrNoPrices) {
			log.Printf("Error looking up prices of %d: %v", id, err)
		}
		b.show(ctx, ev.ChatId, OutMessage{
			Text: fmt.Sprintf("Цены по размерам не найдены. Уточните цену у: %s", b.cfg.ManagerContact),
		})
		return
	}
	b.show(ctx, ev.ChatId, OutMessage{Text: SizePricesText(*p, prices)})
}
