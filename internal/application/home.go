package application

import (
	"context"
	"fmt"

	"SneakerShopBot/internal/application/states"
	"SneakerShopBot/internal/model"

	log "github.com/sirupsen/logrus"
)

func (b *Bot) ShowCatalog(ctx context.Context, ev Event) {
	b.retract(ctx, ev)

	roots, err := b.nav.Roots(ctx)
	if err != nil {
		log.Printf("Error listing global categories: %v", err)
		b.answer(ev, RetryText)
		return
	}
	b.showRoots(ctx, ev.ChatId, roots)
	b.answer(ev, "")
}

func (b *Bot) showRoots(ctx context.Context, chatId int64, roots []model.Category) {
	session := states.FromContext(ctx)
	session.Browse.Previous = states.MenuMain

	if len(roots) == 0 {
		b.show(ctx, chatId, OutMessage{Text: NoCategoriesText, Keyboard: column(backButton(states.MenuMain))})
		return
	}
	b.show(ctx, chatId, OutMessage{Text: ChooseCategory, Keyboard: CategoriesKeyboard(roots, states.MenuMain)})
}

func (b *Bot) showMainMenu(ctx context.Context, chatId int64) {
	states.FromContext(ctx).Browse.Previous = states.MenuMain
	b.show(ctx, chatId, OutMessage{Text: MainMenuText, Keyboard: MainMenuKeyboard(b.cfg.ChannelURL)})
}

func (b *Bot) StartFind(ctx context.Context, ev Event) {
	b.retract(ctx, ev)
	states.FromContext(ctx).Start(states.WizardFindProduct, states.StepProductId)
	b.send(ev.ChatId, OutMessage{Text: "Введите код товара:"})
	b.answer(ev, "")
}

func (b *Bot) Tracking(ev Event) {
	b.send(ev.ChatId, OutMessage{Text: fmt.Sprintf("По поводу отслеживания заказа обратитесь к: %s", b.cfg.ManagerContact)})
	b.answer(ev, "")
}

func (b *Bot) Question(ev Event) {
	b.send(ev.ChatId, OutMessage{Text: fmt.Sprintf("По всем вопросам обращайтесь к: %s", b.cfg.ManagerContact)})
	b.answer(ev, "")
}
