package application

import (
	"context"

	"SneakerShopBot/internal/application/commands"
	"SneakerShopBot/internal/application/states"

	log "github.com/sirupsen/logrus"
)

const (
	CatalogBtn      = "Каталог  🛒"
	FindBtn         = "Найти товар по коду | 495 |"
	TrackingBtn     = "| Отследить заказ | "
	ChannelBtn      = "Наш канал"
	QuestionBtn     = "У меня вопрос 🥷"
	BackBtn         = "Назад ⬅️"
	BackToCatalog   = "Вернуться в каталог ⬅️"
	BackToMain      = "Вернуться в главное меню ⬅️"
	PreviousPageBtn = "Предыдущая страница ⬅️"
	NextPageBtn     = "Следующая страница ➡️"
	BuyBtn          = "Купить 🛒"
	PricesBtn       = "Цены по размерам 📏"
	PopularBtn      = "Популярные"
	CheapBtn        = "Недорогие"
	ExpensiveBtn    = "Дорогие"

	Welcome = "_____________________________\n\n" +
		"Привет, ты в МАГАЗИН SB \n\n" +
		"Я - бот с каталогом товаров. | 🛒| \n\n" +
		"Педали, одежда, штаны для катки и не только. 🤹🏾\n\n" +
		"🥷 Приобретая вещи у нас, ты получаешь оригинальные товары по цене ниже рынка с гарантией качества.  \n\n" +
		"🏵️ Команда профессионалов всегда готова помочь вам с выбором и ответить на все вопросы. \n\n" +
		"Выберите пункт из меню:"

	MainMenuText      = "Главное меню:"
	AdminPanelText    = "Вы зашли в админ-панель. Выберите опцию: "
	ChooseOptionText  = "Выберите опцию: "
	UseMenuText       = "Воспользуйтесь меню: /start"
	UnknownCmdText    = "Неизвестная команда. Список команд: /help"
	RetryText         = "Произошла ошибка. Пожалуйста, попробуйте ещё раз."
	OutdatedText      = "Действие устарело."
	ExpectTextText    = "Ожидается текстовый ответ."
	InvalidNameText   = "Название не может быть пустым или длиннее 64 символов. Попробуйте ещё раз:"
	NoCategoriesText  = "Категории отсутствуют."
	NoSubcategories   = "Подкатегории отсутствуют."
	CategoryGoneText  = "Категория не найдена."
	ChooseCategory    = "Выберите категорию:"
	SubcategoriesText = "Подкатегории для '%s':"
	EmptyListingText  = "Вложений не найдено."
	SortText          = "Сортировать:"
)

func (b *Bot) CommandHandler(ctx context.Context, ev Event) {
	session := states.FromContext(ctx)

	switch ev.Command {
	case commands.Start:
		b.retract(ctx, ev)
		session.Reset()
		b.send(ev.ChatId, OutMessage{Text: Welcome, Keyboard: MainMenuKeyboard(b.cfg.ChannelURL), ReplyTo: ev.MessageId})
	case commands.Help:
		b.send(ev.ChatId, OutMessage{Text: commands.HelpText})
	case commands.Admin:
		if !b.isAdmin(ev.UserId) {
			log.WithField("user_id", ev.UserId).Warn("Admin panel requested by a non-admin")
			return
		}
		session.Finish()
		b.send(ev.ChatId, OutMessage{Text: AdminPanelText, Keyboard: AdminKeyboard(), ReplyTo: ev.MessageId})
	default:
		b.send(ev.ChatId, OutMessage{Text: UnknownCmdText})
	}
}
