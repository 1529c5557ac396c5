// Package commands lists the slash commands the bot understands.
package commands

const (
	Start = "start"
	Help  = "help"
	Admin = "adm"
)

const HelpText = `Я - бот с каталогом товаров магазина SB.

/start - главное меню
/help - эта подсказка

В каталоге выберите категорию, листайте товары кнопками "Предыдущая страница" и "Следующая страница" и сортируйте их по цене или популярности.
Чтобы купить товар, нажмите "Купить 🛒" и напишите менеджеру код товара и размер.
Товар можно найти сразу по коду через "Найти товар по коду".`

