package application

import (
	"SneakerShopBot/internal/application/callback"
	"SneakerShopBot/internal/application/catalog"
	"SneakerShopBot/internal/application/states"
	"SneakerShopBot/internal/model"
)

// AddKeyboardButton appends button to the last row, or opens a new row once
// the last one holds maxButtonsPerRow buttons.
func AddKeyboardButton(keyboard Keyboard, button Button, maxButtonsPerRow int) Keyboard {
	// if no buttons
	if len(keyboard) == 0 {
		return append(keyboard, []Button{button})
	}

	lastRowIndex := len(keyboard) - 1
	if len(keyboard[lastRowIndex]) < maxButtonsPerRow {
		keyboard[lastRowIndex] = append(keyboard[lastRowIndex], button)
	} else {
		keyboard = append(keyboard, []Button{button})
	}
	return keyboard
}

func column(buttons ...Button) Keyboard {
	var keyboard Keyboard
	for _, button := range buttons {
		keyboard = AddKeyboardButton(keyboard, button, 1)
	}
	return keyboard
}

func MainMenuKeyboard(channelURL string) Keyboard {
	buttons := []Button{
		{Text: CatalogBtn, Data: callback.Catalog},
		{Text: FindBtn, Data: callback.Find},
		{Text: TrackingBtn, Data: callback.Tracking},
	}
	if channelURL != "" {
		buttons = append(buttons, Button{Text: ChannelBtn, URL: channelURL})
	}
	buttons = append(buttons, Button{Text: QuestionBtn, Data: callback.Question})
	return column(buttons...)
}

var adminButtons = []struct {
	text   string
	wizard states.Wizard
}{
	{"Создать глобальную категорию", states.WizardCreateGlobal},
	{"Создать подкатегорию", states.WizardCreateCategory},
	{"Добавить товар", states.WizardCreateProduct},
	{"Удалить глобальную категорию", states.WizardDeleteGlobal},
	{"Удалить подкатегорию", states.WizardDeleteCategory},
	{"Удалить товар", states.WizardDeleteProduct},
	{"Редактировать минимальную цену товара", states.WizardEditMinPrice},
	{"Редактировать название товара", states.WizardEditProductName},
	{"Редактировать фото товара", states.WizardEditPhotos},
	{"Добавить фото товара", states.WizardAddPhotos},
	{"Изменить название глобальной категории", states.WizardEditGlobal},
	{"Изменить название категории", states.WizardEditCategory},
}

func AdminKeyboard() Keyboard {
	var keyboard Keyboard
	for _, b := range adminButtons {
		keyboard = AddKeyboardButton(keyboard, Button{Text: b.text, Data: callback.Encode(callback.Admin, b.wizard)}, 1)
	}
	return keyboard
}

func backButton(menu states.Menu) Button {
	text := BackBtn
	switch menu {
	case states.MenuMain:
		text = BackToMain
	case states.MenuGlobal:
		text = BackToCatalog
	}
	return Button{Text: text, Data: callback.Encode(callback.Back, menu)}
}

func CategoriesKeyboard(categories []model.Category, back states.Menu) Keyboard {
	var keyboard Keyboard
	for _, c := range categories {
		keyboard = AddKeyboardButton(keyboard, Button{Text: c.Name, Data: callback.Encode(callback.Category, c.Id)}, 1)
	}
	return AddKeyboardButton(keyboard, backButton(back), 1)
}

// LeavesKeyboard lets an admin pick the category of a new product.
func LeavesKeyboard(leaves []model.Category) Keyboard {
	var keyboard Keyboard
	for _, c := range leaves {
		keyboard = AddKeyboardButton(keyboard, Button{Text: c.Name, Data: callback.Encode(callback.Pick, c.Id)}, 1)
	}
	return keyboard
}

func ProductKeyboard(p model.Product, withPrices bool) Keyboard {
	keyboard := column(Button{Text: BuyBtn, Data: callback.Encode(callback.Buy, p.Id)})
	if withPrices && p.ParseName != nil {
		keyboard = AddKeyboardButton(keyboard, Button{Text: PricesBtn, Data: callback.Encode(callback.Prices, p.Id)}, 1)
	}
	return keyboard
}

func listButton(l catalog.Listing, sort model.SortKey, action catalog.Action, text string) Button {
	return Button{Text: text, Data: callback.Encode(callback.List, l.Category.Id, sort, action)}
}

func ListingKeyboard(l catalog.Listing, back states.Menu) Keyboard {
	var keyboard Keyboard
	if l.HasPrevious() {
		keyboard = AddKeyboardButton(keyboard, listButton(l, l.Sort, catalog.ActionPrevious, PreviousPageBtn), 2)
	}
	if l.HasNext() {
		keyboard = AddKeyboardButton(keyboard, listButton(l, l.Sort, catalog.ActionNext, NextPageBtn), 2)
	}
	keyboard = append(keyboard, []Button{backButton(back)})
	if back != states.MenuGlobal {
		keyboard = append(keyboard, []Button{backButton(states.MenuGlobal)})
	}
	return append(keyboard, []Button{backButton(states.MenuMain)})
}

func SortKeyboard(l catalog.Listing) Keyboard {
	var keyboard Keyboard
	keyboard = AddKeyboardButton(keyboard, listButton(l, model.SortPopularity, catalog.ActionShow, PopularBtn), 3)
	keyboard = AddKeyboardButton(keyboard, listButton(l, model.SortPriceAsc, catalog.ActionShow, CheapBtn), 3)
	keyboard = AddKeyboardButton(keyboard, listButton(l, model.SortPriceDesc, catalog.ActionShow, ExpensiveBtn), 3)
	return keyboard
}

func NavigationKeyboard() Keyboard {
	return column(backButton(states.MenuGlobal), backButton(states.MenuMain))
}
