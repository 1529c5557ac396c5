package application

import (
	"context"

	"SneakerShopBot/internal/application/callback"
	"SneakerShopBot/internal/application/states"

	log "github.com/sirupsen/logrus"
)

// wizardEntry is the first step of an admin wizard and its prompt.
type wizardEntry struct {
	step   states.Step
	prompt string
}

var wizardEntries = map[states.Wizard]wizardEntry{
	states.WizardCreateGlobal:    {states.StepName, "Введите название новой глобальной категории:"},
	states.WizardCreateCategory:  {states.StepName, "Введите название новой категории:"},
	states.WizardCreateProduct:   {states.StepName, "Введите название товара:"},
	states.WizardEditGlobal:      {states.StepName, "Введите название глобальной категории:"},
	states.WizardEditCategory:    {states.StepName, "Введите название категории:"},
	states.WizardEditProductName: {states.StepProductId, "Введите код товара:"},
	states.WizardEditMinPrice:    {states.StepProductId, "Введите код товара:"},
	states.WizardEditPhotos:      {states.StepProductId, "Введите код товара:"},
	states.WizardAddPhotos:       {states.StepProductId, "Введите код товара:"},
	states.WizardDeleteGlobal:    {states.StepName, "Введите название глобальной категории для удаления:"},
	states.WizardDeleteCategory:  {states.StepName, "Введите название категории для удаления:"},
	states.WizardDeleteProduct:   {states.StepProductId, "Введите код товара для удаления:"},
}

// StartWizard enters the admin wizard named by the pressed button. The admin
// list is checked again because buttons outlive the panel they came from.
func (b *Bot) StartWizard(ctx context.Context, ev Event, data callback.Data) {
	if !b.isAdmin(ev.UserId) {
		log.WithField("user_id", ev.UserId).Warn("Admin wizard requested by a non-admin")
		b.answer(ev, "")
		return
	}

	wizard, ok := states.ParseWizard(data.Arg(0))
	entry, known := wizardEntries[wizard]
	if !ok || !known {
		b.answer(ev, OutdatedText)
		return
	}

	if err := b.deleteMessages(ev.ChatId, ev.MessageId); err != nil {
		log.Printf("Error deleting admin panel: %v", err)
	}
	states.FromContext(ctx).Start(wizard, entry.step)
	b.send(ev.ChatId, OutMessage{Text: entry.prompt})
	b.answer(ev, "")
}

// done finishes the wizard and shows the admin panel again.
func (b *Bot) done(ctx context.Context, ev Event, text string) {
	states.FromContext(ctx).Finish()
	b.reply(ev, text)
	b.send(ev.ChatId, OutMessage{Text: ChooseOptionText, Keyboard: AdminKeyboard()})
}

// abandon tells the user why the wizard stops and finishes it.
func (b *Bot) abandon(ctx context.Context, ev Event, text string) {
	states.FromContext(ctx).Finish()
	b.reply(ev, text)
}
