package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"SneakerShopBot/internal/application/states"
	"SneakerShopBot/internal/model"
	"SneakerShopBot/internal/storage"
)

type levelTexts struct {
	notFound string
	newName  string
	renamed  string
	deleted  string
	missing  string
}

var categoryTexts = map[model.Level]levelTexts{
	model.LevelGlobal: {
		notFound: "Глобальная категория не найдена.",
		newName:  "Введите новое название глобальной категории:",
		renamed:  "Для глобальной категории %s название изменено на %s.",
		deleted:  "Глобальная категория '%s' и все связанные подкатегории и товары успешно удалены.",
		missing:  "Глобальная категория с таким названием не найдена.",
	},
	model.LevelSub: {
		notFound: "Категория не найдена.",
		newName:  "Введите новое название категории:",
		renamed:  "Для категории %s название изменено на %s.",
		deleted:  "Категория '%s' и все связанные подкатегории и товары успешно удалены.",
		missing:  "Категория с таким названием не найдена.",
	},
}

func levelOf(w states.Wizard) model.Level {
	switch w {
	case states.WizardEditGlobal, states.WizardDeleteGlobal:
		return model.LevelGlobal
	default:
		return model.LevelSub
	}
}

// readName returns the trimmed text of ev, re-prompting when it is not a
// usable name.
func (b *Bot) readName(ev Event) (string, bool) {
	name := strings.TrimSpace(ev.Text)
	if !b.validName(name) {
		b.reply(ev, InvalidNameText)
		return "", false
	}
	return name, true
}

func (b *Bot) CreateGlobal(ctx context.Context, ev Event) {
	name, ok := b.readName(ev)
	if !ok {
		return
	}

	_, err := b.store.Categories.CreateGlobal(ctx, name)
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		b.abandon(ctx, ev, "Такая категория уже существует.")
	case err != nil:
		b.storeFailed(ctx, ev, err)
	default:
		b.done(ctx, ev, fmt.Sprintf("Категория '%s' успешно создана.", name))
	}
}

func (b *Bot) CreateCategory(ctx context.Context, ev Event) {
	session := states.FromContext(ctx)

	name, ok := b.readName(ev)
	if !ok {
		return
	}

	if session.Step == states.StepName {
		session.Draft.Name = name
		session.Advance(states.StepParentName)
		b.reply(ev, "Введите название родительской категории (может быть глобальной категорией или подкатегорией):")
		return
	}

	_, err := b.store.Categories.CreateCategory(ctx, session.Draft.Name, name)
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		b.abandon(ctx, ev, "Такая категория уже существует.")
	case errors.Is(err, storage.ErrParentNotFound):
		b.abandon(ctx, ev, fmt.Sprintf("Родительская категория '%s' не найдена.", name))
	case errors.Is(err, storage.ErrHasProducts):
		b.abandon(ctx, ev, fmt.Sprintf("В категории '%s' есть товары, подкатегорию в ней создать нельзя.", name))
	case err != nil:
		b.storeFailed(ctx, ev, err)
	default:
		b.done(ctx, ev, fmt.Sprintf("Категория '%s' успешно создана под родительской категорией '%s'.", session.Draft.Name, name))
	}
}

// EditCategory renames a global category or a category. Children and
// products follow the node since they refer to it by id.
func (b *Bot) EditCategory(ctx context.Context, ev Event) {
	session := states.FromContext(ctx)
	level := levelOf(session.Wizard)
	texts := categoryTexts[level]

	name, ok := b.readName(ev)
	if !ok {
		return
	}

	if session.Step == states.StepName {
		_, err := b.store.Categories.GetByName(ctx, level, name)
		if errors.Is(err, storage.ErrNotFound) {
			b.abandon(ctx, ev, texts.notFound)
			return
		}
		if err != nil {
			b.storeFailed(ctx, ev, err)
			return
		}
		session.Draft.Name = name
		session.Advance(states.StepNewName)
		b.reply(ev, texts.newName)
		return
	}

	oldName := session.Draft.Name
	err := b.store.Categories.Rename(ctx, level, oldName, name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.abandon(ctx, ev, texts.notFound)
	case errors.Is(err, storage.ErrAlreadyExists):
		b.abandon(ctx, ev, fmt.Sprintf("Категория с названием '%s' уже существует.", name))
	case err != nil:
		b.storeFailed(ctx, ev, err)
	default:
		b.done(ctx, ev, fmt.Sprintf(texts.renamed, oldName, name))
	}
}

// DeleteCategory removes the named node with its whole subtree.
func (b *Bot) DeleteCategory(ctx context.Context, ev Event) {
	session := states.FromContext(ctx)
	texts := categoryTexts[levelOf(session.Wizard)]

	name, ok := b.readName(ev)
	if !ok {
		return
	}

	err := b.store.Categories.DeleteSubtree(ctx, levelOf(session.Wizard), name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.abandon(ctx, ev, texts.missing)
	case err != nil:
		b.storeFailed(ctx, ev, err)
	default:
		b.done(ctx, ev, fmt.Sprintf(texts.deleted, name))
	}
}
