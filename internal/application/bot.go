// Package application is the transport-agnostic core of the shop bot: it
// routes events by session state, runs the admin wizards and renders the
// catalog.
package application

import (
	"context"
	"sync"
	"time"

	"SneakerShopBot/internal/application/catalog"
	"SneakerShopBot/internal/application/states"
	"SneakerShopBot/internal/config"
	"SneakerShopBot/internal/model"
	"SneakerShopBot/internal/storage"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

// PriceLookup fetches live prices by size for a product.
type PriceLookup interface {
	LookupPrices(ctx context.Context, name string, expectedMin float64) ([]model.SizePrice, error)
}

type Bot struct {
	sender   Sender
	store    storage.Storage
	nav      *catalog.Navigator
	sessions *states.Manager
	prices   PriceLookup
	validate *validator.Validate
	cfg      config.BotConfig

	known sync.Map
}

// New wires the bot. prices may be nil when the live lookup is disabled.
func New(sender Sender, store storage.Storage, sessions *states.Manager, prices PriceLookup, cfg config.BotConfig) *Bot {
	if cfg.HandleTimeout <= 0 {
		cfg.HandleTimeout = 30 * time.Second
	}
	return &Bot{
		sender:   sender,
		store:    store,
		nav:      catalog.NewNavigator(store.Categories, store.Products),
		sessions: sessions,
		prices:   prices,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (b *Bot) Handle(ctx context.Context, ev Event) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.HandleTimeout)
	defer cancel()

	b.register(ctx, ev)

	session := b.sessions.Get(ev.UserId)
	ctx = states.WithSession(ctx, session)

	log.WithFields(log.Fields{
		"user_id": ev.UserId,
		"kind":    ev.Kind.String(),
		"wizard":  session.Wizard.String(),
	}).Debug("Handling event")

	switch ev.Kind {
	case EventCommand:
		b.CommandHandler(ctx, ev)
	case EventCallback:
		b.ProcessCallback(ctx, ev)
	case EventText, EventPhoto:
		b.Start(ctx, ev)
	}
}
