package application

import (
	"context"

	"SneakerShopBot/internal/model"

	log "github.com/sirupsen/logrus"
)

// register stores the user on first contact. Users already stored by this
// process are not written again.
func (b *Bot) register(ctx context.Context, ev Event) {
	if _, ok := b.known.Load(ev.UserId); ok {
		return
	}

	user := model.User{
		UserId:   ev.UserId,
		Username: ev.Username,
	}
	if err := b.store.Users.Register(ctx, user); err != nil {
		log.Printf("Error registering user: %v", err)
		return
	}
	b.known.Store(ev.UserId, struct{}{})
}

func (b *Bot) isAdmin(userId int64) bool {
	return b.cfg.IsAdmin(userId)
}
