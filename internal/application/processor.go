package application

import (
	"context"
	"fmt"
	"runtime/debug"

	"SneakerShopBot/internal/application/callback"
	"SneakerShopBot/internal/application/states"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Handler interface {
	Handle(ctx context.Context, ev Event)
}

// Dispatcher runs a fixed pool of workers. Events of one user always land on
// the same worker, so they are handled one at a time and in order, while
// different users are served in parallel.
type Dispatcher struct {
	handler Handler
	queues  []chan Event
}

func NewDispatcher(handler Handler, workers int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	queues := make([]chan Event, workers)
	for i := range queues {
		queues[i] = make(chan Event, 64)
	}
	return &Dispatcher{handler: handler, queues: queues}
}

// Dispatch queues ev for its user's worker. It blocks while that worker is
// busy and its queue is full.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	select {
	case d.queue(ev.UserId) <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run serves the queues until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, queue := range d.queues {
		g.Go(func() error {
			log.Debugf("Worker %d started", i)
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev := <-queue:
					d.handle(ctx, ev)
				}
			}
		})
	}
	return g.Wait()
}

func (d *Dispatcher) handle(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("user_id", ev.UserId).
				Errorf("Panic while handling event: %v\n%s", r, debug.Stack())
		}
	}()
	d.handler.Handle(ctx, ev)
}

func (d *Dispatcher) queue(userId int64) chan Event {
	n := int64(len(d.queues))
	return d.queues[((userId%n)+n)%n]
}

func (k EventKind) String() string {
	switch k {
	case EventCommand:
		return "command"
	case EventCallback:
		return "callback"
	case EventText:
		return "text"
	case EventPhoto:
		return "photo"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Start routes a text or a photo to the step the user's wizard waits for.
func (b *Bot) Start(ctx context.Context, ev Event) {
	session := states.FromContext(ctx)

	if !session.Active() {
		b.reply(ev, UseMenuText)
		return
	}
	if ev.Kind == EventPhoto {
		if session.Step != states.StepPhotos {
			b.reply(ev, ExpectTextText)
			return
		}
		b.ReceivePhoto(ctx, ev)
		return
	}

	switch session.Wizard {
	case states.WizardCreateGlobal:
		b.CreateGlobal(ctx, ev)
	case states.WizardCreateCategory:
		b.CreateCategory(ctx, ev)
	case states.WizardCreateProduct:
		b.CreateProduct(ctx, ev)
	case states.WizardEditGlobal, states.WizardEditCategory:
		b.EditCategory(ctx, ev)
	case states.WizardDeleteGlobal, states.WizardDeleteCategory:
		b.DeleteCategory(ctx, ev)
	case states.WizardEditProductName:
		b.EditProductName(ctx, ev)
	case states.WizardEditMinPrice:
		b.EditMinPrice(ctx, ev)
	case states.WizardEditPhotos, states.WizardAddPhotos:
		b.EditPhotos(ctx, ev)
	case states.WizardDeleteProduct:
		b.DeleteProduct(ctx, ev)
	case states.WizardFindProduct:
		b.FindProduct(ctx, ev)
	default:
		log.WithField("wizard", session.Wizard.String()).Warn("No handler for wizard")
		session.Finish()
		b.reply(ev, UseMenuText)
	}
}

func (b *Bot) ProcessCallback(ctx context.Context, ev Event) {
	data, err := callback.Parse(ev.Data)
	if err != nil {
		log.Printf("Error parsing callback %q: %v", ev.Data, err)
		b.answer(ev, OutdatedText)
		return
	}

	switch data.Action {
	case callback.Catalog:
		b.ShowCatalog(ctx, ev)
	case callback.Find:
		b.StartFind(ctx, ev)
	case callback.Tracking:
		b.Tracking(ev)
	case callback.Question:
		b.Question(ev)
	case callback.Category:
		b.ShowCategory(ctx, ev, data)
	case callback.List:
		b.ShowListing(ctx, ev, data)
	case callback.Back:
		b.GoBack(ctx, ev, data)
	case callback.Buy:
		b.BuyProduct(ctx, ev, data)
	case callback.Prices:
		b.SizePrices(ctx, ev, data)
	case callback.Admin:
		b.StartWizard(ctx, ev, data)
	case callback.Pick:
		b.PickCategory(ctx, ev, data)
	default:
		b.answer(ev, OutdatedText)
	}
}
