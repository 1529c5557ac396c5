package states

import (
	"SneakerShopBot/internal/model"
)

// Draft is what the active wizard has collected so far.
type Draft struct {
	Name       string
	ParentName string
	NewName    string
	MinPrice   *float64
	CategoryId int64
	ParseName  *string
	ProductId  int64

	PhotoMode      PhotoMode
	PhotosLeft     int
	Photos         [][]byte
	PhotosReplaced bool
	PhotosAdded    int
}

// Browse remembers where the user is in the catalog and which messages the
// current view consists of.
type Browse struct {
	Previous       Menu
	GlobalCategory int64
	Subcategory    int64
	Category       int64
	Sort           model.SortKey
	Page           int
	MessageIds     []int
}

type Session struct {
	UserId int64
	Wizard Wizard
	Step   Step
	Draft  Draft
	Browse Browse
}

func newSession(userId int64) *Session {
	return &Session{UserId: userId, Browse: Browse{Previous: MenuMain, Page: 1}}
}

func (s *Session) Active() bool {
	return s.Wizard != WizardNone
}

// Is reports whether the session waits for the given step of the given wizard.
func (s *Session) Is(w Wizard, step Step) bool {
	return s.Wizard == w && s.Step == step
}

// Start finishes whatever wizard was running and enters w at step.
func (s *Session) Start(w Wizard, step Step) {
	s.Finish()
	s.Wizard = w
	s.Step = step
}

func (s *Session) Advance(step Step) {
	s.Step = step
}

func (s *Session) Finish() {
	s.Wizard = WizardNone
	s.Step = StepNone
	s.Draft = Draft{}
}

// Reset drops the wizard and the browse position. Message ids are kept so
// the caller can still retract the displayed view.
func (s *Session) Reset() {
	s.Finish()
	ids := s.Browse.MessageIds
	s.Browse = Browse{Previous: MenuMain, Page: 1, MessageIds: ids}
}

// TakeMessages returns the ids of the displayed view and forgets them.
func (s *Session) TakeMessages() []int {
	ids := s.Browse.MessageIds
	s.Browse.MessageIds = nil
	return ids
}

func (s *Session) Remember(ids ...int) {
	s.Browse.MessageIds = append(s.Browse.MessageIds, ids...)
}
