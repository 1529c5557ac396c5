package application

import "context"

type EventKind int

const (
	EventCommand EventKind = iota
	EventCallback
	EventText
	EventPhoto
)

// Event is one inbound update, already stripped of transport details.
type Event struct {
	Kind     EventKind
	UserId   int64
	ChatId   int64
	Username string

	// MessageId is the user's message, or for callbacks the message
	// carrying the pressed button.
	MessageId int

	Command     string
	Data        string
	CallbackId  string
	Text        string
	PhotoFileId string
}

type Button struct {
	Text string
	Data string
	URL  string
}

type Keyboard [][]Button

type OutMessage struct {
	Text     string
	Keyboard Keyboard
	Markdown bool
	ReplyTo  int
}

// Sender is what the bot needs from the chat transport.
type Sender interface {
	SendMessage(chatId int64, msg OutMessage) (int, error)
	SendMediaGroup(chatId int64, photos [][]byte) ([]int, error)
	DeleteMessage(chatId int64, messageId int) error
	AnswerCallback(callbackId, text string) error
	DownloadFile(ctx context.Context, fileId string) ([]byte, error)
}
