package components

import "github.com/yohamta/donburi"

// PresenceKind tells the overlay how to color a line.
type PresenceKind int

const (
	PresenceKindLog PresenceKind = iota
	PresenceChat
)

// PresenceLine is one entry in the presence log.
type PresenceLine struct {
	Kind  PresenceKind
	From  string
	Text  string
	Timer int // frames left on screen
}

// PresenceLogData is the scrolling log of chat and command feedback
// (singleton).
type PresenceLogData struct {
	Lines []PresenceLine
}

var PresenceLog = donburi.NewComponentType[PresenceLogData]()

// ChatLineData is the chat input line (singleton).
type ChatLineData struct {
	Open   bool
	Buffer []rune
}

var ChatLine = donburi.NewComponentType[ChatLineData]()
