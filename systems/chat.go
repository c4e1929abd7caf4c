package systems

import (
	"errors"
	"strings"

	"github.com/MTO-Safety/hubs/command"
	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi/ecs"
)

// Dispatcher consumes a submitted chat line.
type Dispatcher interface {
	Dispatch(line string) error
}

// Reusable rune buffer for typed characters
var typed []rune

// NewChatSystem runs the chat line. While it is open the avatar ignores
// movement input.
func NewChatSystem(d Dispatcher, log *logrus.Logger) func(*ecs.ECS) {
	entry := log.WithField("component", "chat")
	return func(e *ecs.ECS) {
		input := getOrCreateInput(e)
		chat := getOrCreateChatLine(e)

		if !chat.Open {
			if !GetAction(input, cfg.ActionOpenChat).JustPressed {
				return
			}
			chat.Open = true
			chat.Buffer = appendTyped(chat.Buffer[:0])
			input.Suspended = true
			return
		}

		if GetAction(input, cfg.ActionCloseChat).JustPressed {
			closeChat(input, chat)
			return
		}

		chat.Buffer = appendTyped(chat.Buffer)

		if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(chat.Buffer) > 0 {
			chat.Buffer = chat.Buffer[:len(chat.Buffer)-1]
		}

		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
			line := strings.TrimSpace(string(chat.Buffer))
			closeChat(input, chat)
			if line == "" {
				return
			}
			if err := d.Dispatch(line); err != nil {
				// User errors were already shown in the presence log
				var ue *command.UserError
				if errors.As(err, &ue) {
					entry.WithError(err).Debug("command rejected")
				} else {
					entry.WithError(err).Warn("Could not handle chat line")
				}
			}
		}
	}
}

// appendTyped adds this frame's printable characters to buf.
func appendTyped(buf []rune) []rune {
	typed = ebiten.AppendInputChars(typed[:0])
	return append(buf, typed...)
}

// closeChat hands the keyboard back. The open action is marked held so the
// key that submitted the line does not reopen it next frame.
func closeChat(input *components.InputData, chat *components.ChatLineData) {
	chat.Open = false
	chat.Buffer = chat.Buffer[:0]
	input.Suspended = false
	input.Current[cfg.ActionOpenChat] = true
}

// DrawChatLine renders the chat input box along the bottom edge.
func DrawChatLine(ecs *ecs.ECS, screen *ebiten.Image) {
	chat := getOrCreateChatLine(ecs)
	if !chat.Open {
		return
	}

	margin := cfg.Presence.Margin
	lineHeight := cfg.Presence.LineHeight
	width := screen.Bounds().Dx()
	top := screen.Bounds().Dy() - margin - lineHeight - margin/2

	vector.FillRect(
		screen,
		float32(margin), float32(top),
		float32(width-2*margin), float32(lineHeight+margin/2),
		cfg.Presence.BoxColor,
		false,
	)
	text.Draw(screen, "> "+string(chat.Buffer)+"_", fonts.Regular.Get(), margin+margin/2, top+lineHeight, cfg.Presence.TextColor)
}

// getOrCreateChatLine returns the singleton ChatLine component, creating if needed
func getOrCreateChatLine(ecs *ecs.ECS) *components.ChatLineData {
	entry, ok := components.ChatLine.First(ecs.World)
	if !ok {
		entry = ecs.World.Entry(ecs.World.Create(components.PresenceLog, components.ChatLine))
	}
	return components.ChatLine.Get(entry)
}
