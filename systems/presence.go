package systems

import (
	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi/ecs"
	"golang.org/x/image/font"
)

// Cached font face for presence rendering (lazy initialized)
var presenceFontFace font.Face

// PresenceLog writes command feedback and chat to the on-screen log. Every
// line is mirrored to the logger.
type PresenceLog struct {
	ecs *ecs.ECS
	log *logrus.Entry
}

func NewPresenceLog(e *ecs.ECS, log *logrus.Logger) *PresenceLog {
	return &PresenceLog{ecs: e, log: log.WithField("component", "presence")}
}

// Log adds a feedback line.
func (p *PresenceLog) Log(text string) {
	p.log.Info(text)
	p.add(components.PresenceLine{Kind: components.PresenceKindLog, Text: text})
}

// Chat adds a chat line from another user.
func (p *PresenceLog) Chat(from, body string) {
	p.log.WithField("from", from).Info(body)
	p.add(components.PresenceLine{Kind: components.PresenceChat, From: from, Text: body})
}

func (p *PresenceLog) add(line components.PresenceLine) {
	state := getOrCreatePresence(p.ecs)
	line.Timer = cfg.Presence.DisplayDuration
	state.Lines = append(state.Lines, line)
	if over := len(state.Lines) - cfg.Presence.MaxLines; over > 0 {
		state.Lines = state.Lines[over:]
	}
}

// Lines returns the visible lines, oldest first.
func (p *PresenceLog) Lines() []components.PresenceLine {
	return getOrCreatePresence(p.ecs).Lines
}

// UpdatePresenceLog ages lines and drops expired ones.
func UpdatePresenceLog(ecs *ecs.ECS) {
	state := getOrCreatePresence(ecs)
	kept := state.Lines[:0]
	for _, line := range state.Lines {
		line.Timer--
		if line.Timer > 0 {
			kept = append(kept, line)
		}
	}
	state.Lines = kept
}

// DrawPresenceLog renders the log in the bottom left corner, above the
// chat line.
func DrawPresenceLog(ecs *ecs.ECS, screen *ebiten.Image) {
	state := getOrCreatePresence(ecs)
	if len(state.Lines) == 0 {
		return
	}

	if presenceFontFace == nil {
		presenceFontFace = fonts.Regular.Get()
	}

	lineHeight := cfg.Presence.LineHeight
	margin := cfg.Presence.Margin
	height := screen.Bounds().Dy()
	top := height - margin - lineHeight*(len(state.Lines)+2)

	widest := 0
	for _, line := range state.Lines {
		bounds := text.BoundString(presenceFontFace, presenceText(line)) //nolint:staticcheck // TODO: migrate to text/v2
		widest = max(widest, bounds.Dx())
	}

	vector.FillRect(
		screen,
		float32(margin), float32(top),
		float32(widest+margin), float32(lineHeight*len(state.Lines)+margin/2),
		cfg.Presence.BoxColor,
		false,
	)

	for i, line := range state.Lines {
		c := cfg.Presence.TextColor
		if line.Kind == components.PresenceChat {
			c = cfg.Presence.ChatColor
		}
		y := top + lineHeight*(i+1)
		text.Draw(screen, presenceText(line), presenceFontFace, margin+margin/2, y, c)
	}
}

func presenceText(line components.PresenceLine) string {
	if line.Kind == components.PresenceChat {
		return line.From + ": " + line.Text
	}
	return line.Text
}

// getOrCreatePresence returns the singleton PresenceLog component, creating if needed
func getOrCreatePresence(ecs *ecs.ECS) *components.PresenceLogData {
	entry, ok := components.PresenceLog.First(ecs.World)
	if !ok {
		entry = ecs.World.Entry(ecs.World.Create(components.PresenceLog, components.ChatLine))
	}
	return components.PresenceLog.Get(entry)
}
