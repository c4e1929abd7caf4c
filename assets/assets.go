// Package assets embeds the room maps and synthesizes the audio cues.
package assets

import (
	"embed"
	"fmt"

	"github.com/MTO-Safety/hubs/shared/leveldata"
)

//go:embed rooms
var roomFS embed.FS

const roomDir = "rooms"

// LoadRoom parses an embedded room by name.
func LoadRoom(name string) (*leveldata.RoomData, error) {
	data, err := leveldata.LoadRoom(roomFS, fmt.Sprintf("%s/%s.tmx", roomDir, name))
	if err != nil {
		return nil, fmt.Errorf("room %q: %w", name, err)
	}
	return data, nil
}

// Rooms lists the embedded room names.
func Rooms() ([]string, error) {
	return leveldata.ListRooms(roomFS, roomDir)
}
