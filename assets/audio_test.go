package assets

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/MTO-Safety/hubs/config"
)

func TestRenderPCMLength(t *testing.T) {
	rate := beep.SampleRate(44100)
	tone := config.Tone{StartHz: 440, EndHz: 880, Duration: 100 * time.Millisecond}
	pcm := RenderPCM(Sweep(tone, rate), rate.N(tone.Duration))
	if want := rate.N(tone.Duration) * 4; len(pcm) != want {
		t.Fatalf("len = %d, want %d", len(pcm), want)
	}
	if got := ToneLength(rate, pcm); got != tone.Duration {
		t.Fatalf("length = %v, want %v", got, tone.Duration)
	}
}

func TestRenderPCMIsNotSilent(t *testing.T) {
	rate := beep.SampleRate(44100)
	tone := config.Sound.Tones[config.SoundQuack]
	pcm := RenderPCM(Sweep(tone, rate), rate.N(tone.Duration))
	for _, b := range pcm {
		if b != 0 {
			return
		}
	}
	t.Fatalf("rendered tone is silent")
}

func TestOfficeRoomLoads(t *testing.T) {
	room, err := LoadRoom("office")
	if err != nil {
		t.Fatalf("LoadRoom: %v", err)
	}
	if room.PixelsPerMeter != 32 {
		t.Fatalf("ppm = %v", room.PixelsPerMeter)
	}
	if len(room.NavRects) != 4 || len(room.Desks) != 4 || len(room.Waypoints) != 4 {
		t.Fatalf("room = %d nav, %d desks, %d waypoints", len(room.NavRects), len(room.Desks), len(room.Waypoints))
	}
	if !room.Waypoints[0].IsSpawn || room.Waypoints[0].Name != "entrance" {
		t.Fatalf("first waypoint = %+v, want the spawn", room.Waypoints[0])
	}
	if room.Desks[0].ObjectType != config.Desk.ObjectType || room.Desks[0].Proxy != "desk_a_collider" {
		t.Fatalf("desk_a = %+v", room.Desks[0])
	}
}

func TestRoomsLists(t *testing.T) {
	names, err := Rooms()
	if err != nil || len(names) != 1 || names[0] != "office" {
		t.Fatalf("Rooms = %v, %v", names, err)
	}
}
