package factory

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"

	"github.com/MTO-Safety/hubs/assets"
	"github.com/MTO-Safety/hubs/components"
	cfg "github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/posemath"
	"github.com/MTO-Safety/hubs/tags"
)

func TestCreateRoomOffice(t *testing.T) {
	data, err := assets.LoadRoom("office")
	if err != nil {
		t.Fatalf("LoadRoom: %v", err)
	}
	w := donburi.NewWorld()
	entry, err := CreateRoom(w, data, "Office")
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	room := components.Room.Get(entry)
	zone, ok := room.Mesh.Zone(cfg.Locomotion.NavZone)
	if !ok {
		t.Fatal("nav zone missing")
	}
	// The stage is a step too high to walk onto
	if len(zone.Nodes) != 4 || len(zone.Groups) != 2 {
		t.Fatalf("nodes = %d groups = %d, want 4 and 2", len(zone.Nodes), len(zone.Groups))
	}

	desks := 0
	tags.Desk.Each(w, func(e *donburi.Entry) {
		desks++
		if components.Object.Get(e).NetID != ObjectNetID(data.Name, components.Object.Get(e).Name) {
			t.Errorf("desk %s has an unstable id", components.Object.Get(e).Name)
		}
		if !components.Interactable.Get(e).Draggable {
			t.Errorf("desks spawn draggable until the desk machine strips them")
		}
	})
	if desks != 4 {
		t.Fatalf("desks = %d, want 4", desks)
	}

	stage := false
	tags.Waypoint.Each(w, func(e *donburi.Entry) {
		wp := components.Waypoint.Get(e)
		if wp.Name != "stage" {
			return
		}
		stage = true
		if !posemath.Position(wp.Transform).ApproxEqual(mgl64.Vec3{14, 1.2, 10.5}) {
			t.Errorf("stage at %v", posemath.Position(wp.Transform))
		}
		if !wp.IsInstant || !wp.Flags.WillDisableMotion || !wp.Flags.WillMaintainInitialOrientation {
			t.Errorf("stage flags = %+v instant=%v", wp.Flags, wp.IsInstant)
		}
	})
	if !stage {
		t.Fatal("stage waypoint missing")
	}
}

func TestObjectNetIDIsRoomScoped(t *testing.T) {
	if ObjectNetID("office", "desk_a") != ObjectNetID("office", "desk_a") {
		t.Fatal("id is not deterministic")
	}
	if ObjectNetID("office", "desk_a") == ObjectNetID("lab", "desk_a") {
		t.Fatal("same name in different rooms should not collide")
	}
}
