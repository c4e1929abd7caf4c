package config

import (
	"os"
	"path/filepath"
	"testing"
)

// restore snapshots the globals a tuning overlay can touch.
func restore(t *testing.T) {
	t.Helper()
	loco, wp, desk, cmds, net := Locomotion, Waypoint, Desk, Commands, Net
	t.Cleanup(func() {
		Locomotion, Waypoint, Desk, Commands, Net = loco, wp, desk, cmds, net
	})
}

func TestParseTuningAppliesOnlyPresentFields(t *testing.T) {
	restore(t)
	base := Locomotion.BoostMultiplier

	tn, err := ParseTuning([]byte(`
locomotion:
  base_speed: 4.5
desk:
  step: 0.001
commands:
  scale_ladder: [0.5, 1, 2]
net:
  offline_permissions: [fly]
`))
	if err != nil {
		t.Fatalf("ParseTuning: %v", err)
	}
	tn.Apply()

	if Locomotion.BaseSpeed != 4.5 {
		t.Errorf("BaseSpeed = %v, want 4.5", Locomotion.BaseSpeed)
	}
	if Locomotion.BoostMultiplier != base {
		t.Errorf("BoostMultiplier changed to %v", Locomotion.BoostMultiplier)
	}
	if Desk.Step != 0.001 {
		t.Errorf("Desk.Step = %v, want 0.001", Desk.Step)
	}
	if len(Commands.ScaleLadder) != 3 || Commands.ScaleLadder[2] != 2 {
		t.Errorf("ScaleLadder = %v", Commands.ScaleLadder)
	}
	if len(Net.OfflinePerms) != 1 || Net.OfflinePerms[0] != "fly" {
		t.Errorf("OfflinePerms = %v", Net.OfflinePerms)
	}
}

func TestParseTuningRejectsInvertedDeskBounds(t *testing.T) {
	_, err := ParseTuning([]byte("desk:\n  min_height: 1.5\n  max_height: 1.0\n"))
	if err == nil {
		t.Fatal("expected an error for min_height above max_height")
	}
}

func TestParseTuningRejectsBadYAML(t *testing.T) {
	if _, err := ParseTuning([]byte("locomotion: [")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadTuningMissingFileKeepsDefaults(t *testing.T) {
	restore(t)
	speed := Locomotion.BaseSpeed
	if err := LoadTuning(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if Locomotion.BaseSpeed != speed {
		t.Fatalf("BaseSpeed changed to %v", Locomotion.BaseSpeed)
	}
}

func TestLoadTuningFromFile(t *testing.T) {
	restore(t)
	path := filepath.Join(t.TempDir(), "hubs.yaml")
	if err := os.WriteFile(path, []byte("waypoint:\n  average_speed: 20\n  allow_lerp_in_immersive: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadTuning(path); err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if Waypoint.AverageSpeed != 20 || !Waypoint.AllowLerpInImmersive {
		t.Fatalf("Waypoint = %+v", Waypoint)
	}
}
