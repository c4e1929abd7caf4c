package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is a partial overlay for the global configuration. Only fields
// present in the YAML file are applied.
type Tuning struct {
	Locomotion struct {
		BaseSpeed           *float64 `yaml:"base_speed"`
		BoostMultiplier     *float64 `yaml:"boost_multiplier"`
		SmoothingDesktop    *float64 `yaml:"smoothing_desktop"`
		SnapRotationDegrees *float64 `yaml:"snap_rotation_degrees"`
	} `yaml:"locomotion"`

	Waypoint struct {
		AverageSpeed         *float64 `yaml:"average_speed"`
		AllowLerpInImmersive *bool    `yaml:"allow_lerp_in_immersive"`
	} `yaml:"waypoint"`

	Desk struct {
		MinHeight       *float64 `yaml:"min_height"`
		MaxHeight       *float64 `yaml:"max_height"`
		Step            *float64 `yaml:"step"`
		GestureTicks    *int     `yaml:"gesture_ticks"`
		MaxStepsPerTick *int     `yaml:"max_steps_per_tick"`
	} `yaml:"desk"`

	Commands struct {
		ScaleLadder []float64 `yaml:"scale_ladder"`
		DuckURL     *string   `yaml:"duck_url"`
	} `yaml:"commands"`

	Net struct {
		StatsAddr    *string  `yaml:"stats_addr"`
		OfflinePerms []string `yaml:"offline_permissions"`
	} `yaml:"net"`
}

// LoadTuning reads a YAML overlay and applies it to the global
// configuration. A missing file leaves the defaults in place.
func LoadTuning(path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("tuning %s: %w", path, err)
	}
	t, err := ParseTuning(raw)
	if err != nil {
		return fmt.Errorf("tuning %s: %w", path, err)
	}
	t.Apply()
	return nil
}

// ParseTuning decodes a YAML overlay.
func ParseTuning(raw []byte) (Tuning, error) {
	var t Tuning
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, err
	}
	if t.Desk.MinHeight != nil && t.Desk.MaxHeight != nil && *t.Desk.MinHeight >= *t.Desk.MaxHeight {
		return t, fmt.Errorf("desk min_height %.3f must be below max_height %.3f", *t.Desk.MinHeight, *t.Desk.MaxHeight)
	}
	return t, nil
}

// Apply writes every non-nil field onto the globals.
func (t Tuning) Apply() {
	setFloat(&Locomotion.BaseSpeed, t.Locomotion.BaseSpeed)
	setFloat(&Locomotion.BoostMultiplier, t.Locomotion.BoostMultiplier)
	setFloat(&Locomotion.SmoothingDesktop, t.Locomotion.SmoothingDesktop)
	setFloat(&Locomotion.SnapRotationDegrees, t.Locomotion.SnapRotationDegrees)

	setFloat(&Waypoint.AverageSpeed, t.Waypoint.AverageSpeed)
	if t.Waypoint.AllowLerpInImmersive != nil {
		Waypoint.AllowLerpInImmersive = *t.Waypoint.AllowLerpInImmersive
	}

	setFloat(&Desk.MinHeight, t.Desk.MinHeight)
	setFloat(&Desk.MaxHeight, t.Desk.MaxHeight)
	setFloat(&Desk.Step, t.Desk.Step)
	if t.Desk.GestureTicks != nil {
		Desk.GestureTicks = *t.Desk.GestureTicks
	}
	if t.Desk.MaxStepsPerTick != nil {
		Desk.MaxStepsPerTick = *t.Desk.MaxStepsPerTick
	}

	if len(t.Commands.ScaleLadder) > 0 {
		Commands.ScaleLadder = t.Commands.ScaleLadder
	}
	if t.Commands.DuckURL != nil {
		Commands.DuckURL = *t.Commands.DuckURL
	}

	if t.Net.StatsAddr != nil {
		Net.StatsAddr = *t.Net.StatsAddr
	}
	if t.Net.OfflinePerms != nil {
		Net.OfflinePerms = t.Net.OfflinePerms
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
