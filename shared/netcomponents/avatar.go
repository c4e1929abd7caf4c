package netcomponents

import (
	"math"

	"github.com/yohamta/donburi"
)

type NetAvatarData struct {
	Name      string
	SessionID string
	X, Y, Z   float64
	Yaw       float64
	Scale     float64
}

var NetAvatar = donburi.NewComponentType[NetAvatarData]()

// LerpNetAvatar interpolates position and scale, and yaw along the
// shortest arc
func LerpNetAvatar(from, to NetAvatarData, t float64) *NetAvatarData {
	return &NetAvatarData{
		Name:      to.Name,
		SessionID: to.SessionID,
		X:         from.X + (to.X-from.X)*t,
		Y:         from.Y + (to.Y-from.Y)*t,
		Z:         from.Z + (to.Z-from.Z)*t,
		Yaw:       LerpAngle(from.Yaw, to.Yaw, t),
		Scale:     from.Scale + (to.Scale-from.Scale)*t,
	}
}

// LerpAngle interpolates between two angles in radians the short way round.
func LerpAngle(from, to, t float64) float64 {
	d := math.Remainder(to-from, 2*math.Pi)
	return from + d*t
}
