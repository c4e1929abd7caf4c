package netcomponents

import "github.com/yohamta/donburi"

type NetMediaData struct {
	URL     string
	Creator string // session id
	IsPres  bool
	X, Y, Z float64
	Yaw     float64
}

var NetMedia = donburi.NewComponentType[NetMediaData]()

// LerpNetMedia interpolates the media position
func LerpNetMedia(from, to NetMediaData, t float64) *NetMediaData {
	return &NetMediaData{
		URL:     to.URL,
		Creator: to.Creator,
		IsPres:  to.IsPres,
		X:       from.X + (to.X-from.X)*t,
		Y:       from.Y + (to.Y-from.Y)*t,
		Z:       from.Z + (to.Z-from.Z)*t,
		Yaw:     LerpAngle(from.Yaw, to.Yaw, t),
	}
}
