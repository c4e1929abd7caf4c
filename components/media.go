package components

import "github.com/yohamta/donburi"

// MediaData is a media frame: an image, model or presentation screen.
type MediaData struct {
	URL     string
	Creator string
	IsPres  bool
}

var Media = donburi.NewComponentType[MediaData]()
