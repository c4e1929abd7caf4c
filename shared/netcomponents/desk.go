package netcomponents

import "github.com/yohamta/donburi"

// NetDeskData is a desk's replicated height and owner.
type NetDeskData struct {
	Name   string
	Height float64
	Owner  string // session id, empty when unowned
}

var NetDesk = donburi.NewComponentType[NetDeskData]()

// LerpNetDesk interpolates the desk height
func LerpNetDesk(from, to NetDeskData, t float64) *NetDeskData {
	return &NetDeskData{
		Name:   to.Name,
		Height: from.Height + (to.Height-from.Height)*t,
		Owner:  to.Owner,
	}
}
