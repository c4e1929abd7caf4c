package components

import "github.com/yohamta/donburi"

// DeskData links a height-adjustable desk to its invisible collision proxy.
type DeskData struct {
	ProxyName    string
	Proxy        donburi.Entity
	HasProxy     bool
	HeightOffset float64 // accumulated adjustment since spawn
}

var Desk = donburi.NewComponentType[DeskData]()

// InteractableData holds the capabilities a user has over an object.
type InteractableData struct {
	Draggable         bool
	HoverableVisuals  bool
	RemoteHoverTarget bool
}

var Interactable = donburi.NewComponentType[InteractableData]()
