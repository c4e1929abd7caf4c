package systems

import (
	"github.com/MTO-Safety/hubs/desk"
	"github.com/yohamta/donburi/ecs"
)

// NewDeskSystem ticks the desk machine once per frame.
func NewDeskSystem(m *desk.Machine) func(*ecs.ECS) {
	return func(_ *ecs.ECS) {
		m.Tick()
	}
}
