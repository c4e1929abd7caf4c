package systems

import "github.com/MTO-Safety/hubs/network"

// Session answers whether the user is in the room. It is shared by the
// controller and the command dispatcher.
type Session struct {
	Room          network.Room
	Ghost         bool
	ImmersiveMode bool
	MobileMode    bool
}

func (s *Session) Entered() bool   { return s.Room.Joined() }
func (s *Session) IsGhost() bool   { return s.Ghost }
func (s *Session) Immersive() bool { return s.ImmersiveMode }
func (s *Session) Mobile() bool    { return s.MobileMode }
