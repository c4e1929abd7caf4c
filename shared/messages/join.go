package messages

import "github.com/leap-fish/necs/esync"

// JoinRequest is sent by a client after connecting to ask to enter a room.
type JoinRequest struct {
	Version     string
	DisplayName string
	Room        string
}

// JoinAccepted is sent by the room when a client's join request is accepted.
type JoinAccepted struct {
	NetworkID   esync.NetworkId // the client's avatar
	SessionID   string
	Permissions []string
	Room        string
	HubName     string
	SceneURL    string
	TickRate    int
}

// JoinRejected is sent by the room when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}

// LeaveRequest tells the room the client is leaving.
type LeaveRequest struct {
	SessionID string
}
