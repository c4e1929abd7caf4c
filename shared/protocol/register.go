package protocol

import (
	"github.com/MTO-Safety/hubs/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetDesk   uint = 10
	SyncIDNetAvatar uint = 11
	SyncIDNetMedia  uint = 12
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetDesk   uint8 = 10
	InterpIDNetAvatar uint8 = 11
	InterpIDNetMedia  uint8 = 12
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called before any network operations.
func RegisterComponents() error {
	if err := esync.RegisterComponent(
		SyncIDNetDesk,
		netcomponents.NetDeskData{},
		netcomponents.NetDesk,
		esync.WithInterpFn(InterpIDNetDesk, netcomponents.LerpNetDesk),
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetAvatar,
		netcomponents.NetAvatarData{},
		netcomponents.NetAvatar,
		esync.WithInterpFn(InterpIDNetAvatar, netcomponents.LerpNetAvatar),
	); err != nil {
		return err
	}

	return esync.RegisterComponent(
		SyncIDNetMedia,
		netcomponents.NetMediaData{},
		netcomponents.NetMedia,
		esync.WithInterpFn(InterpIDNetMedia, netcomponents.LerpNetMedia),
	)
}
