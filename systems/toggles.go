package systems

import (
	"errors"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"

	"github.com/MTO-Safety/hubs/components"
)

// Toggles flips the nav mesh overlay and the runtime stats viewer.
type Toggles struct {
	world donburi.World
	addr  string
	log   *logrus.Entry
	stats *statsview.ViewManager
}

func NewToggles(w donburi.World, statsAddr string, log *logrus.Logger) *Toggles {
	return &Toggles{world: w, addr: statsAddr, log: log.WithField("component", "toggles")}
}

// ToggleNavDebug shows or hides the nav mesh overlay.
func (t *Toggles) ToggleNavDebug() bool {
	entry, ok := components.Room.First(t.world)
	if !ok {
		return false
	}
	room := components.Room.Get(entry)
	room.NavDebug = !room.NavDebug
	return room.NavDebug
}

// ToggleStats starts or stops the stats viewer.
func (t *Toggles) ToggleStats() (bool, error) {
	if t.stats != nil {
		t.stats.Stop()
		t.stats = nil
		return false, nil
	}
	if t.addr == "" {
		return false, errors.New("stats viewer has no address")
	}
	viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(t.addr))
	mgr := statsview.New()
	go func() {
		if err := mgr.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.log.WithError(err).Warn("stats viewer stopped")
		}
	}()
	t.stats = mgr
	t.log.WithField("addr", t.addr).Info("stats viewer started")
	return true, nil
}

// Close stops the stats viewer if it is running.
func (t *Toggles) Close() {
	if t.stats != nil {
		t.stats.Stop()
		t.stats = nil
	}
}
