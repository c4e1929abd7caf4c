package core

import (
	"time"

	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/sirupsen/logrus"
)

// Loop drains the room's command queue and syncs the world at a fixed rate.
type Loop struct {
	server   *Server
	tickRate int
	log      *logrus.Entry
	stopChan chan struct{}
}

func NewLoop(server *Server, tickRate int, log *logrus.Entry) *Loop {
	return &Loop{
		server:   server,
		tickRate: tickRate,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

func (g *Loop) Run() {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	g.log.WithField("tick_rate", g.tickRate).Info("room loop started")

	for {
		select {
		case <-g.stopChan:
			g.log.Info("room loop stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

func (g *Loop) Stop() {
	close(g.stopChan)
}

func (g *Loop) tick() {
	g.server.ProcessCommands()

	if err := srvsync.DoSync(); err != nil {
		g.log.WithError(err).Warn("sync error")
	}
}
