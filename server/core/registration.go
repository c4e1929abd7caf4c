package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Registration lists the room with the directory and keeps the listing
// fresh with heartbeats.
type Registration struct {
	directoryURL string
	roomID       string
	address      string
	version      string
	interval     time.Duration
	server       *Server
	client       *http.Client
	log          *logrus.Entry
	stopCh       chan struct{}
}

type regRequest struct {
	Room       string `json:"room"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	SceneURL   string `json:"sceneUrl"`
	Members    int    `json:"members"`
	MaxMembers int    `json:"maxMembers"`
	Version    string `json:"version"`
}

type regResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Members int    `json:"members"`
}

func NewRegistration(directoryURL, address, version string, interval time.Duration, server *Server) *Registration {
	return &Registration{
		directoryURL: directoryURL,
		address:      address,
		version:      version,
		interval:     interval,
		server:       server,
		client:       &http.Client{Timeout: 5 * time.Second},
		log:          server.log.WithField("component", "registration"),
		stopCh:       make(chan struct{}),
	}
}

func (r *Registration) Start() {
	if err := r.register(); err != nil {
		r.log.WithError(err).Warn("initial registration failed")
	}
	go r.heartbeatLoop()
}

func (r *Registration) Stop() {
	close(r.stopCh)
}

func (r *Registration) register() error {
	var result regResponse
	status, err := r.post("/rooms/register", regRequest{
		Room:       r.server.cfg.Room,
		Name:       r.server.HubName(),
		Address:    r.address,
		SceneURL:   r.server.cfg.SceneURL,
		Members:    r.server.MemberCount(),
		MaxMembers: r.server.cfg.MaxMembers,
		Version:    r.version,
	}, &result)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("unexpected status: %d", status)
	}

	r.roomID = result.ID
	r.log.WithField("id", r.roomID).Info("registered with directory")
	return nil
}

func (r *Registration) heartbeatLoop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			if err := r.sendHeartbeat(); err != nil {
				r.log.WithError(err).Warn("heartbeat failed")
			}
		}
	}
}

func (r *Registration) sendHeartbeat() error {
	status, err := r.post("/rooms/heartbeat", heartbeatRequest{
		ID:      r.roomID,
		Name:    r.server.HubName(),
		Members: r.server.MemberCount(),
	}, nil)
	if err != nil {
		return err
	}

	if status == http.StatusNotFound {
		r.log.Info("directory lost our listing, registering again")
		return r.register()
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	return nil
}

// post sends body as JSON and decodes the reply into out when non-nil.
func (r *Registration) post(route string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal: %w", err)
	}

	resp, err := r.client.Post(r.directoryURL+route, "application/json", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode: %w", err)
		}
	}
	return resp.StatusCode, nil
}
