package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestRegistry(t *testing.T) (*Registry, *time.Time) {
	t.Helper()
	reg := NewRegistry(time.Minute, quietLog())
	t.Cleanup(reg.Stop)
	now := time.Unix(1000, 0)
	reg.now = func() time.Time { return now }
	return reg, &now
}

func TestRegistryHeartbeatAndExpire(t *testing.T) {
	reg, now := newTestRegistry(t)
	a := reg.Register(RoomInfo{Room: "office", Name: "Office"})
	b := reg.Register(RoomInfo{Room: "lab", Name: "Lab"})

	*now = now.Add(45 * time.Second)
	if !reg.Heartbeat(a, "Standup", 3) {
		t.Fatalf("heartbeat for a live room failed")
	}
	*now = now.Add(30 * time.Second)
	if n := reg.Expire(); n != 1 {
		t.Fatalf("expired %d rooms, want 1", n)
	}
	if reg.Heartbeat(b, "", 0) {
		t.Fatalf("heartbeat for an expired room succeeded")
	}

	rooms := reg.List()
	if len(rooms) != 1 || rooms[0].Name != "Standup" || rooms[0].Members != 3 {
		t.Fatalf("rooms = %+v", rooms)
	}
}

func TestRegistryListSortedByName(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Register(RoomInfo{Room: "z", Name: "Zen"})
	reg.Register(RoomInfo{Room: "a", Name: "Atrium"})
	rooms := reg.List()
	if len(rooms) != 2 || rooms[0].Name != "Atrium" {
		t.Fatalf("rooms = %+v", rooms)
	}
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestRegisterAndList(t *testing.T) {
	reg, _ := newTestRegistry(t)
	mux := NewMux(reg, quietLog())

	rec := post(t, mux, "/rooms/register", `{"room":"office","address":"hubs.example:7373","members":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}
	var created registerResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil || created.ID == "" {
		t.Fatalf("register response: %v %+v", err, created)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms", nil))
	var rooms []RoomInfo
	if err := json.NewDecoder(rec.Body).Decode(&rooms); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(rooms) != 1 || rooms[0].Name != "office" || rooms[0].ID != created.ID {
		t.Fatalf("rooms = %+v", rooms)
	}
}

func TestRegisterValidation(t *testing.T) {
	reg, _ := newTestRegistry(t)
	mux := NewMux(reg, quietLog())

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing address", `{"room":"office"}`},
		{"missing room", `{"address":"x:1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := post(t, mux, "/rooms/register", tt.body); rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHeartbeatUnknownRoom(t *testing.T) {
	reg, _ := newTestRegistry(t)
	rec := post(t, NewMux(reg, quietLog()), "/rooms/heartbeat", `{"id":"nope","members":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
