package main

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

type registerRequest struct {
	Room       string `json:"room"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	SceneURL   string `json:"sceneUrl"`
	Members    int    `json:"members"`
	MaxMembers int    `json:"maxMembers"`
	Version    string `json:"version"`
}

type registerResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Members int    `json:"members"`
}

const maxRequestBody = 1 << 16 // 64 KB

// NewMux routes the directory endpoints.
func NewMux(reg *Registry, log *logrus.Logger) *http.ServeMux {
	l := log.WithField("component", "http")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rooms", ListRooms(reg, l))
	mux.HandleFunc("POST /rooms/register", RegisterRoom(reg, l))
	mux.HandleFunc("POST /rooms/heartbeat", Heartbeat(reg))
	mux.HandleFunc("GET /health", Health())
	return mux
}

func ListRooms(reg *Registry, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		if err := json.NewEncoder(w).Encode(reg.List()); err != nil {
			log.WithError(err).Warn("list encode")
		}
	}
}

func RegisterRoom(reg *Registry, log *logrus.Entry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}
		if req.Room == "" || req.Address == "" {
			http.Error(w, `{"error":"room and address required"}`, http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			req.Name = req.Room
		}

		id := reg.Register(RoomInfo{
			Room:       req.Room,
			Name:       req.Name,
			Address:    req.Address,
			SceneURL:   req.SceneURL,
			Members:    req.Members,
			MaxMembers: req.MaxMembers,
			Version:    req.Version,
		})

		log.WithFields(logrus.Fields{"room": req.Room, "address": req.Address, "id": id}).Info("registered room")

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(registerResponse{ID: id})
	}
}

func Heartbeat(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req heartbeatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
			return
		}

		if !reg.Heartbeat(req.ID, req.Name, req.Members) {
			http.Error(w, `{"error":"unknown room"}`, http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
