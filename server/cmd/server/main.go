package main

import (
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MTO-Safety/hubs/server/core"
	"github.com/MTO-Safety/hubs/shared/messages"
	"github.com/MTO-Safety/hubs/shared/protocol"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

func main() {
	port := flag.Uint("port", 7373, "Server port")
	tickRate := flag.Int("tickrate", 20, "Sync rate (snapshots per second)")
	assetsDir := flag.String("assets", "assets", "Directory holding rooms/*.tmx")
	room := flag.String("room", "office", "Room to host")
	hubName := flag.String("name", "", "Room display name (defaults to the room)")
	scene := flag.String("scene", "", "Initial scene URL")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	maxMembers := flag.Int("max-members", 24, "Member limit, 0 for none")
	perms := flag.String("perms", strings.Join([]string{
		messages.PermissionFly, messages.PermissionUpdateHub, messages.PermissionSpawnMedia,
	}, ","), "Comma separated permissions granted to every member")
	directory := flag.String("directory", "", "Room directory URL (empty = unlisted)")
	publicAddr := flag.String("public-addr", "", "Address advertised to the directory")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Release: *version}); err != nil {
			log.WithError(err).Warn("sentry init failed")
		}
		defer sentry.Flush(5 * time.Second)
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.WithError(err).Fatal("Failed to register components")
	}

	data, err := core.LoadRoom(*assetsDir, *room)
	if err != nil {
		log.WithError(err).Fatal("Failed to load room")
	}

	server, err := core.NewServer(core.Config{
		Room:        *room,
		HubName:     *hubName,
		SceneURL:    *scene,
		Version:     *version,
		TickRate:    *tickRate,
		MaxMembers:  *maxMembers,
		Permissions: splitList(*perms),
	}, data, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create room")
	}

	var reg *core.Registration
	if *directory != "" && *publicAddr != "" {
		reg = core.NewRegistration(*directory, *publicAddr, *version, 30*time.Second, server)
		reg.Start()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Shutting down server...")
		if reg != nil {
			reg.Stop()
		}
		server.Stop()
		sentry.Flush(2 * time.Second)
		os.Exit(0)
	}()

	log.WithFields(logrus.Fields{
		"room":      *room,
		"port":      *port,
		"tick_rate": *tickRate,
		"version":   *version,
	}).Info("Starting room server")
	if err := server.Start(*port); err != nil {
		log.WithError(err).Fatal("Server error")
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
