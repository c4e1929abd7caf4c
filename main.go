package main

import (
	"flag"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/MTO-Safety/hubs/assets"
	"github.com/MTO-Safety/hubs/config"
	"github.com/MTO-Safety/hubs/fonts"
	"github.com/MTO-Safety/hubs/network"
	"github.com/MTO-Safety/hubs/scenes"
	"github.com/MTO-Safety/hubs/shared/protocol"
	"github.com/MTO-Safety/hubs/systems"
)

type Game struct {
	scene *scenes.RoomScene
}

func (g *Game) Update() error {
	if g.scene.Done() {
		return ebiten.Termination
	}
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	return config.C.Width, config.C.Height
}

func main() {
	server := flag.String("server", "", "Room server websocket address (empty = offline)")
	name := flag.String("name", "Guest", "Display name")
	room := flag.String("room", config.Net.DefaultRoom, "Room to join")
	tuning := flag.String("tuning", "hubs.yaml", "Tuning overlay file")
	debug := flag.Bool("debug", false, "Debug logging")
	statsAddr := flag.String("stats-addr", config.Net.StatsAddr, "Address for the /vrstats viewer")
	ghost := flag.Bool("ghost", false, "Look around and use commands before entering the room")
	immersive := flag.Bool("immersive", false, "Immersive mode: no motion smoothing, instant waypoint travel")
	mobile := flag.Bool("mobile", false, "Mobile mode: waypoints lock motion only when they also lock teleporting")
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Release: config.Net.Version}); err != nil {
			log.WithError(err).Warn("Could not initialize sentry")
		}
		defer sentry.Flush(config.Net.SentryTimeout)
	}

	if err := config.LoadTuning(*tuning); err != nil {
		log.WithError(err).Fatal("load tuning")
	}
	if err := protocol.RegisterComponents(); err != nil {
		log.WithError(err).Fatal("register network components")
	}
	if err := fonts.LoadDefaults(); err != nil {
		log.WithError(err).Fatal("load fonts")
	}

	if err := systems.InitPersistence("hubs"); err != nil {
		log.WithError(err).Debug("preferences will not be saved")
	}
	saved := systems.LoadPreferences()
	if saved.DisplayName != "" && *name == "Guest" {
		*name = saved.DisplayName
	}
	prefs := systems.NewPreferenceStore(saved, systems.SavePreferences)
	systems.SetSFXVolume(saved.SFXVolume)
	systems.PreloadAllSFX()

	data, err := assets.LoadRoom(*room)
	if err != nil {
		rooms, _ := assets.Rooms()
		log.WithError(err).WithField("available", rooms).Fatal("load room")
	}

	opts := scenes.RoomOptions{
		Data:        data,
		DisplayName: *name,
		Prefs:       prefs,
		StatsAddr:   *statsAddr,
		Log:         log,
		Ghost:       *ghost,
		Immersive:   *immersive,
		Mobile:      *mobile,
	}
	if *server == "" {
		opts.Room = network.NewLocal(*name, data.Name, config.Net.OfflinePerms, log)
	} else {
		client := network.NewClient(log, config.Net.ChatBuffer, config.Net.SentryTimeout)
		client.Connect(*server, config.Net.Version, *name, *room)
		defer client.Disconnect()
		opts.Room, opts.Client = client, client
	}

	scene, err := scenes.NewRoomScene(opts)
	if err != nil {
		log.WithError(err).Fatal("create room scene")
	}
	defer scene.Close()

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle("hubs: " + data.Name)
	ebiten.SetTPS(config.C.TPS)

	if err := ebiten.RunGame(&Game{scene: scene}); err != nil {
		log.WithError(err).Error("game exited")
	}
}
