// Command master is the room directory: room servers register and
// heartbeat, clients list the live rooms.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	port := flag.Int("port", 8080, "HTTP listen port")
	ttl := flag.Duration("ttl", 90*time.Second, "Listing TTL before expiry")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	reg := NewRegistry(*ttl, log)
	defer reg.Stop()

	addr := fmt.Sprintf(":%d", *port)
	log.WithFields(logrus.Fields{"addr": addr, "ttl": *ttl}).Info("directory starting")
	if err := http.ListenAndServe(addr, NewMux(reg, log)); err != nil {
		log.WithError(err).Fatal("directory stopped")
	}
}
