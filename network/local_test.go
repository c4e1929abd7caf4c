package network

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func newLocal(perms ...string) *Local {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewLocal("me", "Office", perms, log)
}

func TestLocalEchoesChat(t *testing.T) {
	l := newLocal()
	_ = l.SendMessage("hi")
	_ = l.SendMessage("again")
	got := l.DrainChat()
	if len(got) != 2 || got[0].From != "me" || got[1].Body != "again" {
		t.Fatalf("chat = %+v", got)
	}
	if len(l.DrainChat()) != 0 {
		t.Fatalf("drain should empty the queue")
	}
}

func TestLocalPermissions(t *testing.T) {
	l := newLocal()
	if err := l.UpdateScene("https://example.com/a.glb"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("UpdateScene err = %v", err)
	}
	if err := l.Rename("x"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Rename err = %v", err)
	}

	l = newLocal(PermissionUpdateHub)
	if err := l.Rename("Standup"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if l.HubName() != "Standup" || len(l.DrainRenames()) != 1 {
		t.Fatalf("rename not applied")
	}
}

func TestLocalOwnsEverything(t *testing.T) {
	l := newLocal()
	if !l.IsMine(42) {
		t.Fatalf("offline room should own every object")
	}
}

func TestLocalLeave(t *testing.T) {
	l := newLocal()
	_ = l.Leave()
	if l.Joined() {
		t.Fatalf("still joined after Leave")
	}
}

func TestClientUnauthorizedBeforeJoin(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	c := NewClient(log, 4, 0)
	if err := c.UpdateScene("https://example.com/a.glb"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v", err)
	}
	if err := c.SendMessage("hi"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v", err)
	}
	if c.IsMine(1) {
		t.Fatalf("no session should own nothing")
	}
}
