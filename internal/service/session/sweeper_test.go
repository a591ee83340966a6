package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nmoreira/supportchat/internal/logging"
	"github.com/nmoreira/supportchat/internal/model/chat"
	"github.com/nmoreira/supportchat/internal/service/session"
)

func TestSweeperRemovesExpired(t *testing.T) {
	store := session.NewStore()
	store.Append("", chat.RoleUser, "hola")

	// With a 1ns ttl every session is stale by the time the first tick fires.
	sweeper := session.NewSweeper(store, 10*time.Millisecond, time.Nanosecond, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return store.Len() == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}

func TestSweeperStopsOnCancel(t *testing.T) {
	sweeper := session.NewSweeper(session.NewStore(), time.Hour, time.Hour, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
