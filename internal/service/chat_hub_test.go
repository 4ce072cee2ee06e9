package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChatHubShutdownUnblocksLeavingClients(t *testing.T) {
	hub := NewChatHub(nil)
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop on context cancel")
	}

	// A pump unregistering after shutdown must not block forever.
	c := &chatClient{hub: hub, send: make(chan []byte, 1)}
	left := make(chan struct{})
	go func() {
		c.leave()
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("client leave blocked after hub shutdown")
	}

	require.NotPanics(t, func() { c.leave() })
}
