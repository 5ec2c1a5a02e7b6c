package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockpos/pkg/config"
	"github.com/angelmondragon/stockpos/pkg/logger"
)

func TestServerStopsOnCancel(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{ListenAddr: "127.0.0.1:0"}}
	srv := NewServer(cfg, http.NotFoundHandler(), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerReportsBindFailure(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{ListenAddr: "256.0.0.1:99999"}}
	srv := NewServer(cfg, http.NotFoundHandler(), logger.Nop())

	err := srv.Run(context.Background())
	require.Error(t, err)
}
