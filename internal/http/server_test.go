package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expeditoe/backend/internal/logging"
)

func TestServerShutdownUnblocksStart(t *testing.T) {
	t.Parallel()

	srv := NewServer("127.0.0.1:0", http.NewServeMux(), time.Second, time.Second, logging.NewLogger(true))

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
