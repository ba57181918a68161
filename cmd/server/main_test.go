package main

import (
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe(t *testing.T) {
	t.Run("listen failure is returned", func(t *testing.T) {
		taken, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer taken.Close()

		srv := &http.Server{Addr: taken.Addr().String(), Handler: http.NotFoundHandler()}
		quit := make(chan os.Signal, 1)

		done := make(chan error, 1)
		go func() { done <- serve(srv, quit, time.Second) }()

		select {
		case err := <-done:
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to start server")
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not return after listen failure")
		}
	})

	t.Run("signal shuts down cleanly", func(t *testing.T) {
		srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
		quit := make(chan os.Signal, 1)
		quit <- syscall.SIGTERM

		done := make(chan error, 1)
		go func() { done <- serve(srv, quit, time.Second) }()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not return after signal")
		}
	})
}
