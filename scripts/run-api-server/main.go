// Command run-api-server serves the mock run API on a local port so the CLI
// can be tried without a real endpoint:
//
//	go run ./scripts/run-api-server -addr :8080 -username demo -password demo
//	biztositok run echo --endpoint http://localhost:8080 --username demo --password demo -p a=1
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/biztositok/biztositok-go/api"
	"github.com/biztositok/biztositok-go/internal/logger"
	"github.com/biztositok/biztositok-go/internal/mockapi"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	username := flag.String("username", "", "accepted username (empty accepts anyone)")
	password := flag.String("password", "", "accepted password")
	logLevel := flag.String("log-level", "debug", "log level")
	flag.Parse()

	log, err := logger.New(*logLevel, "console")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	server := &http.Server{
		Addr:              *addr,
		Handler:           mockapi.NewHandler(api.Credentials{Username: *username, Password: *password}, log),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("mock run API listening", zap.String("addr", *addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server failed", zap.Error(err))
	}
}
