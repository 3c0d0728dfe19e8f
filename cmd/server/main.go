package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gnark-bhp/server"
	"gnark-bhp/utils"

	"github.com/labstack/gommon/log"
)

func main() {
	port := os.Getenv("PORT")
	domain := os.Getenv("BHP_DOMAIN")
	prove := os.Getenv("BHP_PROVE")

	if port == "" {
		port = "8080"
	}
	if domain == "" {
		domain = utils.DefaultDomain
	}

	s := server.NewServer(domain)
	if prove != "" {
		var names []string
		for _, name := range strings.Split(prove, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if err := s.SetupProving(names); err != nil {
			log.Fatalf("Failed to set up proving: %v", err)
		}
	}

	e := s.Echo()
	go func() {
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()
	log.Infof("Server started on :%s with domain %q", port, domain)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Errorf("Failed to shutdown server gracefully: %v", err)
	}
	log.Info("Server stopped")
}
