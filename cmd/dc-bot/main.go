package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixmachan/dc-bot/internal/config"
	"github.com/felixmachan/dc-bot/internal/discord"
	v "github.com/felixmachan/dc-bot/internal/version"
)

func main() {
	log.Printf("[INFO] Starting %v %v...", v.AppName, v.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal("[ERR] ", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := discord.StartBot(ctx, cfg); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
		<-errCh // let the bot leave voice channels before exiting
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
