package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tomz197/ballrush/internal/app"
	"github.com/tomz197/ballrush/internal/config"
	"github.com/tomz197/ballrush/internal/loop/client"
	"github.com/tomz197/ballrush/internal/store"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}

	player, err := store.NormalizePlayer(config.GetEnv("PLAYER", config.GetEnv("USER", "")))
	if err != nil {
		player = "player"
	}

	// Log lines would tear through the raw-mode screen, so they go to a
	// file or nowhere.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	sp := app.NewServiceProvider("game").WithLogOutput(logOut)
	defer sp.Close()

	ctx, cancel := context.WithCancel(context.Background())
	gs := sp.GameServer(ctx)
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		gs.Run(ctx)
	}()
	// Stopping the server drains pending record writes.
	defer func() {
		cancel()
		<-serverDone
	}()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c := client.NewClient(ctx, gs, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: player,
		Logger:   sp.Logger(),
	})
	return c.Run()
}
