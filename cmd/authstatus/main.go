package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/auth"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/prefs/sqliterepo"
	"github.com/jrsteele09/go-auth-client/session"
)

const initializeTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error checking auth status: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	configPath := flag.String("config", "", "path to a TOML config file overriding the OAuth endpoints")
	flag.Parse()

	c, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	displayAppname(c.GetAppName())

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	repo, err := sqliterepo.New(c.GetDataFolder())
	if err != nil {
		return fmt.Errorf("sqliterepo.New: %w", err)
	}
	defer repo.Close()

	client, err := auth.New(auth.Config{
		ClientID:     c.GetClientID(),
		TokenURI:     c.GetTokenURI(),
		AuthorizeURI: c.GetAuthorizeURI(),
		LogoutURI:    c.GetLogoutURI(),
		RedirectURI:  c.GetRedirectURI(),
	}, repo, nil, auth.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("auth.New: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), initializeTimeout)
	defer cancel()

	status, err := initialize(ctx, client)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	printStatus(client, status)
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.New(), nil
	}
	c, err := config.NewFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.NewFromFile: %w", err)
	}
	return c, nil
}

// initialize runs a silent restoration and waits for its outcome.
func initialize(ctx context.Context, client *auth.Client) (auth.Status, error) {
	done := make(chan auth.Status, 1)
	client.Initialize(ctx, nil, func(status auth.Status, _ *session.Session, _ any, err error) {
		_ = err // a failed silent restore is an expected first-run outcome
		done <- status
	}, nil)

	select {
	case status := <-done:
		return status, nil
	case <-ctx.Done():
		return auth.StatusUnknown, ctx.Err()
	}
}

func printStatus(client *auth.Client, status auth.Status) {
	fmt.Printf("Status: %s\n", status)
	if status != auth.StatusConnected {
		return
	}

	sess := client.Session()
	fmt.Printf("Session: %s\n", sess)
	if claims := client.Identity(); claims != nil {
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			fmt.Printf("Subject: %s\n", sub)
		}
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
