package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"

	"github.com/tunebase/auth-service/auth"
	"github.com/tunebase/auth-service/credentials"
	"github.com/tunebase/auth-service/internal/config"
	"github.com/tunebase/auth-service/mail"
	"github.com/tunebase/auth-service/postgres"
	"github.com/tunebase/auth-service/server"
	"github.com/tunebase/auth-service/token"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	displayAppname(c.GetAppName())

	ctx := context.Background()
	db, err := postgres.NewConnection(ctx, c.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("postgres.NewConnection: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("db.Migrate: %w", err)
	}

	authService, err := buildAuthService(c, db)
	if err != nil {
		return fmt.Errorf("buildAuthService: %w", err)
	}

	srv, err := server.New(c, authService)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildAuthService(c config.Config, db *postgres.DB) (*auth.Service, error) {
	tokenManager, err := token.NewManager(
		c.GetAccessSecret(),
		c.GetRefreshSecret(),
		token.WithTokenExpiry(c.GetAccessTokenExpiry(), c.GetRefreshTokenExpiry()),
	)
	if err != nil {
		return nil, err
	}

	credentialManager, err := credentials.NewManager(
		postgres.NewVerificationTokenRepo(db),
		postgres.NewOTPRepo(db),
		c.GetVerificationSecret(),
		credentials.WithExpiry(c.GetVerificationTokenExpiry(), c.GetOTPExpiry()),
		credentials.WithOTPLength(c.GetOTPLength()),
	)
	if err != nil {
		return nil, err
	}

	mailer := mail.NewRelayClient(c.GetMailRelayURL(), c.GetMailRelayKey())

	return auth.NewService(auth.Repos{
		Users:    postgres.NewUserRepo(db),
		Sessions: postgres.NewSessionRepo(db),
	}, tokenManager, credentialManager, mailer)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
