// Copyright (c) 2026 Inkline. All rights reserved.
// Author: khanh.levan.dev@gmail.com

// Command inkctl is the terminal client for an Inkline deployment.
//
// # Subcommands
//
//	register  create an account and sign in
//	login     sign in (password prompted without echo)
//	logout    discard the local session
//	whoami    print the cached session, if any
//	verify    reconcile the cached session against the server
//	watch     follow the session file and report changes until interrupted
//
// The session lives in one JSON file under the user config directory,
// shared by every inkctl process (and anything else using the session
// package). Login in one terminal is visible in the next.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/term"

	"github.com/inklinehq/inkline/internal/client/guard"
	"github.com/inklinehq/inkline/internal/client/rest"
	"github.com/inklinehq/inkline/internal/client/session"
)

// clientConfig is the environment-driven configuration for inkctl.
type clientConfig struct {
	// ServerURL is the base URL of the Inkline API.
	ServerURL string `env:"INKLINE_SERVER" envDefault:"http://localhost:8080"`

	// SessionFile overrides the default session file location.
	SessionFile string `env:"INKLINE_SESSION_FILE"`

	// Debug enables debug logging to stderr.
	Debug bool `env:"INKLINE_DEBUG" envDefault:"false"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := env.ParseAs[clientConfig]()
	if err != nil {
		fmt.Fprintln(os.Stderr, "inkctl: configuration:", err)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sessionFile := cfg.SessionFile
	if sessionFile == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "inkctl: locate config dir:", err)
			os.Exit(1)
		}
		sessionFile = filepath.Join(configDir, "inkline", "session.json")
	}

	// The manager is the REST client's token source, so it is built first
	// and the client attached after.
	manager := session.NewManager(session.NewFileStore(sessionFile))
	apiClient := rest.New(cfg.ServerURL, manager)
	manager.AttachAPI(apiClient)

	if err := manager.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "inkctl: load session:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var runErr error
	switch os.Args[1] {
	case "register":
		runErr = runRegister(ctx, manager)
	case "login":
		runErr = runLogin(ctx, manager)
	case "logout":
		runErr = runLogout(manager)
	case "whoami":
		runErr = runWhoami(manager)
	case "verify":
		runErr = runVerify(ctx, manager, logger)
	case "watch":
		runErr = runWatch(manager, sessionFile)
	default:
		usage()
		os.Exit(2)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "inkctl:", runErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: inkctl <command>

commands:
  register   create an account and sign in
  login      sign in to an existing account
  logout     discard the local session
  whoami     print the current session
  verify     check the session against the server
  watch      follow the session file until interrupted`)
}

// # Subcommands

func runRegister(ctx context.Context, manager *session.Manager) error {
	// Registration and login are anonymous-only views.
	if decision := guard.Evaluate(guard.RequiresAnonymity{}, manager, "register"); decision != (guard.Render{}) {
		return errors.New("already signed in; run 'inkctl logout' first")
	}

	reader := bufio.NewReader(os.Stdin)
	name, err := promptLine(reader, "Name: ")
	if err != nil {
		return err
	}
	email, err := promptLine(reader, "Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	state, err := manager.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("registered and signed in as %s (%s)\n", state.Profile.Name, state.Profile.Role)
	return nil
}

func runLogin(ctx context.Context, manager *session.Manager) error {
	if decision := guard.Evaluate(guard.RequiresAnonymity{}, manager, "login"); decision != (guard.Render{}) {
		return errors.New("already signed in; run 'inkctl logout' first")
	}

	reader := bufio.NewReader(os.Stdin)
	email, err := promptLine(reader, "Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	state, err := manager.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, rest.ErrUnauthorized) {
			return errors.New("invalid credentials")
		}
		return err
	}

	fmt.Printf("signed in as %s (%s)\n", state.Profile.Name, state.Profile.Role)
	return nil
}

func runLogout(manager *session.Manager) error {
	if !manager.Authenticated() {
		fmt.Println("not signed in")
		return nil
	}
	if err := manager.Logout(); err != nil {
		return err
	}
	fmt.Println("signed out")
	return nil
}

func runWhoami(manager *session.Manager) error {
	state := manager.Current()
	if state == nil || state.Profile == nil {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", state.Profile.Name, state.Profile.Email, state.Profile.Role)
	return nil
}

func runVerify(ctx context.Context, manager *session.Manager, logger *slog.Logger) error {
	outcome, err := manager.Reconcile(ctx)
	if err != nil {
		logger.Debug("reconcile_error", slog.Any("error", err))
	}

	switch outcome {
	case session.OutcomeSkipped:
		fmt.Println("not signed in")
	case session.OutcomeConfirmed:
		state := manager.Current()
		fmt.Printf("session valid: %s (%s)\n", state.Profile.Name, state.Profile.Role)
	case session.OutcomeRejected:
		fmt.Println("session rejected by server; signed out")
	case session.OutcomeInconclusive:
		fmt.Println("server unreachable; keeping cached session")
	}
	return nil
}

func runWatch(manager *session.Manager, sessionFile string) error {
	// The watcher observes the session file's directory, so the directory
	// has to exist even before the first login writes the file.
	if err := os.MkdirAll(filepath.Dir(sessionFile), 0o700); err != nil {
		return fmt.Errorf("prepare session directory: %w", err)
	}

	// Reload events are reported at info level regardless of INKLINE_DEBUG;
	// following the session is the entire point of this command.
	watchLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("watching %s (interrupt to stop)\n", sessionFile)
	if err := manager.Watch(ctx, watchLogger); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// # Prompts

// promptLine reads one line from the shared reader.
//
// The reader is shared across every prompt of a command: a fresh buffered
// reader per prompt could slurp past its own newline on piped input and
// swallow the next field.
func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}
