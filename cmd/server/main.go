// emoji-sim-server runs one shared wandering-emoji simulation and lets any
// number of spectators watch it over SSH. Build:
//
//	go build -o emoji-sim-server ./cmd/server
//
// Usage:
//
//	./emoji-sim-server [-port 2222] [-key server_host_key]
//
// Watch from any terminal:
//
//	ssh -p 2222 localhost
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode"

	gossh "github.com/gliderlabs/ssh"
	xssh "golang.org/x/crypto/ssh"

	"emoji-sim/internal/config"
	"emoji-sim/internal/game"
	internalssh "emoji-sim/internal/ssh"
	"emoji-sim/internal/telemetry"
)

// maxNameRunes bounds the spectator name shown in the hint line.
const maxNameRunes = 16

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	// The shared simulation runs until the server stops.
	cfg.MaxTicks = 0

	level, err := cfg.Level()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, "emoji-sim-server")
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	defer telemetry.Shutdown(shutdown, log.Printf)

	g, err := game.New(cfg, game.Options{Logger: logger})
	if err != nil {
		log.Fatalf("build simulation: %v", err)
	}
	simDone := make(chan error, 1)
	go func() { simDone <- g.Run(ctx) }()

	srv := &gossh.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: func(s gossh.Session) {
			spectate(s, g, logger)
		},
		// Spectators only watch, so any PTY request and any client is accepted.
		PtyCallback: func(_ gossh.Context, _ gossh.Pty) bool { return true },
		HostSigners: []gossh.Signer{loadOrCreateHostKey(cfg.HostKey, logger)},
	}

	go func() {
		select {
		case <-ctx.Done():
		case err := <-simDone:
			if err != nil {
				logger.Error("simulation stopped", "error", err)
			}
		}
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	logger.Info("emoji-sim SSH server listening", "port", cfg.Port)
	logger.Info(fmt.Sprintf("watch with:  ssh -p %d -o StrictHostKeyChecking=no localhost", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		log.Fatal(err)
	}
}

// spectate draws the shared simulation into one SSH session until the
// viewer quits or disconnects.
func spectate(s gossh.Session, g *game.Game, logger *slog.Logger) {
	screen, err := internalssh.NewScreen(s)
	if errors.Is(err, internalssh.ErrNoPTY) {
		fmt.Fprintln(s, "Watching requires a PTY. Connect with: ssh -t -p <port> <host>")
		return
	}
	if err != nil {
		fmt.Fprintf(s, "%v\n", err)
		return
	}
	defer screen.Fini()

	name := sanitizeName(s.User())
	if name == "" {
		name = "guest"
	}
	logger.Info("spectator joined", "name", name, "remote", s.RemoteAddr().String(),
		"viewers", g.Hub().Viewers()+1)
	game.Watch(s.Context(), screen, g.Hub(), hintFor(name))
	logger.Info("spectator left", "name", name, "viewers", g.Hub().Viewers())
}

func hintFor(name string) string {
	return "watching as " + name + "  q quit  r redraw"
}

// sanitizeName drops control characters from an SSH user name and keeps at
// most maxNameRunes runes.
func sanitizeName(raw string) string {
	var b strings.Builder
	n := 0
	for _, r := range raw {
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			continue
		}
		if n == maxNameRunes {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// ─── host key ───────────────────────────────────────────────────────────────

// loadOrCreateHostKey loads a PEM private key from path, or generates and
// persists a new ed25519 key if the file is absent or unreadable.
func loadOrCreateHostKey(path string, logger *slog.Logger) gossh.Signer {
	if data, err := os.ReadFile(path); err == nil {
		if signer, err := xssh.ParsePrivateKey(data); err == nil {
			logger.Info("loaded host key", "path", path)
			return signer
		}
	}

	logger.Info("generating new ed25519 host key", "path", path)
	signer, pemBytes, err := newHostKey()
	if err != nil {
		log.Fatalf("host key: %v", err)
	}
	// Persist for next run (non-fatal if it fails).
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		logger.Warn("host key not saved", "path", path, "error", err)
	}
	return signer
}

func newHostKey() (gossh.Signer, []byte, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate: %w", err)
	}
	signer, err := xssh.NewSignerFromKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("signer: %w", err)
	}
	block, err := xssh.MarshalPrivateKey(key, "emoji-sim server")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal: %w", err)
	}
	return signer, pem.EncodeToMemory(block), nil
}
