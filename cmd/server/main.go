package main

import (
	"context"
	"crypto/ecdsa"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/atbackgammon/internal/auth"
	"github.com/justinabrahms/atbackgammon/internal/config"
	"github.com/justinabrahms/atbackgammon/internal/game"
	"github.com/justinabrahms/atbackgammon/internal/ids"
	"github.com/justinabrahms/atbackgammon/internal/lobby"
	"github.com/justinabrahms/atbackgammon/internal/rules"
	"github.com/justinabrahms/atbackgammon/internal/turnclock"
	"github.com/justinabrahms/atbackgammon/internal/web"
)

func main() {
	// Parse command line flags
	var showHelp bool
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.Development.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.Development.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	if cfg.Development.Debug {
		level = zerolog.DebugLevel
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zerolog.SetGlobalLevel(level)

	registry := rules.DefaultRegistry()
	if _, err := registry.Lookup(cfg.Game.DefaultRule); err != nil {
		log.Fatal().Err(err).Strs("available", registry.Names()).Msg("Invalid default rule")
	}

	key, err := signingKey(cfg.Auth.KeyPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load token signing key")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := web.NewHub()
	go hub.Run(ctx)

	clock := turnclock.New(cfg.Turn.Limit())
	if clock.Enabled() {
		log.Info().Dur("limit", clock.Limit()).Msg("Turn clock enabled")
	}

	// Create service
	service := web.NewService(cfg, web.Options{
		Store:    lobby.NewStore(),
		Registry: registry,
		Issuer:   auth.NewIssuer(key, cfg.Auth.TokenTTL),
		Clock:    clock,
		Hub:      hub,
		Random:   game.MathRandom{},
		IDs:      ids.UUID{},
	})

	// Setup routes
	router := mux.NewRouter()
	service.Routes(router)

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      web.CORS(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("addr", srv.Addr).Str("defaultRule", cfg.Game.DefaultRule).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	cancel()

	log.Info().Msg("Server exited")
}

// signingKey loads the configured key or generates a throwaway one.
func signingKey(path string) (*ecdsa.PrivateKey, error) {
	if path != "" {
		return auth.LoadKey(path)
	}
	log.Warn().Msg("No auth.key_path configured, generating an ephemeral signing key")
	return auth.GenerateKey()
}

func showHelpMessage() {
	fmt.Println(`ATBackgammon Server

DESCRIPTION:
    Game server for backgammon-family games. Keeps players, matches and
    running games in memory, enforces turn order and move legality for the
    bundled rule sets, and pushes game updates to websocket watchers.

USAGE:
    atbackgammon-server [OPTIONS]

OPTIONS:
    -h, --help    Show this help message

CONFIGURATION:
    The server is configured via config.yaml in the current directory or
    ./config. Every key can be overridden with an ATBG_ environment variable,
    e.g. ATBG_SERVER_PORT=9090.

    Example config.yaml:
        server:
          host: localhost
          port: 8080

        game:
          default_rule: RuleBgCasual    # or RuleBgNackgammon

        auth:
          key_path: token-key.pem       # see generate-token-key
          token_ttl: 24h

        turn:
          seconds_per_turn: 120         # 0 disables the turn clock

        development:
          debug: true
          log_level: debug

API ENDPOINTS:
    GET  /api/health                  - Service health check
    POST /api/players                 - Register a player, returns a token
    GET  /api/players/{id}            - Player profile and stats
    POST /api/matches                 - Host a match (auth)
    POST /api/matches/{id}/join       - Join a match as guest (auth)
    POST /api/matches/{id}/game       - Create the game for a ready match (auth)
    GET  /api/games                   - Active games (?all=true for finished)
    GET  /api/games/{id}              - Game state
    GET  /api/games/{id}/record       - Game log as a CAR archive
    POST /api/games/{id}/start        - Start the game (auth)
    POST /api/games/{id}/roll         - Roll the dice (auth)
    POST /api/games/{id}/moves        - Move one piece by one die (auth)
    POST /api/games/{id}/undo         - Take back this turn's moves (auth)
    POST /api/games/{id}/confirm      - End the turn (auth)
    POST /api/games/{id}/timeout      - Claim a win on time (auth)
    GET  /ws?gameId={id}              - Websocket game updates

EXAMPLES:
    # Start with default configuration
    atbackgammon-server

    # Register a player
    curl -X POST http://localhost:8080/api/players \
      -H "Content-Type: application/json" \
      -d '{"name": "ann"}'

SEE ALSO:
    generate-token-key(1), config.yaml(5)`)
}
