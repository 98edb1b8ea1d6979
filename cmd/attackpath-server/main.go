package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dd0wney/cluso-attackpath/pkg/api"
	"github.com/dd0wney/cluso-attackpath/pkg/auth"
	"github.com/dd0wney/cluso-attackpath/pkg/logging"
	"github.com/dd0wney/cluso-attackpath/pkg/metrics"
	"github.com/dd0wney/cluso-attackpath/pkg/server"
)

const tokenDuration = 24 * time.Hour

func main() {
	port := flag.Int("port", 0, "HTTP server port (default 8080, or set PORT)")
	scenarioPath := flag.String("scenario", "", "Scenario YAML file (empty serves the built-in demo)")
	authSecret := flag.String("auth-secret", "", "JWT signing secret, min 32 bytes (or set ATTACKPATH_AUTH_SECRET)")
	historySize := flag.Int("history", 0, "Query history ring size (0 uses the default)")
	version := flag.String("version", "dev", "Version reported by /health")
	flag.Parse()

	// Get port from env if not provided
	if *port == 0 {
		if envPort := os.Getenv("PORT"); envPort != "" {
			if p, err := strconv.Atoi(envPort); err == nil {
				*port = p
			}
		}
		if *port == 0 {
			*port = 8080
		}
	}

	logger := logging.DefaultLogger()
	mainLog := logger.With(logging.Component("main"))

	mainLog.Info("Cluso AttackPath server starting",
		logging.String("version", *version),
		logging.String("scenario", *scenarioPath),
	)

	secret := *authSecret
	if secret == "" {
		secret = os.Getenv("ATTACKPATH_AUTH_SECRET")
	}

	var jwtManager *auth.JWTManager
	if secret != "" {
		var err error
		jwtManager, err = auth.NewJWTManager(secret, tokenDuration)
		if err != nil {
			mainLog.Error("invalid auth secret", logging.Error(err))
			os.Exit(1)
		}
		mainLog.Info("bearer authentication enabled")
	} else {
		mainLog.Warn("authentication disabled, admin endpoints will refuse requests")
	}

	apiServer, err := api.NewServer(api.Config{
		ScenarioPath: *scenarioPath,
		Version:      *version,
		HistorySize:  *historySize,
		JWT:          jwtManager,
		Logger:       logger,
		Metrics:      metrics.NewRegistry(),
	})
	if err != nil {
		mainLog.Error("failed to initialize server", logging.Error(err))
		os.Exit(1)
	}

	gs := server.NewGracefulServer(fmt.Sprintf(":%d", *port), apiServer.Handler(), logger)
	gs.SetReloadFunc(apiServer.Reload)

	go apiServer.RunMetricsUpdater(gs.ShutdownChannel())

	mainLog.Info("server listening",
		logging.Int("port", *port),
		logging.String("health", fmt.Sprintf("http://localhost:%d/health", *port)),
	)

	if err := gs.Start(); err != nil {
		mainLog.Error("server error", logging.Error(err))
		os.Exit(1)
	}
}
