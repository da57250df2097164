package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/automaton-core/automaton/internal/infrastructure/config"
	"github.com/automaton-core/automaton/internal/infrastructure/logging"
	"github.com/automaton-core/automaton/internal/journal"
	"github.com/automaton-core/automaton/internal/platform"
	"github.com/automaton-core/automaton/internal/robot"
	"github.com/automaton-core/automaton/internal/telemetry"

	// Platform integrations register their adaptor and driver types on import.
	_ "github.com/automaton-core/automaton/internal/platform/loopback"
	_ "github.com/automaton-core/automaton/internal/platform/modbus"
	_ "github.com/automaton-core/automaton/internal/platform/mqtt"
	_ "github.com/automaton-core/automaton/internal/platform/serial"
)

// haltTimeout bounds the best-effort teardown after a shutdown signal.
const haltTimeout = 10 * time.Second

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting automaton",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	path := getConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", path)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the lifecycle journal (optional)
	var jnl *journal.Journal
	jnl, err = journal.Open(cfg.Journal)
	switch {
	case errors.Is(err, journal.ErrDisabled):
		log.Info("journal disabled")
		jnl = nil
	case err != nil:
		return fmt.Errorf("opening journal: %w", err)
	default:
		jnl.SetLogger(log)
		defer func() {
			log.Info("closing journal")
			if closeErr := jnl.Close(); closeErr != nil {
				log.Error("error closing journal", "error", closeErr)
			}
		}()
		log.Info("journal opened", "path", cfg.Journal.Path)
	}

	// Connect to InfluxDB (optional)
	var metrics *telemetry.Client
	metrics, err = telemetry.Connect(cfg.Telemetry)
	switch {
	case errors.Is(err, telemetry.ErrDisabled):
		log.Info("telemetry disabled")
		metrics = nil
	case err != nil:
		return fmt.Errorf("connecting telemetry: %w", err)
	default:
		metrics.SetOnError(func(err error) {
			log.Error("telemetry write error", "error", err)
		})
		defer func() {
			log.Info("closing telemetry connection")
			if closeErr := metrics.Close(); closeErr != nil {
				log.Error("error closing telemetry", "error", closeErr)
			}
		}()
		log.Info("telemetry connected",
			"url", cfg.Telemetry.URL,
			"org", cfg.Telemetry.Org,
			"bucket", cfg.Telemetry.Bucket,
		)
	}

	// Assemble the fleet
	manager := robot.NewManager()
	manager.SetLogger(log)

	// Robots with auto_start begin their own start sequence inside
	// robot.New; the explicit start sweep below must leave them alone.
	autoStarted := make(map[string]bool)

	for _, robotCfg := range cfg.Robots {
		rc, err := platform.Assemble(robotCfg)
		if err != nil {
			return fmt.Errorf("assembling robot %q: %w", robotCfg.Name, err)
		}
		rc.Logger = log

		bot, err := robot.New(rc)
		if err != nil {
			return fmt.Errorf("building robot %q: %w", robotCfg.Name, err)
		}
		manager.AddRobot(bot)
		if rc.AutoStart {
			autoStarted[bot.Name()] = true
		}

		if jnl != nil {
			jnl.Attach(bot)
		}
		if metrics != nil {
			metrics.Attach(bot)
		}
		log.Info("robot assembled",
			"robot", bot.Name(),
			"connections", len(bot.Connections()),
			"devices", len(bot.Devices()),
		)
	}
	if metrics != nil {
		metrics.WriteFleetSize(len(manager.Robots()))
	}

	if err := startFleet(ctx, manager, autoStarted, metrics, log); err != nil {
		return err
	}

	// Verify supporting connections are healthy
	if err := healthCheck(ctx, jnl, metrics); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal",
		"robots", len(manager.Robots()),
	)

	<-ctx.Done()

	log.Info("shutdown signal received, halting fleet")

	haltCtx, cancel := context.WithTimeout(context.Background(), haltTimeout)
	defer cancel()
	if err := manager.Halt(haltCtx); err != nil {
		log.Error("error halting fleet", "error", err)
	}

	log.Info("shutdown complete")
	return nil
}

// startFleet starts every robot not already auto-started, attempting all
// even if one fails. On failure the whole fleet is halted before the error
// is returned, so no adaptor of a successfully started robot is left
// connected behind a dead process start.
func startFleet(ctx context.Context, manager *robot.Manager, autoStarted map[string]bool, metrics *telemetry.Client, log *logging.Logger) error {
	var startErr error
	for _, bot := range manager.Robots() {
		if autoStarted[bot.Name()] {
			continue
		}
		began := time.Now()
		err := bot.Start(ctx)
		if metrics != nil {
			metrics.WriteStartDuration(bot.Name(), time.Since(began).Seconds(), err == nil)
		}
		if err != nil {
			log.Error("robot failed to start", "robot", bot.Name(), "error", err)
			if startErr == nil {
				startErr = err
			}
		}
	}
	if startErr != nil {
		log.Warn("start failed, halting fleet")
		haltCtx, cancel := context.WithTimeout(context.Background(), haltTimeout)
		defer cancel()
		if haltErr := manager.Halt(haltCtx); haltErr != nil {
			log.Error("error halting fleet", "error", haltErr)
		}
		return fmt.Errorf("starting fleet: %w", startErr)
	}
	return nil
}

// healthCheck pings the optional supporting services.
func healthCheck(ctx context.Context, jnl *journal.Journal, metrics *telemetry.Client) error {
	if jnl != nil {
		if err := jnl.HealthCheck(ctx); err != nil {
			return err
		}
	}
	if metrics != nil {
		if err := metrics.HealthCheck(ctx); err != nil {
			return err
		}
	}
	return nil
}
