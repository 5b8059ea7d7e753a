package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/chopper/internal/asset"
	"github.com/l1jgo/chopper/internal/config"
	coresys "github.com/l1jgo/chopper/internal/core/system"
	"github.com/l1jgo/chopper/internal/game"
	"github.com/l1jgo/chopper/internal/input"
	"github.com/l1jgo/chopper/internal/persist"
	"github.com/l1jgo/chopper/internal/render"
	"github.com/l1jgo/chopper/internal/render/term"
	"github.com/l1jgo/chopper/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              chopper  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mgame:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := max(46-term.TextCells(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	v := fmt.Sprint(value)
	dotsLen := max(42-term.TextCells(label)-len(v), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), v)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main game logic ───────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger; the terminal renderer owns stdout, so logs go to a file
	if !cfg.Game.Headless && cfg.Logging.File == "" {
		cfg.Logging.File = "chopper.log"
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Game.Name)

	// 3. Profiling
	switch cfg.Profile.Mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook, profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook, profile.Quiet).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Optional combat log database
	var (
		writer system.CombatLogWriter
		repo   *persist.CombatLogRepo
	)
	if cfg.Database.Enabled {
		printSection("database")
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(dbCtx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(dbCtx, db.Pool, log)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printStat("schema version", version)

		repo = persist.NewCombatLogRepo(db, uuid.New())
		if err := repo.StartSession(dbCtx, cfg.Game.Name, cfg.Game.Level); err != nil {
			return fmt.Errorf("start session: %w", err)
		}
		writer = repo
		printStat("session", repo.Session())
		fmt.Println()
	}

	// 5. Assets
	printSection("assets")
	store := asset.NewStore(log)
	if m, err := asset.LoadManifest(cfg.Assets.Manifest); err != nil {
		log.Warn("asset manifest not loaded, using default glyphs", zap.Error(err))
	} else {
		m.Apply(store)
		printStat("texture appearances", m.Count())
	}

	// 6. Renderer and input
	var (
		renderer render.Renderer
		source   input.Source
	)
	if cfg.Game.Headless {
		renderer = render.NewRecorder(cfg.Window.Width, cfg.Window.Height, false)
		source = &input.Queue{}
		printOK("headless renderer")
	} else {
		tr, err := term.Open(log)
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		defer tr.Close()
		renderer = tr
		source = input.NewScreenSource(tr.Screen())
	}

	// 7. Game
	g := game.New(game.Options{
		FPS:           cfg.Game.FPS,
		Level:         cfg.Game.Level,
		ScriptDir:     cfg.Assets.Scripts,
		Debug:         cfg.Game.Debug,
		MaxFrames:     cfg.Game.MaxFrames,
		FlushInterval: cfg.Database.FlushInterval,
	}, game.Deps{
		Renderer:  renderer,
		Input:     source,
		Clock:     coresys.RealClock{},
		Assets:    store,
		CombatLog: writer,
	}, log)
	defer g.Close()

	if err := g.Setup(); err != nil {
		return err
	}
	printStat("assets", store.Count())
	printStat("entities", g.Registry().NumLive())

	started := time.Now()
	if err := g.Run(ctx); err != nil {
		return err
	}
	log.Info("game over",
		zap.Uint64("frames", g.Frames()),
		zap.Int("kills", g.Kills()),
		zap.Duration("elapsed", time.Since(started)),
	)

	if repo != nil {
		endCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.EndSession(endCtx, g.Frames()); err != nil {
			log.Error("end session", zap.Error(err))
		}
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return zapCfg.Build()
}
