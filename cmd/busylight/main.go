package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env"
	"go.uber.org/zap"

	"github.com/marsfan/busylight/internal/color"
	"github.com/marsfan/busylight/internal/effect"
	"github.com/marsfan/busylight/internal/light/lifx"
	"github.com/marsfan/busylight/internal/light/usb"
	"github.com/marsfan/busylight/internal/logging"
	"github.com/marsfan/busylight/internal/manager"
)

var logger = logging.New("main")

type config struct {
	LightType      string        `env:"LIGHT_TYPE" envDefault:"USB"`
	Effect         string        `env:"EFFECT" envDefault:""`
	Color          string        `env:"COLOR" envDefault:"green"`
	FrameInterval  time.Duration `env:"FRAME_INTERVAL" envDefault:"500ms"`
	Lights         []int         `env:"LIGHTS" envSeparator:","`
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"0s"`
	Greedy         bool          `env:"GREEDY" envDefault:"true"`
	UpdateInterval time.Duration `env:"UPDATE_INTERVAL" envDefault:"15s"`
}

func main() {
	defer logger.Sync()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatalf("failed to parse environment: %v", err)
	}

	logger.With(
		zap.String("LIGHT_TYPE", cfg.LightType),
		zap.String("EFFECT", cfg.Effect),
		zap.String("COLOR", cfg.Color),
		zap.Stringer("FRAME_INTERVAL", cfg.FrameInterval),
		zap.Ints("LIGHTS", cfg.Lights),
		zap.Stringer("TIMEOUT", cfg.Timeout),
		zap.Bool("GREEDY", cfg.Greedy),
		zap.Stringer("UPDATE_INTERVAL", cfg.UpdateInterval)).
		Info("Starting busylight")
	logger.Info("Set EFFECT to one of: [" + strings.Join(effect.List(), ", ") + "]. Leave it empty for a static color.")
	logger.Info("Set LIGHTS to a comma-separated list of light indices to target a subset.")
	logger.Info("Press Ctrl+C to stop")

	baseColor, err := color.Parse(cfg.Color)
	if err != nil {
		logger.Fatalf("bad COLOR: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var finder manager.Finder
	switch strings.ToUpper(cfg.LightType) {
	case "USB":
		f, err := usb.NewFinder()
		if err != nil {
			logger.Fatalf("could not start USB discovery: %v", err)
		}
		defer f.Close()
		finder = f
	case "LIFX":
		f, err := lifx.NewFinder()
		if err != nil {
			logger.Fatalf("could not start LIFX discovery: %v", err)
		}
		defer f.Close()
		finder = f
	default:
		logger.Fatalf("unknown light type: %v", cfg.LightType)
	}

	var activeEffect effect.Effect
	if cfg.Effect != "" {
		factory, err := effect.Lookup(cfg.Effect)
		if err != nil {
			logger.Fatalf("bad EFFECT: %v", err)
		}
		activeEffect, err = factory(baseColor, cfg.FrameInterval)
		if err != nil {
			logger.Fatalf("could not build effect: %v", err)
		}
	}

	mgr := manager.New(finder, manager.WithGreedy(cfg.Greedy))
	countNew, _, _ := mgr.Update(ctx)
	logger.With(zap.Int("lights", countNew)).Info("Initial discovery complete")

	apply := func() {
		opts := []manager.ApplyOption{manager.NoWait()}
		if len(cfg.Lights) > 0 {
			opts = append(opts, manager.WithLights(cfg.Lights...))
		}

		var err error
		if activeEffect != nil {
			err = mgr.ApplyEffect(ctx, activeEffect, opts...)
		} else {
			err = mgr.ApplyColor(ctx, baseColor, opts...)
		}
		if err != nil {
			logger.With(zap.Error(err)).Warn("Nothing to light up")
		}
	}
	apply()

	go func() {
		ticker := time.NewTicker(cfg.UpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				countNew, countActive, countInactive := mgr.Update(ctx)
				logger.With(
					zap.Int("new", countNew),
					zap.Int("active", countActive),
					zap.Int("inactive", countInactive)).
					Debug("Rediscovery complete")
				if countNew > 0 {
					// extend the running color or effect onto the
					// newly attached lights
					apply()
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	if cfg.Timeout > 0 {
		select {
		case <-shutdown:
		case <-time.After(cfg.Timeout):
			logger.Info("TIMEOUT reached")
		}
	} else {
		<-shutdown
	}

	logger.Info("Shutting down")
	cancel()

	// stop the effect loops before turning off, otherwise the next
	// frame would overwrite the off state
	for _, l := range mgr.Lights() {
		l.CancelTasks()
	}
	if mgr.Len() > 0 {
		if err := mgr.Off(); err != nil {
			logger.With(zap.Error(err)).Warn("Failed to turn lights off")
		}
	}
	if err := mgr.Release(); err != nil {
		logger.With(zap.Error(err)).Warn("Failed to release lights")
	}
}
