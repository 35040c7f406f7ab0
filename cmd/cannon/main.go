package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/zeusync/ballistics/internal/config"
	"github.com/zeusync/ballistics/internal/core/systems/cannon"
	"github.com/zeusync/ballistics/internal/injector"
)

var CLI struct {
	Config   string `help:"Rig configuration file (YAML)." short:"c" type:"existingfile"`
	LogLevel string `help:"Override the configured log level." name:"log-level"`

	Predict struct {
		Pitch  *float64 `help:"Barrel pitch in degrees."`
		Swivel *float64 `help:"Swivel rotation in degrees."`
	} `cmd:"" help:"Predict the trajectory for the configured rig and print one frame."`

	Simulate struct {
		Ticks *int `help:"Number of ticks to run instead of the configured timeline length."`
	} `cmd:"" help:"Run the configured command timeline, printing a frame whenever the path changes."`

	DefaultConfig struct {
	} `cmd:"" name:"config" help:"Write the default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("cannon"),
		kong.Description("ballistic trajectory preview for a two-axis cannon rig"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	var err error
	switch ctx.Command() {
	case "predict":
		err = predictCommand()
	case "simulate":
		err = simulateCommand()
	case "config":
		err = configCommand()
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if err != nil {
		writeError(err)
	}
}

func loadConfig(path, level string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if level != "" {
		cfg.Log.Level = level
	}
	return cfg, cfg.Validate()
}

// withTicks replaces the timeline length. The override is validated like the
// configured value, so it cannot cut off scheduled commands.
func withTicks(cfg config.Config, ticks *int) (config.Config, error) {
	if ticks == nil {
		return cfg, nil
	}
	cfg.Timeline.Ticks = *ticks
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("--ticks %d: %w", *ticks, err)
	}
	return cfg, nil
}

func predictCommand() error {
	cfg, err := loadConfig(CLI.Config, CLI.LogLevel)
	if err != nil {
		return err
	}
	app, err := injector.InitializeApp(cfg, injector.Output{Frames: os.Stdout, Logs: os.Stderr})
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()

	aim := app.Rig.State().Aim
	if CLI.Predict.Pitch != nil {
		aim.Pitch = *CLI.Predict.Pitch
	}
	if CLI.Predict.Swivel != nil {
		aim.Swivel = *CLI.Predict.Swivel
	}
	if err := app.Rig.Apply(cannon.SetAim{Aim: aim}); err != nil {
		return err
	}
	_, err = app.Rig.Predict()
	return err
}

func simulateCommand() error {
	cfg, err := loadConfig(CLI.Config, CLI.LogLevel)
	if err != nil {
		return err
	}
	cfg, err = withTicks(cfg, CLI.Simulate.Ticks)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return simulate(ctx, cfg, injector.Output{Frames: os.Stdout, Logs: os.Stderr}, os.Stderr)
}

// simulate runs the configured timeline and writes a one-line summary.
func simulate(ctx context.Context, cfg config.Config, out injector.Output, summary io.Writer) error {
	app, err := injector.InitializeApp(cfg, out)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()

	if err := app.Loop.Run(ctx, cfg.Timeline.Ticks); err != nil {
		return err
	}
	loop, events := app.Loop.Metrics(), app.Events.GetMetrics()
	_, err = fmt.Fprintf(summary, "fired %d round(s) over %d tick(s); %d event(s) published, %d handler error(s)\n",
		len(app.Armory.Rounds()), loop.Ticks, events.Published, events.Errors)
	return err
}

func configCommand() error {
	data, err := config.Default().Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
