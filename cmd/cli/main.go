package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/infiniopt/internal/cli"
	"github.com/vk/infiniopt/internal/container"
	"github.com/vk/infiniopt/internal/ctxlog"
	"github.com/vk/infiniopt/internal/hclmodel"
)

// main is the entrypoint for the infiniopt application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	config, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := cli.NewLogger(config.LogLevel, config.LogFormat, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	info, err := os.Stat(config.ModelPath)
	if err != nil {
		return fmt.Errorf("cannot read model path %s: %w", config.ModelPath, err)
	}

	var m *container.Model
	if info.IsDir() {
		m, err = hclmodel.LoadDir(ctx, config.ModelPath)
	} else {
		m, err = hclmodel.LoadFile(ctx, config.ModelPath)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(outW, "model ok: %d parameters, %d variables, %d measures, %d constraints\n",
		m.NumParameters(), m.NumVariables(), m.NumMeasures(), m.NumConstraints())
	if m.HasHoldBounds() {
		fmt.Fprintln(outW, "model carries hold-variable sub-domain bounds")
	}
	return nil
}
