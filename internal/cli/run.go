package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/screenguard/internal/config"
	"github.com/ppiankov/screenguard/internal/daemon"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scan daemon",
	Long: "Watches the inbox directory for scan requests, runs each through the\n" +
		"capture/OCR/assessment pipeline, and writes results to the outbox.",
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.close()

	d, err := daemon.New(daemon.Config{
		Dirs: daemon.DirConfig{
			Inbox:  cfg.Dirs.Inbox,
			Outbox: cfg.Dirs.Outbox,
			State:  cfg.Dirs.State,
		},
		PollMode:     cfg.PollMode,
		PollInterval: cfg.PollInterval,
	}, p.orchestrator)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "screenguard daemon watching %s\n", cfg.Dirs.Inbox)
	return d.Run(ctx)
}
