package cli

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ppiankov/screenguard/internal/config"
	"github.com/ppiankov/screenguard/internal/scan"
)

var scanID string

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&scanID, "id", "", "Scan ID (default: random UUID)")
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan and print the outcome",
	Long: "Captures one frame from the spool, extracts and filters its text, and\n" +
		"prints the resolved outcome. Exits 2 when something suspicious is found.",
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.close()

	id := scanID
	if id == "" {
		id = uuid.NewString()
	}

	outcome, err := p.orchestrator.Run(ctx, id)
	if err != nil {
		return err
	}

	switch outcome.(type) {
	case scan.KeywordFinding, scan.AiFinding:
		p.close()
		os.Exit(2)
	}
	return nil
}
