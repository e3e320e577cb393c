package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/screenguard/internal/config"
	"github.com/ppiankov/screenguard/internal/keyword"
)

func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.AddCommand(keywordsListCmd, keywordsSeedCmd)
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Manage the detection keyword registry",
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keywords",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		store, err := keyword.Open(cfg.Keywords.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		keywords, err := store.LoadAll(cmd.Context())
		if err != nil {
			return err
		}
		for _, kw := range keywords {
			state := "active"
			if !kw.Active {
				state = "inactive"
			}
			fmt.Printf("%-4d %-16s %-16s risk=%d %-8s %s\n",
				kw.ID, kw.Word, kw.Category, kw.RiskLevel, state, kw.Type)
		}
		return nil
	},
}

var keywordsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default keyword set (existing entries are kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		store, err := keyword.Open(cfg.Keywords.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.InsertDefaults(cmd.Context(), keyword.Defaults()); err != nil {
			return err
		}
		n, err := store.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("keyword registry holds %d entries\n", n)
		return nil
	},
}
