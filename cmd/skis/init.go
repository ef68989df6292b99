package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/config"
	"github.com/ALT-F4-LLC/skis/internal/tracker"
)

type initResult struct {
	Path          string `json:"path"`
	DBPath        string `json:"db_path"`
	SettingsPath  string `json:"settings_path"`
	SchemaVersion int    `json:"schema_version"`
}

var initCmd = &cobra.Command{
	Use:         "init [dir]",
	Short:       "Create a skis repository in dir (default: the current directory)",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipRepo: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		ctx := cmd.Context()

		dir, err := startPath(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			dir = args[0]
		}

		tr, err := tracker.Init(ctx, dir,
			tracker.WithLogger(getLogger(cmd)),
			tracker.WithSettings(getSettings(cmd)),
		)
		if err != nil {
			return err
		}
		defer tr.Close()

		cfg := tr.Config()
		settingsPath, err := cfg.WriteDefaultSettings()
		if err != nil {
			return err
		}

		schemaVersion, err := tr.SchemaVersion(ctx)
		if err != nil {
			return err
		}

		w.Success(initResult{
			Path:          cfg.Dir,
			DBPath:        cfg.DBPath,
			SettingsPath:  settingsPath,
			SchemaVersion: schemaVersion,
		}, fmt.Sprintf("Initialized skis repository in %s", cfg.Dir))
		w.Info("Consider adding %s/ to your .gitignore", config.DirName)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
