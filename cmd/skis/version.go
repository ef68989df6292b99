package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/db"
	"github.com/ALT-F4-LLC/skis/internal/render"
)

type versionInfo struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	BuildDate     string `json:"build_date"`
	SchemaVersion int    `json:"schema_version"`
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the skis build and the store schema it writes",
	Annotations: map[string]string{skipRepo: "true"},
	Args:        cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := versionInfo{
			Version:       version,
			Commit:        commit,
			BuildDate:     buildDate,
			SchemaVersion: db.CurrentSchemaVersion,
		}

		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		msg := fmt.Sprintf("skis %s %s\nstore schema v%d",
			render.StyledText(info.Version, lipgloss.NewStyle().Bold(true)),
			render.StyledText(fmt.Sprintf("(commit %s, built %s)", info.Commit, info.BuildDate), dim),
			info.SchemaVersion,
		)

		getWriter(cmd).Success(info, msg)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
