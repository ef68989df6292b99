package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/config"
	"github.com/ALT-F4-LLC/skis/internal/render"
)

type configInfo struct {
	Root        string       `json:"root,omitempty"`
	DBPath      string       `json:"db_path,omitempty"`
	DBSizeBytes int64        `json:"db_size_bytes"`
	Settings    settingsInfo `json:"settings"`
	Found       bool         `json:"found"`
}

type settingsInfo struct {
	BusyTimeout     string `json:"busy_timeout"`
	RetryMaxElapsed string `json:"retry_max_elapsed"`
	LogLevel        string `json:"log_level"`
	LogFile         string `json:"log_file,omitempty"`
	ListLimit       int    `json:"list_limit"`
	ListSort        string `json:"list_sort"`
	ListOrder       string `json:"list_order"`
}

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Display the repository location and effective settings",
	Annotations: map[string]string{skipRepo: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		s := getSettings(cmd)

		info := configInfo{
			Settings: settingsInfo{
				BusyTimeout:     s.BusyTimeout.String(),
				RetryMaxElapsed: s.RetryMaxElapsed.String(),
				LogLevel:        s.LogLevel,
				LogFile:         s.LogFile,
				ListLimit:       s.List.Limit,
				ListSort:        s.List.Sort,
				ListOrder:       s.List.Order,
			},
		}

		start, err := startPath(cmd)
		if err != nil {
			return err
		}
		if cfg, err := config.Find(start); err == nil {
			info.Found = true
			info.Root = cfg.Root
			info.DBPath = cfg.DBPath
			if st, err := os.Stat(cfg.DBPath); err == nil {
				info.DBSizeBytes = st.Size()
			}
		} else {
			w.Warn("No skis repository found. Run 'skis init' to create one.")
		}

		msg, err := formatConfigHuman(info, s)
		if err != nil {
			return err
		}
		w.Success(info, msg)
		return nil
	},
}

func formatConfigHuman(info configInfo, s config.Settings) (string, error) {
	settingsYAML, err := s.EncodeYAML()
	if err != nil {
		return "", err
	}

	label := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	var b strings.Builder
	if info.Found {
		fmt.Fprintf(&b, "%s %s\n", render.StyledText("Repository:", label), info.Root)
		fmt.Fprintf(&b, "%s %s (%d bytes)\n", render.StyledText("Store:", label), info.DBPath, info.DBSizeBytes)
	}
	fmt.Fprintf(&b, "%s\n%s", render.StyledText("Settings:", label), settingsYAML)
	return b.String(), nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}
