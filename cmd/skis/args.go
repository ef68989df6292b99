package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/skis/internal/model"
	"github.com/ALT-F4-LLC/skis/internal/output"
)

// parseIDArg parses a positional issue or comment id such as "5" or "#5".
func parseIDArg(arg string) (int, error) {
	id, err := model.ParseID(arg)
	if err != nil {
		return 0, cmdErr(err, output.ErrValidation)
	}
	return id, nil
}

// readBodyFlags returns the text given by --body, or by --body-file where
// "-" means standard input. ok is false when neither flag was used.
func readBodyFlags(cmd *cobra.Command, stdin io.Reader) (body string, ok bool, err error) {
	if cmd.Flags().Changed("body") && cmd.Flags().Changed("body-file") {
		return "", false, cmdErr(fmt.Errorf("--body and --body-file are mutually exclusive"), output.ErrValidation)
	}

	if cmd.Flags().Changed("body") {
		body, _ = cmd.Flags().GetString("body")
		return body, true, nil
	}

	if cmd.Flags().Changed("body-file") {
		path, _ := cmd.Flags().GetString("body-file")
		var data []byte
		if path == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return "", false, fmt.Errorf("reading body: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}

func addBodyFlags(cmd *cobra.Command, what string) {
	cmd.Flags().StringP("body", "b", "", what)
	cmd.Flags().String("body-file", "", "Read the "+what+" from a file (- for stdin)")
}
