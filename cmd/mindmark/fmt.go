package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mindmark/internal/model"
	"mindmark/internal/storage"
)

var fmtCheck bool

func init() {
	fmtCmd.Flags().BoolVarP(&fmtCheck, "check", "l", false, "List files that are not in canonical form without rewriting them")
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [file...]",
	Short: "Rewrite mind map files in canonical form",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := stderrLogger()
		var unformatted int
		for _, name := range args {
			original, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}
			m, err := model.Parse(string(original), model.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if bytes.Equal(original, []byte(m.ToText())) {
				continue
			}

			unformatted++
			if fmtCheck {
				fmt.Fprintln(cmd.OutOrStdout(), name)
				continue
			}
			if _, err := storage.FileSave(m, name); err != nil {
				return err
			}
		}
		if fmtCheck && unformatted > 0 {
			return fmt.Errorf("%d file(s) not formatted", unformatted)
		}
		return nil
	},
}
