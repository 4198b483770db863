package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mindmark/internal/model"
	"mindmark/internal/storage"
	"mindmark/internal/ui"
)

var (
	findCase  bool
	findRegex bool
	findNotes bool
)

func init() {
	findCmd.Flags().BoolVar(&findCase, "case", false, "Match case")
	findCmd.Flags().BoolVarP(&findRegex, "regex", "r", false, "Treat the pattern as a regular expression")
	findCmd.Flags().BoolVarP(&findNotes, "extras", "e", false, "Also search links, files and notes")
}

var findCmd = &cobra.Command{
	Use:   "find [pattern] [file...]",
	Short: "List topics matching a pattern",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		re, err := model.MakePattern(args[0], findCase, findRegex)
		if err != nil {
			return err
		}
		q := model.SearchQuery{Pattern: re, InText: true, Kinds: model.NewExtraTypes()}
		if findNotes {
			q.Kinds = model.NewExtraTypes(model.KnownExtraTypes...)
		}

		logger := stderrLogger()
		out := cmd.OutOrStdout()
		for _, name := range args[1:] {
			m, err := storage.FileLoad(name, model.WithLogger(logger))
			if err != nil {
				return err
			}
			matches, err := m.FindAll(q)
			if err != nil {
				return err
			}
			for _, t := range matches {
				fmt.Fprintf(out, "%s:%s: %s\n", name, ui.FormatIndex(t.Path()), ui.DisplayText(t.Text()))
			}
		}
		return nil
	},
}
