package main

import (
	"github.com/spf13/cobra"

	"mindmark/internal/config"
	"mindmark/internal/log"
	"mindmark/internal/model"
	"mindmark/internal/storage"
	"mindmark/internal/ui"
)

var (
	catStored bool
	catTree   bool
)

func init() {
	catCmd.Flags().BoolVarP(&catStored, "stored", "s", false, "Read the named document from the database")
	catCmd.Flags().BoolVarP(&catTree, "tree", "t", false, "Draw the topic tree instead of the text form")
}

var catCmd = &cobra.Command{
	Use:   "cat [file|name]",
	Short: "Print a mind map file or stored document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var m *model.MindMap
		var err error
		useColor := false
		if catStored {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			useColor = cfg.Color
			m, err = loadStored(cmd, cfg, args[0])
			if err != nil {
				return err
			}
		} else {
			m, err = storage.FileLoad(args[0], model.WithLogger(stderrLogger()))
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if catTree {
			view := ui.NewDocumentUI(out, useColor)
			view.MapView(m, ui.ViewOptions{ShowAll: true})
			return nil
		}
		_, err = m.WriteTo(out)
		return err
	},
}

func loadStored(cmd *cobra.Command, cfg *config.Config, name string) (*model.MindMap, error) {
	logger := stderrLogger()
	store, err := storage.NewStorage(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(cmd.Context(), "Failed to close storage", log.Fields{"error": err})
		}
	}()
	return store.DocumentLoad(cmd.Context(), name)
}
