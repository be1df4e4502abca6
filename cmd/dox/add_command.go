package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dox/internal/config"
	"dox/internal/extraction"
	"dox/internal/queue"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>...",
		Short: "Queue documents for processing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				for _, arg := range args {
					absPath, err := filepath.Abs(strings.TrimSpace(arg))
					if err != nil {
						return fmt.Errorf("resolve path %q: %w", arg, err)
					}
					info, err := os.Stat(absPath)
					if err != nil {
						return fmt.Errorf("stat %q: %w", absPath, err)
					}
					if info.IsDir() {
						return fmt.Errorf("%q is a directory", absPath)
					}
					if !supportedExtension(absPath) {
						return fmt.Errorf("unsupported file extension %q (supported: %s)",
							filepath.Ext(absPath), strings.Join(extraction.SupportedExtensions(), ", "))
					}
					item, err := store.NewDocument(cmd.Context(), absPath)
					if err != nil {
						return fmt.Errorf("enqueue %q: %w", absPath, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Queued %s as item %d\n", filepath.Base(absPath), item.ID)
				}
				return nil
			})
		},
	}
}

func supportedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range extraction.SupportedExtensions() {
		if ext == candidate {
			return true
		}
	}
	return false
}
