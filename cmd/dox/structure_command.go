package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dox/internal/api"
	"dox/internal/artifacts"
	"dox/internal/extraction"
	"dox/internal/logging"
)

func newStructureCommand(ctx *commandContext) *cobra.Command {
	var (
		anchors    int
		iterations int
		bins       int
		beta       float64
		seed       int64
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "structure <file>",
		Short: "Run the constellation pipeline over one document without queueing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			doc, err := extraction.Extract(args[0])
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{Level: "warn", Format: "console", OutputPaths: []string{"stderr"}})
			if err != nil {
				return err
			}
			req := api.StructureRequest{
				Units: doc.Units,
				Pages: doc.Pages,
				K:     anchors,
				Iters: iterations,
				Bins:  bins,
				Beta:  beta,
			}
			// Only a seed the user actually set overrides the configured
			// one; zero is a valid seed.
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}

			svc := api.NewStructureService(cfg, logger)
			result, err := svc.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			dir := strings.TrimSpace(outDir)
			if dir == "" {
				dir = filepath.Join(cfg.Paths.ArtifactsDir, doc.Title)
			}
			paths, plotErr, err := artifacts.WriteAll(dir, result)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend:       %s\n", result.Backend)
			fmt.Fprintf(out, "Units:         %d\n", len(result.Rows))
			fmt.Fprintf(out, "Constellations: %d\n", result.K)
			fmt.Fprintf(out, "MHEP:          %.4f\n", result.MHEP)
			fmt.Fprintf(out, "Artifacts:     %s\n", paths.Dir)
			if plotErr != nil {
				fmt.Fprintf(out, "Plot skipped:  %v\n", plotErr)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&anchors, "anchors", "k", 0, "Anchor count (default from config)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Relaxation iterations (default from config)")
	cmd.Flags().IntVar(&bins, "bins", 0, "Entropy histogram bins (default from config)")
	cmd.Flags().Float64Var(&beta, "beta", 0, "Softmax temperature (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Anchor sampling seed (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Artifact output directory")
	return cmd
}
