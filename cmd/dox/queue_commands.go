package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dox/internal/config"
	"dox/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the work queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueShowCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				statuses, err := parseStatuses(listStatuses)
				if err != nil {
					return err
				}
				items, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ID, 10),
						item.Title,
						string(item.Status),
						item.CreatedAt.Local().Format(time.RFC3339),
						item.ProgressStage,
					})
				}
				out := renderTable(
					[]string{"ID", "Title", "Status", "Created", "Stage"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by queue status (repeatable)")
	return cmd
}

func newQueueShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one queue item in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				item, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if item == nil {
					return fmt.Errorf("queue item %d not found", id)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:           %d\n", item.ID)
				fmt.Fprintf(out, "Title:        %s\n", item.Title)
				fmt.Fprintf(out, "Source:       %s\n", item.SourcePath)
				fmt.Fprintf(out, "Status:       %s\n", item.Status)
				fmt.Fprintf(out, "Progress:     %s (%.0f%%) %s\n", item.ProgressStage, item.ProgressPercent, item.ProgressMessage)
				if item.RunID != "" {
					fmt.Fprintf(out, "Run:          %s\n", item.RunID)
				}
				if item.ArtifactDir != "" {
					fmt.Fprintf(out, "Artifacts:    %s\n", item.ArtifactDir)
				}
				if item.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:        %s\n", item.ErrorMessage)
				}
				fmt.Fprintf(out, "Created:      %s\n", item.CreatedAt.Local().Format(time.RFC3339))
				fmt.Fprintf(out, "Updated:      %s\n", item.UpdatedAt.Local().Format(time.RFC3339))

				entities, err := store.EntitiesForItem(cmd.Context(), item.ID)
				if err != nil {
					return err
				}
				if len(entities) > 0 {
					fmt.Fprintf(out, "Entities:     %d\n", len(entities))
				}
				facts, err := store.FactsForItem(cmd.Context(), item.ID)
				if err != nil {
					return err
				}
				if len(facts) > 0 {
					fmt.Fprintf(out, "Facts:        %d\n", len(facts))
				}
				return nil
			})
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [id]...",
		Short: "Reset failed items back to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid item id %q", arg)
				}
				ids = append(ids, id)
			}
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				count, err := store.RetryFailed(cmd.Context(), ids...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d item(s) to pending\n", count)
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var clearCompleted bool
	var clearFailed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				var count int64
				var err error
				switch {
				case clearCompleted:
					count, err = store.ClearCompleted(cmd.Context())
				case clearFailed:
					count, err = store.ClearFailed(cmd.Context())
				default:
					count, err = store.Clear(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d item(s)\n", count)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearCompleted, "completed", false, "Only remove completed items")
	cmd.Flags().BoolVar(&clearFailed, "failed", false, "Only remove failed items")
	cmd.MarkFlagsMutuallyExclusive("completed", "failed")
	return cmd
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show aggregate queue counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Total", strconv.Itoa(health.Total)},
					{"Pending", strconv.Itoa(health.Pending)},
					{"Processing", strconv.Itoa(health.Processing)},
					{"Failed", strconv.Itoa(health.Failed)},
					{"Completed", strconv.Itoa(health.Completed)},
				}
				out := renderTable([]string{"State", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func parseStatuses(values []string) ([]queue.Status, error) {
	var statuses []queue.Status
	for _, value := range values {
		parsed, ok := queue.ParseStatus(value)
		if !ok {
			known := queue.AllStatuses()
			names := make([]string, len(known))
			for i, status := range known {
				names[i] = string(status)
			}
			sort.Strings(names)
			return nil, fmt.Errorf("unknown status %q (known: %s)", value, strings.Join(names, ", "))
		}
		statuses = append(statuses, parsed)
	}
	return statuses, nil
}
