package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dox/internal/api"
	"dox/internal/config"
	"dox/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and queue status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			status, err := fetchDaemonStatus(cfg)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Daemon", statusWarn, "not reachable; falling back to queue database", colorize))
				return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
					stats, err := store.Stats(cmd.Context())
					if err != nil {
						return err
					}
					printQueueStats(cmd, mergeStats(stats))
					return nil
				})
			}

			fmt.Fprintln(out, renderStatusLine("Daemon", statusOK, fmt.Sprintf("running (pid %d)", status.PID), colorize))
			workflowKind := statusOK
			workflowMsg := "running"
			if !status.Workflow.Running {
				workflowKind = statusWarn
				workflowMsg = "stopped"
			}
			fmt.Fprintln(out, renderStatusLine("Workflow", workflowKind, workflowMsg, colorize))
			if status.Workflow.LastError != "" {
				fmt.Fprintln(out, renderStatusLine("Last error", statusError, status.Workflow.LastError, colorize))
			}
			for _, health := range status.Workflow.StageHealth {
				kind := statusOK
				msg := "ready"
				if !health.Ready {
					kind = statusError
					msg = health.Detail
				}
				fmt.Fprintln(out, renderStatusLine("Stage "+health.Name, kind, msg, colorize))
			}

			printQueueStats(cmd, status.Workflow.QueueStats)
			return nil
		},
	}
}

func fetchDaemonStatus(cfg *config.Config) (*api.DaemonStatus, error) {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + cfg.Paths.APIBind + "/api/status")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("daemon status: unexpected response %d", resp.StatusCode)
	}
	var status api.DaemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode daemon status: %w", err)
	}
	return &status, nil
}

func printQueueStats(cmd *cobra.Command, stats map[string]int) {
	if len(stats) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
		return
	}
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(stats[name])})
	}
	out := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
	fmt.Fprintln(cmd.OutOrStdout(), out)
}

func mergeStats(stats map[queue.Status]int) map[string]int {
	out := make(map[string]int, len(stats))
	for status, count := range stats {
		out[string(status)] = count
	}
	return out
}
