package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talentflow/internal/board"
	"github.com/jonathan/talentflow/internal/db"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count jobs per status and candidates per stage",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// runSummary issues one listing per status and per stage concurrently and
// reads each page's total
func runSummary(cmd *cobra.Command, _ []string) error {
	g, gCtx := errgroup.WithContext(cmd.Context())

	jobsByStatus := map[string]int{}
	candidatesByStage := map[string]int{}
	var mu sync.Mutex // Protect map writes

	for _, status := range []string{db.StatusActive, db.StatusArchived} {
		g.Go(func() error {
			page, err := cur.engine.ListJobs(gCtx, board.JobFilters{Status: status, PageSize: 1})
			if err != nil {
				return fmt.Errorf("failed to count %s jobs: %w", status, err)
			}
			mu.Lock()
			jobsByStatus[status] = page.Total
			mu.Unlock()
			return nil
		})
	}

	for _, stage := range db.Stages() {
		g.Go(func() error {
			page, err := cur.engine.ListCandidates(gCtx, board.CandidateFilters{Stage: stage, PageSize: 1})
			if err != nil {
				return fmt.Errorf("failed to count %s candidates: %w", stage, err)
			}
			mu.Lock()
			candidatesByStage[stage] = page.Total
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	cur.printer.PrintSummary(jobsByStatus, candidatesByStage)
	return nil
}
