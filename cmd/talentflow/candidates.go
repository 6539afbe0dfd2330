package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentflow/internal/board"
	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/types"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Browse candidates, move them between stages and take notes",
}

var candidatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates",
	Args:  cobra.NoArgs,
	RunE:  runCandidatesList,
}

var candidatesShowCmd = &cobra.Command{
	Use:   "show <candidate-id>",
	Short: "Show a candidate profile and notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runCandidatesShow,
}

var candidatesMoveCmd = &cobra.Command{
	Use:   "move <candidate-id> <stage>",
	Short: "Move a candidate to another stage",
	Args:  cobra.ExactArgs(2),
	RunE:  runCandidatesMove,
}

var candidatesNoteCmd = &cobra.Command{
	Use:   "note <candidate-id> <text>...",
	Short: "Add a note to a candidate",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCandidatesNote,
}

var candidatesTimelineCmd = &cobra.Command{
	Use:   "timeline <candidate-id>",
	Short: "Show a candidate's stage changes, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE:  runCandidatesTimeline,
}

var (
	candidatesSearch   string
	candidatesStage    string
	candidatesJobID    int64
	candidatesPage     int
	candidatesPageSize int
)

func init() {
	f := candidatesListCmd.Flags()
	f.StringVarP(&candidatesSearch, "search", "s", "", "Match name or email")
	f.StringVar(&candidatesStage, "stage", board.StageAll, "Filter by stage: "+strings.Join(db.Stages(), ", ")+" or all")
	f.Int64Var(&candidatesJobID, "job", 0, "Only candidates for this job id")
	f.IntVar(&candidatesPage, "page", 1, "Page number")
	f.IntVar(&candidatesPageSize, "page-size", 20, "Candidates per page")

	candidatesCmd.AddCommand(candidatesListCmd, candidatesShowCmd, candidatesMoveCmd,
		candidatesNoteCmd, candidatesTimelineCmd)
	rootCmd.AddCommand(candidatesCmd)
}

func runCandidatesList(cmd *cobra.Command, _ []string) error {
	filters := board.CandidateFilters{
		Search:   candidatesSearch,
		Stage:    candidatesStage,
		JobID:    candidatesJobID,
		Page:     candidatesPage,
		PageSize: candidatesPageSize,
	}
	page, err := cur.engine.ListCandidates(cmd.Context(), filters)
	if err != nil {
		return fmt.Errorf("failed to list candidates: %w", err)
	}
	cur.printer.PrintCandidates(page)
	return nil
}

func runCandidatesShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "candidate")
	if err != nil {
		return err
	}
	c, err := cur.engine.GetCandidate(cmd.Context(), id)
	if err != nil {
		return err
	}
	cur.printer.PrintCandidate(c)
	return nil
}

func runCandidatesMove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "candidate")
	if err != nil {
		return err
	}
	form := types.StageChange{Stage: args[1]}
	if err := form.Validate(); err != nil {
		return err
	}

	c, err := withRetry(cmd.Context(), cur, func(ctx context.Context) (*db.Candidate, error) {
		return cur.engine.UpdateCandidate(ctx, id, form.ToPatch())
	})
	if err != nil {
		return fmt.Errorf("failed to move candidate: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s moved to %s\n", c.Name, types.StageLabel(c.Stage)) //nolint:errcheck
	return nil
}

func runCandidatesNote(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "candidate")
	if err != nil {
		return err
	}
	form := types.NoteForm{Text: strings.Join(args[1:], " ")}
	if err := form.Validate(); err != nil {
		return err
	}

	notes, err := withRetry(cmd.Context(), cur, func(ctx context.Context) ([]db.Note, error) {
		return cur.engine.AddCandidateNote(ctx, id, form.Text)
	})
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}
	cur.printer.PrintNotes(notes)
	return nil
}

func runCandidatesTimeline(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "candidate")
	if err != nil {
		return err
	}
	events, err := cur.engine.GetCandidateTimeline(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load timeline: %w", err)
	}
	cur.printer.PrintTimeline(events)
	return nil
}
