package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/schemas"
	"github.com/jonathan/talentflow/internal/types"
)

var assessmentsCmd = &cobra.Command{
	Use:   "assessments",
	Short: "Build job assessments and record candidate submissions",
}

var assessmentsShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show the assessment attached to a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssessmentsShow,
}

var assessmentsSaveCmd = &cobra.Command{
	Use:   "save <job-id>",
	Short: "Create or replace a job's assessment from a JSON file",
	Long: "Create or replace a job's assessment. The file holds title, description, questions and settings " +
		"and is checked against the assessment schema before it is saved.",
	Args: cobra.ExactArgs(1),
	RunE: runAssessmentsSave,
}

var assessmentsSubmitCmd = &cobra.Command{
	Use:   "submit <job-id>",
	Short: "Submit a candidate's answers to a job's assessment",
	Long: "Submit answers from a JSON file mapping question ids to answers. Required questions must be " +
		"answered and answers must fit their question's type, options and limits.",
	Args: cobra.ExactArgs(1),
	RunE: runAssessmentsSubmit,
}

var (
	assessmentFile      string
	showResponses       bool
	responsesFile       string
	responseCandidateID int64
)

func init() {
	assessmentsShowCmd.Flags().BoolVar(&showResponses, "responses", false, "Also list submitted responses")

	assessmentsSaveCmd.Flags().StringVarP(&assessmentFile, "file", "f", "", "Path to assessment JSON file (required)")
	_ = assessmentsSaveCmd.MarkFlagRequired("file")

	assessmentsSubmitCmd.Flags().StringVarP(&responsesFile, "file", "f", "", "Path to responses JSON file (required)")
	assessmentsSubmitCmd.Flags().Int64Var(&responseCandidateID, "candidate", 0, "Candidate id (required)")
	_ = assessmentsSubmitCmd.MarkFlagRequired("file")
	_ = assessmentsSubmitCmd.MarkFlagRequired("candidate")

	assessmentsCmd.AddCommand(assessmentsShowCmd, assessmentsSaveCmd, assessmentsSubmitCmd)
	rootCmd.AddCommand(assessmentsCmd)
}

func runAssessmentsShow(cmd *cobra.Command, args []string) error {
	jobID, err := parseID(args[0], "job")
	if err != nil {
		return err
	}
	a, err := cur.engine.GetAssessment(cmd.Context(), jobID)
	if err != nil {
		return fmt.Errorf("failed to load assessment: %w", err)
	}
	cur.printer.PrintAssessment(a)

	if a != nil && showResponses {
		rs, err := cur.engine.ListAssessmentResponses(cmd.Context(), a.ID)
		if err != nil {
			return fmt.Errorf("failed to load responses: %w", err)
		}
		cur.printer.PrintResponses(rs)
	}
	return nil
}

func runAssessmentsSave(cmd *cobra.Command, args []string) error {
	jobID, err := parseID(args[0], "job")
	if err != nil {
		return err
	}

	content, err := os.ReadFile(assessmentFile)
	if err != nil {
		return fmt.Errorf("failed to read assessment file: %w", err)
	}
	if err := schemas.ValidateAssessment(content); err != nil {
		return err
	}
	var in db.AssessmentInput
	if err := json.Unmarshal(content, &in); err != nil {
		return fmt.Errorf("failed to parse assessment JSON: %w", err)
	}

	ctx := cmd.Context()
	if _, err := cur.engine.GetJob(ctx, jobID); err != nil {
		return err
	}

	a, err := withRetry(ctx, cur, func(ctx context.Context) (*db.Assessment, error) {
		return cur.engine.SaveAssessment(ctx, jobID, in)
	})
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved assessment %d for job %d\n", a.ID, a.JobID) //nolint:errcheck
	cur.printer.PrintAssessment(a)
	return nil
}

func runAssessmentsSubmit(cmd *cobra.Command, args []string) error {
	jobID, err := parseID(args[0], "job")
	if err != nil {
		return err
	}

	content, err := os.ReadFile(responsesFile)
	if err != nil {
		return fmt.Errorf("failed to read responses file: %w", err)
	}
	if err := schemas.ValidateResponses(content); err != nil {
		return err
	}
	var responses map[string]any
	if err := json.Unmarshal(content, &responses); err != nil {
		return fmt.Errorf("failed to parse responses JSON: %w", err)
	}

	ctx := cmd.Context()
	a, err := cur.engine.GetAssessment(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load assessment: %w", err)
	}
	if a == nil {
		return fmt.Errorf("job %d has no assessment", jobID)
	}
	if _, err := cur.engine.GetCandidate(ctx, responseCandidateID); err != nil {
		return err
	}

	if problems := types.ValidateAssessmentResponse(a.Questions, responses); len(problems) > 0 {
		return responseProblems(problems)
	}

	r, err := withRetry(ctx, cur, func(ctx context.Context) (*db.AssessmentResponse, error) {
		return cur.engine.SubmitAssessment(ctx, a.ID, responseCandidateID, responses)
	})
	if err != nil {
		return fmt.Errorf("failed to submit assessment: %w", err)
	}
	cur.printer.PrintResponse(r, a.Settings.PassingScore)
	return nil
}

func responseProblems(problems map[int]string) error {
	ids := make([]int, 0, len(problems))
	for id := range problems {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("question %d: %s", id, problems[id]))
	}
	return fmt.Errorf("invalid responses: %s", strings.Join(parts, "; "))
}
