package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentflow/internal/board"
	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/seed"
	"github.com/jonathan/talentflow/internal/types"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List, create, edit and reorder job postings",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs in board order",
	Args:  cobra.NoArgs,
	RunE:  runJobsList,
}

var jobsShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show a job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsShow,
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job at the end of the board",
	Args:  cobra.NoArgs,
	RunE:  runJobsCreate,
}

var jobsUpdateCmd = &cobra.Command{
	Use:   "update <job-id>",
	Short: "Edit a job; only the flags given are changed",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsUpdate,
}

var jobsEditCmd = &cobra.Command{
	Use:   "edit <job-id>",
	Short: "Replace a job's editable fields from a JSON file",
	Long: "Replace title, slug, description, tags and requirements with the values in the file. " +
		"Fields missing from the file are cleared; status is kept unless the file sets it.",
	Args: cobra.ExactArgs(1),
	RunE: runJobsEdit,
}

var jobsArchiveCmd = &cobra.Command{
	Use:   "archive <job-id>",
	Short: "Archive a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setJobStatus(cmd, args[0], db.StatusArchived)
	},
}

var jobsUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <job-id>",
	Short: "Make an archived job active again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setJobStatus(cmd, args[0], db.StatusActive)
	},
}

var jobsReorderCmd = &cobra.Command{
	Use:   "reorder <from> <to>",
	Short: "Move the job at position <from> to position <to>",
	Args:  cobra.ExactArgs(2),
	RunE:  runJobsReorder,
}

var (
	jobsSearch   string
	jobsStatus   string
	jobsPage     int
	jobsPageSize int

	jobTitle        string
	jobSlug         string
	jobDescription  string
	jobStatus       string
	jobTags         []string
	jobRequirements []string
	jobFile         string
)

func init() {
	jobsListCmd.Flags().StringVarP(&jobsSearch, "search", "s", "", "Match title, description or tag")
	jobsListCmd.Flags().StringVar(&jobsStatus, "status", board.StatusAll, "Filter by status: active, archived or all")
	jobsListCmd.Flags().IntVar(&jobsPage, "page", 1, "Page number")
	jobsListCmd.Flags().IntVar(&jobsPageSize, "page-size", 10, "Jobs per page")

	for _, c := range []*cobra.Command{jobsCreateCmd, jobsUpdateCmd} {
		c.Flags().StringVar(&jobTitle, "title", "", "Job title")
		c.Flags().StringVar(&jobSlug, "slug", "", "URL slug (lowercase letters, numbers and hyphens)")
		c.Flags().StringVar(&jobDescription, "description", "", "Job description")
		c.Flags().StringVar(&jobStatus, "status", "", "Status: active or archived")
		c.Flags().StringSliceVar(&jobTags, "tags", nil, "Comma-separated tags")
		c.Flags().StringArrayVar(&jobRequirements, "requirement", nil, "Requirement (repeatable)")
	}

	jobsEditCmd.Flags().StringVarP(&jobFile, "file", "f", "", "Path to job JSON file (required)")
	_ = jobsEditCmd.MarkFlagRequired("file")

	jobsCmd.AddCommand(jobsListCmd, jobsShowCmd, jobsCreateCmd, jobsUpdateCmd, jobsEditCmd,
		jobsArchiveCmd, jobsUnarchiveCmd, jobsReorderCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	filters := board.JobFilters{Search: jobsSearch, Status: jobsStatus, Page: jobsPage, PageSize: jobsPageSize}
	page, err := cur.engine.ListJobs(cmd.Context(), filters)
	if err != nil {
		return fmt.Errorf("failed to list jobs: %w", err)
	}
	cur.printer.PrintJobs(page)
	return nil
}

func runJobsShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "job")
	if err != nil {
		return err
	}
	job, err := cur.engine.GetJob(cmd.Context(), id)
	if err != nil {
		return err
	}
	cur.printer.PrintJob(job)
	return nil
}

func runJobsCreate(cmd *cobra.Command, _ []string) error {
	form := types.JobForm{
		Title:        jobTitle,
		Slug:         jobSlug,
		Description:  jobDescription,
		Status:       jobStatus,
		Tags:         jobTags,
		Requirements: jobRequirements,
	}
	if form.Slug == "" {
		form.Slug = seed.Slugify(form.Title)
	}
	if err := form.Validate(); err != nil {
		return err
	}

	job, err := withRetry(cmd.Context(), cur, func(ctx context.Context) (*db.Job, error) {
		return cur.engine.CreateJob(ctx, form.ToCreateInput())
	})
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created job %d at position %d\n", job.ID, job.Order) //nolint:errcheck
	cur.printer.PrintJob(job)
	return nil
}

func runJobsUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "job")
	if err != nil {
		return err
	}

	var patch db.JobPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &jobTitle
	}
	if flags.Changed("slug") {
		patch.Slug = &jobSlug
	}
	if flags.Changed("description") {
		patch.Description = &jobDescription
	}
	if flags.Changed("status") {
		patch.Status = &jobStatus
	}
	if flags.Changed("tags") {
		patch.Tags = &jobTags
	}
	if flags.Changed("requirement") {
		patch.Requirements = &jobRequirements
	}
	if patch == (db.JobPatch{}) {
		return fmt.Errorf("nothing to update: pass at least one of --title, --slug, --description, --status, --tags, --requirement")
	}
	if err := types.ValidateJobPatch(patch); err != nil {
		return err
	}

	job, err := withRetry(cmd.Context(), cur, func(ctx context.Context) (*db.Job, error) {
		return cur.engine.UpdateJob(ctx, id, patch)
	})
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	cur.printer.PrintJob(job)
	return nil
}

func runJobsEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "job")
	if err != nil {
		return err
	}

	content, err := os.ReadFile(jobFile)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}
	var form types.JobForm
	if err := json.Unmarshal(content, &form); err != nil {
		return fmt.Errorf("failed to parse job JSON: %w", err)
	}
	if err := form.Validate(); err != nil {
		return err
	}

	job, err := withRetry(cmd.Context(), cur, func(ctx context.Context) (*db.Job, error) {
		return cur.engine.UpdateJob(ctx, id, form.ToPatch())
	})
	if err != nil {
		return fmt.Errorf("failed to edit job: %w", err)
	}
	cur.printer.PrintJob(job)
	return nil
}

func setJobStatus(cmd *cobra.Command, arg, status string) error {
	id, err := parseID(arg, "job")
	if err != nil {
		return err
	}
	job, err := withRetry(cmd.Context(), cur, func(ctx context.Context) (*db.Job, error) {
		return cur.engine.UpdateJob(ctx, id, db.JobPatch{Status: &status})
	})
	if err != nil {
		return fmt.Errorf("failed to %s job: %w", cmd.Name(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Job %d is now %s\n", job.ID, job.Status) //nolint:errcheck
	return nil
}

func runJobsReorder(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[0])
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid position %q", args[1])
	}

	_, err = withRetry(cmd.Context(), cur, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, cur.engine.ReorderJob(ctx, from, to)
	})
	if err != nil {
		return fmt.Errorf("failed to reorder jobs: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Moved job from position %d to %d\n", from, to) //nolint:errcheck
	return nil
}
