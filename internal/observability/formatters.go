// Package observability provides logging and formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/jonathan/talentflow/internal/board"
	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// dateLayout is used for every timestamp shown in tables
	dateLayout = "2006-01-02 15:04"
)

var stageColors = map[string]*color.Color{
	db.StageHired:    color.New(color.FgGreen),
	db.StageOffer:    color.New(color.FgCyan),
	db.StageRejected: color.New(color.FgRed),
}

// Printer handles formatted output for CLI commands
type Printer struct {
	out     io.Writer
	heading *color.Color
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, heading: color.New(color.FgYellow, color.Bold)}
}

func (p *Printer) title(s string) {
	p.heading.Fprintln(p.out, s) //nolint:errcheck
}

func (p *Printer) table(header []string, rows [][]string) {
	t := tablewriter.NewWriter(p.out)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.AppendBulk(rows)
	t.Render()
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if r := []rune(line); len(r) > boxWidth-4 {
			line = string(r[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

//nolint:errcheck
func (p *Printer) pageFooter(page, totalPages, total int, noun string) {
	fmt.Fprintf(p.out, "Page %d of %d (%d %s)\n", page, max(totalPages, 1), total, noun)
}

func stageCell(stage string) string {
	label := types.StageLabel(stage)
	if c, ok := stageColors[stage]; ok {
		return c.Sprint(label)
	}
	return label
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

// PrintJobs outputs one page of jobs as a table
func (p *Printer) PrintJobs(page *board.Page[db.Job]) {
	if page == nil {
		return
	}
	p.title("Jobs")
	rows := make([][]string, 0, len(page.Data))
	for _, j := range page.Data {
		rows = append(rows, []string{
			strconv.Itoa(j.Order),
			strconv.FormatInt(j.ID, 10),
			j.Title,
			j.Slug,
			types.StatusLabel(j.Status),
			strings.Join(j.Tags, ", "),
		})
	}
	p.table([]string{"Order", "ID", "Title", "Slug", "Status", "Tags"}, rows)
	p.pageFooter(page.Page, page.TotalPages, page.Total, "jobs")
}

// PrintJob outputs the details of a single job
func (p *Printer) PrintJob(job *db.Job) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %d\n", job.ID))
	sb.WriteString(fmt.Sprintf("Slug:     %s\n", job.Slug))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", types.StatusLabel(job.Status)))
	sb.WriteString(fmt.Sprintf("Order:    %d\n", job.Order))
	sb.WriteString(fmt.Sprintf("Created:  %s\n", formatTime(job.CreatedAt)))
	if len(job.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags:     %s\n", strings.Join(job.Tags, ", ")))
	}
	if job.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(job.Description)
		sb.WriteString("\n")
	}
	if len(job.Requirements) > 0 {
		sb.WriteString("\nRequirements:\n")
		for _, r := range job.Requirements {
			sb.WriteString(fmt.Sprintf("  • %s\n", r))
		}
	}

	p.printBox(strings.ToUpper(job.Title), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs one page of candidates as a table
func (p *Printer) PrintCandidates(page *board.Page[db.Candidate]) {
	if page == nil {
		return
	}
	p.title("Candidates")
	rows := make([][]string, 0, len(page.Data))
	for _, c := range page.Data {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Email,
			stageCell(c.Stage),
			strconv.FormatInt(c.JobID, 10),
			formatTime(c.AppliedAt),
		})
	}
	p.table([]string{"ID", "Name", "Email", "Stage", "Job", "Applied"}, rows)
	p.pageFooter(page.Page, page.TotalPages, page.Total, "candidates")
}

// PrintCandidate outputs a candidate profile, including notes
func (p *Printer) PrintCandidate(c *db.Candidate) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %d\n", c.ID))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", c.Email))
	sb.WriteString(fmt.Sprintf("Phone:    %s\n", c.Phone))
	sb.WriteString(fmt.Sprintf("Stage:    %s\n", types.StageLabel(c.Stage)))
	sb.WriteString(fmt.Sprintf("Job:      %d\n", c.JobID))
	sb.WriteString(fmt.Sprintf("Applied:  %s\n", formatTime(c.AppliedAt)))
	sb.WriteString(fmt.Sprintf("Notes:    %d\n", len(c.Notes)))

	p.printBox(c.Name, strings.TrimSuffix(sb.String(), "\n"))
	p.PrintNotes(c.Notes)
}

// PrintNotes outputs a candidate's notes, oldest first
func (p *Printer) PrintNotes(notes []db.Note) {
	if len(notes) == 0 {
		return
	}
	p.title("Notes")
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{formatTime(n.CreatedAt), n.CreatedBy, n.Text})
	}
	p.table([]string{"When", "By", "Note"}, rows)
}

// PrintTimeline outputs timeline events in the order given
func (p *Printer) PrintTimeline(events []db.TimelineEvent) {
	p.title("Timeline")
	if len(events) == 0 {
		fmt.Fprintln(p.out, "No stage changes yet") //nolint:errcheck
		return
	}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{formatTime(ev.CreatedAt), stageCell(ev.Stage), ev.Note, ev.UpdatedBy})
	}
	p.table([]string{"When", "Stage", "Note", "By"}, rows)
}

// PrintAssessment outputs an assessment and its questions
func (p *Printer) PrintAssessment(a *db.Assessment) {
	if a == nil {
		fmt.Fprintln(p.out, "No assessment for this job") //nolint:errcheck
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:            %d\n", a.ID))
	sb.WriteString(fmt.Sprintf("Job:           %d\n", a.JobID))
	sb.WriteString(fmt.Sprintf("Time limit:    %d min\n", a.Settings.TimeLimit))
	sb.WriteString(fmt.Sprintf("Passing score: %d%%\n", a.Settings.PassingScore))
	if a.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(a.Description)
		sb.WriteString("\n")
	}
	p.printBox(a.Title, strings.TrimSuffix(sb.String(), "\n"))

	rows := make([][]string, 0, len(a.Questions))
	for _, q := range a.Questions {
		req := ""
		if q.Required {
			req = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(q.ID),
			types.QuestionTypeLabel(q.Type),
			q.Text,
			req,
			strings.Join(q.Options, " / "),
		})
	}
	p.table([]string{"#", "Type", "Question", "Required", "Options"}, rows)
}

// PrintResponse outputs a submitted response and whether it meets the passing score
func (p *Printer) PrintResponse(r *db.AssessmentResponse, passingScore int) {
	if r == nil {
		return
	}
	verdict := color.New(color.FgRed).Sprint("below passing score")
	if r.Score >= passingScore {
		verdict = color.New(color.FgGreen).Sprint("passed")
	}
	//nolint:errcheck
	fmt.Fprintf(p.out, "Response %d from candidate %d submitted at %s: score %d%% (%s)\n",
		r.ID, r.CandidateID, formatTime(r.SubmittedAt), r.Score, verdict)
}

// PrintResponses outputs the responses recorded for an assessment
func (p *Printer) PrintResponses(rs []db.AssessmentResponse) {
	if len(rs) == 0 {
		return
	}
	p.title("Responses")
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.CandidateID, 10),
			formatTime(r.SubmittedAt),
			strconv.Itoa(r.Score) + "%",
		})
	}
	p.table([]string{"ID", "Candidate", "Submitted", "Score"}, rows)
}

// PrintSummary outputs job counts per status and candidate counts per stage
func (p *Printer) PrintSummary(jobsByStatus, candidatesByStage map[string]int) {
	p.title("Jobs by status")
	statuses := make([]string, 0, len(jobsByStatus))
	for s := range jobsByStatus {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{types.StatusLabel(s), strconv.Itoa(jobsByStatus[s])})
	}
	p.table([]string{"Status", "Jobs"}, rows)

	p.title("Candidates by stage")
	rows = make([][]string, 0, len(candidatesByStage)+1)
	total := 0
	for _, s := range db.Stages() {
		n, ok := candidatesByStage[s]
		if !ok {
			continue
		}
		total += n
		rows = append(rows, []string{stageCell(s), strconv.Itoa(n)})
	}
	rows = append(rows, []string{"Total", strconv.Itoa(total)})
	p.table([]string{"Stage", "Candidates"}, rows)
}
