package types

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/talentflow/internal/db"
)

// JobForm is the job create/edit form
type JobForm struct {
	Title        string   `json:"title" validate:"notblank"`
	Slug         string   `json:"slug" validate:"notblank,slug"`
	Description  string   `json:"description"`
	Status       string   `json:"status" validate:"omitempty,oneof=active archived"`
	Tags         []string `json:"tags"`
	Requirements []string `json:"requirements"`
}

var jobMessages = messages{
	"title.notblank": "Job title is required",
	"slug.notblank":  "Slug is required",
	"slug.slug":      "Slug can only contain lowercase letters, numbers, and hyphens",
	"status.oneof":   "Status must be active or archived",
}

// Validate checks the form and returns a *ValidationError listing every bad field
func (f *JobForm) Validate() error {
	return translate(validate.Struct(f), jobMessages)
}

// ToCreateInput converts the form into the create input, trimming the title
func (f *JobForm) ToCreateInput() db.JobCreateInput {
	return db.JobCreateInput{
		Title:        strings.TrimSpace(f.Title),
		Slug:         f.Slug,
		Description:  f.Description,
		Status:       f.Status,
		Tags:         f.Tags,
		Requirements: f.Requirements,
	}
}

// ToPatch converts the form into a full-replacement patch. An empty status
// leaves the job's status unchanged.
func (f *JobForm) ToPatch() db.JobPatch {
	title := strings.TrimSpace(f.Title)
	slug, desc := f.Slug, f.Description
	tags, reqs := nonNilStrings(f.Tags), nonNilStrings(f.Requirements)
	p := db.JobPatch{
		Title:        &title,
		Slug:         &slug,
		Description:  &desc,
		Tags:         &tags,
		Requirements: &reqs,
	}
	if f.Status != "" {
		status := f.Status
		p.Status = &status
	}
	return p
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ValidateJobPatch applies the form rules to the fields a patch sets
func ValidateJobPatch(p db.JobPatch) error {
	fields := map[string]string{}
	check := func(field, rules, value string) {
		var verrs validator.ValidationErrors
		if errors.As(validate.Var(value, rules), &verrs) && len(verrs) > 0 {
			fields[field] = jobMessages[field+"."+verrs[0].Tag()]
		}
	}

	if p.Title != nil {
		check("title", "notblank", *p.Title)
	}
	if p.Slug != nil {
		check("slug", "notblank,slug", *p.Slug)
	}
	if p.Status != nil {
		check("status", "oneof=active archived", *p.Status)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
