// Package duedate derives the shop commitment date from a traveler's due date.
package duedate

import (
	"log/slog"
	"time"

	"github.com/joseph-ayodele/traveler-intake/internal/record"
	"github.com/joseph-ayodele/traveler-intake/internal/rules"
)

// ASAP is rendered instead of a date once the commitment is already past.
const ASAP = "ASAP"

// Rule names the rule whose offset produced a commitment.
type Rule string

const (
	RuleNone          Rule = "none"
	RuleStandard      Rule = "standard"
	RuleExpedite      Rule = "expedite"
	RuleCustom        Rule = "custom"
	RuleCustomMasking Rule = "custom-masking"
	RuleDefault       Rule = "default"
)

// Commitment is the adjusted date for one traveler. Date is kept even when
// ASAP is set so callers can report how late the job already is.
type Commitment struct {
	Date time.Time `json:"date"`
	ASAP bool      `json:"asap"`
	Rule Rule      `json:"rule"`
}

func (c Commitment) String() string {
	if c.ASAP {
		return ASAP
	}
	return c.Date.Format(record.DueDateLayout)
}

// Engine evaluates the rules in a fixed order. Later rules overwrite earlier
// results; it is not first-match.
type Engine struct {
	rules  rules.Config
	today  func() time.Time
	logger *slog.Logger
}

// NewEngine creates an engine. today must return the current calendar date;
// nil uses the local date at midnight UTC.
func NewEngine(rc rules.Config, today func() time.Time, logger *slog.Logger) *Engine {
	if today == nil {
		today = func() time.Time {
			t := time.Now()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{rules: rc, today: today, logger: logger}
}

// Compute applies the rules to rec.
func (e *Engine) Compute(rec record.Traveler) Commitment {
	c := Commitment{Date: rec.DueDate, Rule: RuleNone}
	off := e.rules.Offsets
	fired := false

	set := func(days int, rule Rule) {
		c.Date = rec.DueDate.AddDate(0, 0, -days)
		c.Rule = rule
		fired = true
	}

	if rec.Finish == e.rules.StandardFinish {
		set(off.Standard, RuleStandard)
	}

	for _, field := range []string{rec.Finish, rec.Material, rec.Notes} {
		if e.rules.Matches(rules.Expedite, field) {
			set(off.Expedite, RuleExpedite)
		}
	}

	if e.rules.Matches(rules.Custom, rec.Finish) {
		set(off.Custom, RuleCustom)
		for _, field := range []string{rec.Finish, rec.Material, rec.Notes} {
			if e.rules.Matches(rules.Masking, field) {
				set(off.Expedite, RuleCustomMasking)
			}
		}
	}

	if !fired && rec.Finish != "" {
		set(off.Default, RuleDefault)
	}

	if c.Date.Before(e.today()) {
		c.ASAP = true
	}

	e.logger.Debug("commitment computed",
		"job_number", rec.JobNumber,
		"due_date", rec.DueDateString(),
		"rule", c.Rule,
		"commitment", c.String())
	return c
}
