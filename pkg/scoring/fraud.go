package scoring

import (
	"time"

	"github.com/medmatch/medmatch/pkg/donation"
)

// FraudCheck is the interface that all fraud rules implement.
type FraudCheck interface {
	// Key returns the machine-readable check identifier.
	Key() string
	// Name returns the human-readable check name.
	Name() string
	// Evaluate returns the findings triggered by a donation, in the order
	// they were detected. today is a calendar date at UTC midnight.
	Evaluate(d donation.Record, today time.Time) []Finding
}

// FraudScorer runs an ordered list of checks and accumulates their
// penalties into a FraudAssessment.
type FraudScorer struct {
	checks []FraudCheck
	now    func() time.Time
}

// NewFraudScorer creates a scorer that runs the checks in the given order.
func NewFraudScorer(checks ...FraudCheck) *FraudScorer {
	return &FraudScorer{checks: checks, now: time.Now}
}

// Checks returns the configured checks.
func (s *FraudScorer) Checks() []FraudCheck { return s.checks }

// Assess scores a donation against today's date.
func (s *FraudScorer) Assess(d donation.Record) FraudAssessment {
	return s.AssessAt(d, calendarDay(s.now()))
}

// AssessAt scores a donation against the given calendar date. It never
// fails: conversion problems are themselves findings.
func (s *FraudScorer) AssessAt(d donation.Record, today time.Time) FraudAssessment {
	fa := FraudAssessment{
		Issues:   make([]string, 0),
		Findings: make([]Finding, 0),
	}

	for _, c := range s.checks {
		for _, f := range c.Evaluate(d, today) {
			fa.Score += f.Points
			fa.Issues = append(fa.Issues, f.Issue)
			fa.Findings = append(fa.Findings, f)
		}
	}

	// Clamp score to >= 0
	if fa.Score < 0 {
		fa.Score = 0
	}

	return fa
}

// calendarDay truncates t to its calendar date, expressed at UTC midnight so
// that it can be compared with parsed expiry dates.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysUntil returns the number of whole days from today to date.
// Both must be UTC midnights.
func daysUntil(date, today time.Time) int {
	return int(date.Sub(today) / (24 * time.Hour))
}
