// Package mathletter holds the "math letter" drip campaign: a fixed
// sequence of letters mailed to referred families N days after signup.
package mathletter

import "time"

const dateFormat = "2006-01-02"

// Step is one letter in the campaign sequence.
type Step struct {
	Number     int
	OffsetDays int
	Title      string
}

// Sequence is the campaign as shipped: a welcome letter on signup day,
// then weekly letters for four weeks.
var Sequence = []Step{
	{Number: 1, OffsetDays: 0, Title: "Welcome letter"},
	{Number: 2, OffsetDays: 7, Title: "Math letter #1"},
	{Number: 3, OffsetDays: 14, Title: "Math letter #2"},
	{Number: 4, OffsetDays: 21, Title: "Math letter #3"},
	{Number: 5, OffsetDays: 28, Title: "Math letter #4"},
}

// DueOn returns the calendar date a step becomes due for a signup date.
func DueOn(signedUpOn time.Time, step Step) time.Time {
	return signedUpOn.AddDate(0, 0, step.OffsetDays)
}

// DueSteps returns the steps that are due on or before asOf and have not
// been sent yet, in sequence order. sentSteps holds step numbers already
// recorded as sent.
func DueSteps(signedUpOn, asOf time.Time, sentSteps []int) []Step {
	sent := make(map[int]bool, len(sentSteps))
	for _, n := range sentSteps {
		sent[n] = true
	}

	asOfStr := asOf.Format(dateFormat)
	var due []Step
	for _, step := range Sequence {
		if sent[step.Number] {
			continue
		}
		if DueOn(signedUpOn, step).Format(dateFormat) <= asOfStr {
			due = append(due, step)
		}
	}
	return due
}

// Done reports whether every step in the sequence has been sent.
func Done(sentSteps []int) bool {
	sent := make(map[int]bool, len(sentSteps))
	for _, n := range sentSteps {
		sent[n] = true
	}
	for _, step := range Sequence {
		if !sent[step.Number] {
			return false
		}
	}
	return true
}
