// Package triage filters the analyzed email list by coarse category.
// The mapping from category to predicate is a declarative table so the
// observable behavior is testable on its own.
package triage

import (
	"strings"

	"github.com/braynkanth/assistant-tui/api"
)

type Category string

const (
	CategoryAll      Category = "All"
	CategoryUrgent   Category = "Urgent"
	CategoryAction   Category = "Action"
	CategoryUpdates  Category = "Updates"
	CategoryFinance  Category = "Finance"
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
)

// Categories is the chip order shown in the inbox.
var Categories = []Category{
	CategoryAll,
	CategoryUrgent,
	CategoryAction,
	CategoryUpdates,
	CategoryFinance,
	CategoryWork,
	CategoryPersonal,
}

// Predicate decides whether an email belongs to a category.
type Predicate func(api.Email) bool

var table = map[Category]Predicate{
	CategoryAll:      func(api.Email) bool { return true },
	CategoryUrgent:   func(e api.Email) bool { return e.Priority == "P1" },
	CategoryAction:   func(e api.Email) bool { return e.RequiresAction },
	CategoryUpdates:  func(e api.Email) bool { return e.Priority == "P3" || e.Priority == "P4" },
	CategoryFinance:  intentAny("finance", "invoice", "payment", "bank", "billing", "receipt"),
	CategoryWork:     intentAny("work", "meeting", "project", "task", "deadline"),
	CategoryPersonal: intentAny("personal", "family", "friend", "social"),
}

func intentAny(substrings ...string) Predicate {
	return func(e api.Email) bool {
		intent := strings.ToLower(e.Intent)
		for _, s := range substrings {
			if strings.Contains(intent, s) {
				return true
			}
		}
		return false
	}
}

// Matches is total: a category without a table entry falls back to a
// case-insensitive substring check of the category name against the
// email's intent label.
func Matches(e api.Email, cat Category) bool {
	if pred, ok := table[cat]; ok {
		return pred(e)
	}
	return strings.Contains(strings.ToLower(e.Intent), strings.ToLower(string(cat)))
}

// Filter returns the emails matching cat, preserving input order. The
// input slice is never mutated.
func Filter(emails []api.Email, cat Category) []api.Email {
	if cat == CategoryAll {
		return emails
	}
	var out []api.Email
	for _, e := range emails {
		if Matches(e, cat) {
			out = append(out, e)
		}
	}
	return out
}

// Next cycles to the following category chip, wrapping around.
func Next(cat Category) Category {
	for i, c := range Categories {
		if c == cat {
			return Categories[(i+1)%len(Categories)]
		}
	}
	return CategoryAll
}

// Prev cycles to the preceding category chip, wrapping around.
func Prev(cat Category) Category {
	for i, c := range Categories {
		if c == cat {
			return Categories[(i-1+len(Categories))%len(Categories)]
		}
	}
	return CategoryAll
}
