// Package planning holds the calendar presentation logic and the sitter
// payout computations: pure functions over missions already fetched and
// sorted by the query layer.
package planning

import "github.com/adelineb/nounou-app/internal/models"

// Entry wraps a mission with its display color band for the calendar view.
// ColorAlt flips between consecutive same-day missions whose time ranges
// overlap, so both stay visually distinguishable.
type Entry struct {
	Mission  models.Mission `json:"mission"`
	ColorAlt bool           `json:"color_alt"`
}

// AssignColorBands walks missions in the query order (date, then start time)
// and flags each mission that overlaps the immediately preceding one on the
// same day with the opposite band of its predecessor. Non-overlapping
// missions always get the primary band.
//
// This is a binary alternation over consecutive pairs, not an interval-graph
// coloring: three missions all running at once are not guaranteed three
// distinct bands.
func AssignColorBands(missions []models.Mission) []Entry {
	entries := make([]Entry, len(missions))
	for i, m := range missions {
		entries[i] = Entry{Mission: m}
		if i == 0 {
			continue
		}
		prev := entries[i-1]
		// "HH:mm" strings compare correctly as text.
		if m.Date == prev.Mission.Date && m.HeureDebut < prev.Mission.HeureFin {
			entries[i].ColorAlt = !prev.ColorAlt
		}
	}
	return entries
}

// Day groups a calendar day's entries for the week view.
type Day struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}

// GroupByDay splits already-banded entries into per-day buckets, preserving
// order. Input order is the query order (date, start time), so days come out
// chronologically.
func GroupByDay(entries []Entry) []Day {
	var days []Day
	for _, e := range entries {
		if n := len(days); n > 0 && days[n-1].Date == e.Mission.Date {
			days[n-1].Entries = append(days[n-1].Entries, e)
			continue
		}
		days = append(days, Day{Date: e.Mission.Date, Entries: []Entry{e}})
	}
	return days
}
