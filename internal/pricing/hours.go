// Package pricing holds the tariff resolution and line/total computations
// shared by quotes and invoices. Everything here is a pure function over
// already-fetched data.
package pricing

import "time"

const timeLayout = "15:04"

// HoursBetween returns the elapsed time between two "HH:mm" clock times in
// fractional hours. Malformed input yields 0 rather than an error; a line
// with an unparseable time simply totals to zero.
//
// Times are taken on a common reference day: an end earlier than the start
// (an overnight shift) comes out negative. Whether the agency ever bills
// shifts across midnight is an open product question; the behaviour is kept
// as-is rather than guessed at.
func HoursBetween(start, end string) float64 {
	s, err := time.Parse(timeLayout, start)
	if err != nil {
		return 0
	}
	e, err := time.Parse(timeLayout, end)
	if err != nil {
		return 0
	}
	return e.Sub(s).Minutes() / 60
}
