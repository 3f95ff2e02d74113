package ai

import "time"

const (
	dateLayout      = "Monday, January 02, 2006"
	clockLayout     = "03:04 PM MST"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// DateTime is a formatted snapshot of a single instant.
type DateTime struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Timestamp string `json:"timestamp"`
}

// Now formats date, clock time and ISO-8601 timestamp from the same instant.
func Now(t time.Time) DateTime {
	return DateTime{
		Date:      t.Format(dateLayout),
		Time:      t.Format(clockLayout),
		Timestamp: t.Format(timestampLayout),
	}
}
