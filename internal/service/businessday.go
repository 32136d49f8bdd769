package service

import "time"

// The business operates in a single timezone; "today" for till math is the
// local civil day, not UTC midnight, so a session opened at 23:00 still
// belongs to the right day.
var businessLoc *time.Location

func init() {
	var err error
	businessLoc, err = time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		// Fallback to UTC-3 if timezone data is not available
		businessLoc = time.FixedZone("ART", -3*60*60)
	}
}

// businessDayBounds returns the [start, end) of the local business day
// containing t.
func businessDayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(businessLoc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, businessLoc)
	return start, start.AddDate(0, 0, 1)
}
