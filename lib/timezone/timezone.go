package timezone

import "time"

// Location is the campus timezone. Course effective dates and term
// boundaries are calendar dates local to campus, so deriving "today"
// from the machine's zone can be off by a day.
var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/Los_Angeles")
	if err != nil {
		panic(err)
	}
}

func Now() time.Time {
	return time.Now().In(Location)
}

// Midnight truncates an instant to the start of its campus-local day.
func Midnight(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

func Today() time.Time {
	return Midnight(Now())
}
