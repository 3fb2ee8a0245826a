package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
}

// force the timezone to Munich regardless of where the process runs,
// otherwise "today" watermarks written shortly after midnight would
// disagree with the upstream publication dates
func Now() time.Time {
	return time.Now().In(Location)
}

// Today returns the current date as an ISO date string, the format
// used for every last_seen/last_modified watermark in the database.
func Today() string {
	return Now().Format("2006-01-02")
}
