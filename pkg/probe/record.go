package probe

import (
	"time"

	"github.com/tripmatch/tripmatch/pkg/geodesy"
)

// BoundaryFlag marks a record as the start or end of a trip.
type BoundaryFlag int

const (
	BoundaryNone BoundaryFlag = iota
	BoundaryStart
	BoundaryEnd
)

// Record is one parsed GPS probe sample. Optional fields carry a Valid flag
// instead of being re-checked at every access site; the raw row travels along
// in Values so matched trips can be written back out unchanged.
type Record struct {
	Index int

	Lat         float64
	Lon         float64
	CoordsValid bool

	Boundary BoundaryFlag

	SeqNo      int
	SeqNoValid bool

	TripNo      int
	TripNoValid bool

	Timestamp      time.Time
	TimestampValid bool
	TimestampToken string

	OperationDate string // raw YYYYMMDD token
	OperationID   string
	TripDate      string
	VehicleType   string
	VehicleUse    string

	Values []string
}

func (r *Record) Point() geodesy.Point {
	return geodesy.Point{Lat: r.Lat, Lon: r.Lon}
}

// Weekday returns the record's day of week numbered 1=SUN .. 7=SAT, or 0
// when no timestamp was parsed.
func (r *Record) Weekday() int {
	if !r.TimestampValid {
		return 0
	}
	return int(r.Timestamp.Weekday()) + 1
}

var weekdayAbbr = []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// WeekdayAbbrFromYMD returns the 3-letter weekday for a YYYYMMDD token, or ""
// when the token does not parse.
func WeekdayAbbrFromYMD(ymd string) string {
	if len(ymd) != 8 {
		return ""
	}
	t, err := time.Parse("20060102", ymd)
	if err != nil {
		return ""
	}
	return weekdayAbbr[int(t.Weekday())]
}
