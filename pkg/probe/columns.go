package probe

// Columns maps the semantic probe fields onto 0-based positions in a raw CSV
// row. The defaults follow the 様式1-2 probe layout; callers processing other
// layouts override the mapping per run instead of editing package state.
type Columns struct {
	OperationDate int `yaml:"operation_date"`
	OperationID   int `yaml:"operation_id"`
	VehicleType   int `yaml:"vehicle_type"`
	VehicleUse    int `yaml:"vehicle_use"`
	Timestamp     int `yaml:"timestamp"`
	SeqNo         int `yaml:"seq_no"`
	TripNo        int `yaml:"trip_no"`
	Flag          int `yaml:"flag"`
	Lat           int `yaml:"lat"`
	Lon           int `yaml:"lon"`

	// MatchedLat/MatchedLon name optional map-matched coordinate columns.
	// When set (>= 0) they are preferred per row, falling back to Lat/Lon
	// whenever a row's map-matched pair does not parse.
	MatchedLat int `yaml:"matched_lat"`
	MatchedLon int `yaml:"matched_lon"`
}

func DefaultColumns() Columns {
	return Columns{
		OperationDate: 2,
		OperationID:   3,
		VehicleType:   4,
		VehicleUse:    5,
		Timestamp:     6,
		SeqNo:         7,
		TripNo:        8,
		Flag:          12,
		Lat:           14,
		Lon:           15,
		MatchedLat:    -1,
		MatchedLon:    -1,
	}
}
