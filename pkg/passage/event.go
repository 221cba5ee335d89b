package passage

// Event is one detected crossroad passage, in the row shape the reporting
// layer consumes. Never mutated after creation.
type Event struct {
	ScreeningLabel string   `csv:"screening_label"`
	RouteName      string   `csv:"route_name"`
	Weekday        string   `csv:"weekday"`
	OperationID    string   `csv:"trip_id"`
	TripDate       string   `csv:"trip_date"`
	TripNo         string   `csv:"trip_no"`
	VehicleType    string   `csv:"vehicle_type"`
	VehicleUse     string   `csv:"vehicle_use"`
	BranchIn       int      `csv:"branch_in"`
	BranchOut      int      `csv:"branch_out"`
	TimeBefore     string   `csv:"time_before"`
	TimeCenter     string   `csv:"time_center"`
	TimeAfter      string   `csv:"time_after"`
	DistanceMetres float64  `csv:"distance_m"`
	SpeedKMH       *float64 `csv:"speed_kmh"`
	CrossroadID    string   `csv:"crossroad_id"`
}

// TripMeta carries the per-trip labels stamped onto every event the trip
// produces.
type TripMeta struct {
	ScreeningLabel string
	RouteName      string
	OperationID    string
	TripDate       string
	TripNo         string
}
