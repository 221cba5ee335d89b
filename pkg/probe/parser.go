package probe

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ParseRow turns one raw CSV row into a Record. Missing or unparsable fields
// leave the matching Valid flag unset; a malformed row is never an error.
func ParseRow(index int, values []string, cols Columns) Record {
	record := Record{
		Index:  index,
		Values: values,
	}

	lat, latOK := parseFloat(field(values, cols.MatchedLat))
	lon, lonOK := parseFloat(field(values, cols.MatchedLon))
	if !latOK || !lonOK {
		lat, latOK = parseFloat(field(values, cols.Lat))
		lon, lonOK = parseFloat(field(values, cols.Lon))
	}
	if latOK && lonOK {
		record.Lat = lat
		record.Lon = lon
		record.CoordsValid = true
	}

	switch strings.TrimSpace(field(values, cols.Flag)) {
	case "0":
		record.Boundary = BoundaryStart
	case "1":
		record.Boundary = BoundaryEnd
	}

	if seqNo, ok := parseInt(field(values, cols.SeqNo)); ok {
		record.SeqNo = seqNo
		record.SeqNoValid = true
	}

	if tripNo, ok := parseInt(field(values, cols.TripNo)); ok {
		record.TripNo = tripNo
		record.TripNoValid = true
	}

	record.TimestampToken = strings.TrimSpace(field(values, cols.Timestamp))
	if ts, ok := parseTimestamp(record.TimestampToken); ok {
		record.Timestamp = ts
		record.TimestampValid = true
	}

	record.OperationDate = trimYMD(field(values, cols.OperationDate))
	record.OperationID = strings.TrimSpace(field(values, cols.OperationID))
	record.TripDate = strings.TrimSpace(field(values, cols.OperationDate))
	record.VehicleType = strings.TrimSpace(field(values, cols.VehicleType))
	record.VehicleUse = strings.TrimSpace(field(values, cols.VehicleUse))

	return record
}

// ReadFile reads a headerless probe CSV in file order. Rows keep their
// original index, which the segmentizer and resolver both depend on.
func ReadFile(path string, cols Columns) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadRows(file, cols)
}

func ReadRows(r io.Reader, cols Columns) ([]Record, error) {
	reader := csv.NewReader(r)
	// Probe exports routinely have ragged rows, keep reading through them
	reader.FieldsPerRecord = -1

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			return nil, err
		}

		if len(row) > 0 {
			// Excel exports lead with a UTF-8 BOM
			row[0] = strings.TrimPrefix(row[0], "\ufeff")
		}

		records = append(records, ParseRow(len(records), row, cols))
	}

	return records, nil
}

func field(values []string, index int) string {
	if index < 0 || index >= len(values) {
		return ""
	}
	return values[index]
}

func parseFloat(token string) (float64, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func parseInt(token string) (int, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	// Trip numbers sometimes arrive as "3.0"
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return int(value), true
}

// parseTimestamp parses the leading 14 digits of a YYYYMMDDHHMMSS token.
func parseTimestamp(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if len(token) < 14 {
		return time.Time{}, false
	}
	ts, err := time.Parse("20060102150405", token[:14])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func trimYMD(token string) string {
	token = strings.TrimSpace(token)
	if len(token) < 8 {
		return ""
	}
	ymd := token[:8]
	for _, ch := range ymd {
		if ch < '0' || ch > '9' {
			return ""
		}
	}
	return ymd
}
