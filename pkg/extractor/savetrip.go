package extractor

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tripmatch/tripmatch/pkg/probe"
	"github.com/tripmatch/tripmatch/pkg/trips"
)

var weekdayOrder = []string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

// saveTrip writes a matched segment's raw rows to their own CSV, named from
// the trip's identifying columns so downstream tooling can group files
// without reopening them.
func saveTrip(records []probe.Record, segment trips.Segment, outDir string, routeName string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	slice := records[segment.Start:segment.End]
	name := tripFileName(slice, routeName)

	outPath := filepath.Join(outDir, name)
	file, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, record := range slice {
		if err := writer.Write(record.Values); err != nil {
			return "", err
		}
	}
	writer.Flush()

	return outPath, writer.Error()
}

func tripFileName(slice []probe.Record, routeName string) string {
	seen := map[string]bool{}
	primaryDate := "00000000"
	havePrimary := false
	for _, record := range slice {
		if record.OperationDate == "" {
			continue
		}
		seen[probe.WeekdayAbbrFromYMD(record.OperationDate)] = true
		if !havePrimary {
			primaryDate = record.OperationDate
			havePrimary = true
		}
	}

	var weekdays []string
	for _, abbr := range weekdayOrder {
		if seen[abbr] {
			weekdays = append(weekdays, abbr)
		}
	}
	weekdayPart := "UNK"
	if len(weekdays) > 0 {
		weekdayPart = strings.Join(weekdays, "-")
	}

	operationID := "000000000000"
	for _, record := range slice {
		if record.OperationID != "" {
			operationID = fmt.Sprintf("%012s", record.OperationID)
			break
		}
	}

	tripTag := "t000"
	for _, record := range slice {
		if record.TripNoValid {
			tripTag = fmt.Sprintf("t%03d", record.TripNo)
			break
		}
	}

	typeTag := codeTag("E", slice, func(r probe.Record) string { return r.VehicleType })
	useTag := codeTag("F", slice, func(r probe.Record) string { return r.VehicleUse })

	return fmt.Sprintf("2nd_%s_%s__ID%s_%s_%s_%s_%s.csv",
		routeName, weekdayPart, operationID, primaryDate, tripTag, typeTag, useTag)
}

// codeTag formats the first usable vehicle code in the slice as e.g. "E02".
func codeTag(prefix string, slice []probe.Record, get func(probe.Record) string) string {
	for _, record := range slice {
		var digits strings.Builder
		for _, ch := range get(record) {
			if ch >= '0' && ch <= '9' {
				digits.WriteRune(ch)
			}
		}
		if digits.Len() == 0 {
			continue
		}
		value, err := strconv.Atoi(digits.String())
		if err != nil {
			continue
		}
		return fmt.Sprintf("%s%02d", prefix, value)
	}
	return prefix + "00"
}
