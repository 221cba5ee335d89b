package trips

import (
	"fmt"
	"strings"

	"github.com/tripmatch/tripmatch/pkg/probe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TripGroup is one trip's records on a file that is already screened down to
// whole trips, keyed by operation date, operation id and trip number.
type TripGroup struct {
	TripDate    string
	OperationID string
	TripNo      string

	Records []probe.Record
}

// GroupByTrip partitions records into trips by their key columns and orders
// each group by sequence number, then timestamp token. Used for passage
// extraction, where files carry several trips without boundary flags.
func GroupByTrip(records []probe.Record) []TripGroup {
	type key struct {
		tripDate    string
		operationID string
		tripNo      string
	}

	grouped := map[key][]probe.Record{}
	for _, record := range records {
		k := key{
			tripDate:    record.TripDate,
			operationID: record.OperationID,
			tripNo:      tripNoToken(record),
		}
		grouped[k] = append(grouped[k], record)
	}

	keys := maps.Keys(grouped)
	slices.SortFunc(keys, func(a, b key) int {
		if a.tripDate != b.tripDate {
			return strings.Compare(a.tripDate, b.tripDate)
		}
		if a.operationID != b.operationID {
			return strings.Compare(a.operationID, b.operationID)
		}
		return strings.Compare(a.tripNo, b.tripNo)
	})

	groups := make([]TripGroup, 0, len(keys))
	for _, k := range keys {
		members := grouped[k]
		slices.SortStableFunc(members, func(a, b probe.Record) int {
			aSeq, bSeq := 0, 0
			if a.SeqNoValid {
				aSeq = a.SeqNo
			}
			if b.SeqNoValid {
				bSeq = b.SeqNo
			}
			if aSeq != bSeq {
				return aSeq - bSeq
			}
			return strings.Compare(timestampToken(a), timestampToken(b))
		})

		groups = append(groups, TripGroup{
			TripDate:    k.tripDate,
			OperationID: k.operationID,
			TripNo:      k.tripNo,
			Records:     members,
		})
	}

	return groups
}

func tripNoToken(record probe.Record) string {
	if !record.TripNoValid {
		return ""
	}
	return fmt.Sprintf("%d", record.TripNo)
}

func timestampToken(record probe.Record) string {
	if !record.TimestampValid {
		return ""
	}
	return record.Timestamp.Format("20060102150405")
}
