// Package dircount tallies passage events into per-crossroad traffic-flow
// counts: how many vehicles went from branch A to branch B in each hour of
// day. The table feeds the downstream reporting layer.
package dircount

import (
	"github.com/tripmatch/tripmatch/pkg/passage"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// UnknownHour buckets events whose centre timestamp did not parse.
const UnknownHour = -1

type key struct {
	crossroadID string
	hour        int
	branchIn    int
	branchOut   int
}

type cell struct {
	count    int
	speedSum float64
	speedN   int
}

// Table accumulates direction counts. Not safe for concurrent use; callers
// aggregate per run and merge at the end if they fan out.
type Table struct {
	cells map[key]*cell
}

func NewTable() *Table {
	return &Table{cells: map[key]*cell{}}
}

func (t *Table) Add(event passage.Event) {
	k := key{
		crossroadID: event.CrossroadID,
		hour:        hourOf(event.TimeCenter),
		branchIn:    event.BranchIn,
		branchOut:   event.BranchOut,
	}

	c, ok := t.cells[k]
	if !ok {
		c = &cell{}
		t.cells[k] = c
	}

	c.count++
	if event.SpeedKMH != nil {
		c.speedSum += *event.SpeedKMH
		c.speedN++
	}
}

func (t *Table) Merge(other *Table) {
	for k, oc := range other.cells {
		c, ok := t.cells[k]
		if !ok {
			c = &cell{}
			t.cells[k] = c
		}
		c.count += oc.count
		c.speedSum += oc.speedSum
		c.speedN += oc.speedN
	}
}

// Row is one output line of the tally, CSV-shaped for the reporting layer.
type Row struct {
	CrossroadID  string   `csv:"crossroad_id"`
	Hour         int      `csv:"hour"`
	BranchIn     int      `csv:"branch_in"`
	BranchOut    int      `csv:"branch_out"`
	Count        int      `csv:"count"`
	MeanSpeedKMH *float64 `csv:"mean_speed_kmh"`
}

// Rows returns the tally ordered by crossroad, hour, in-branch, out-branch.
func (t *Table) Rows() []Row {
	keys := maps.Keys(t.cells)
	slices.SortFunc(keys, func(a, b key) int {
		if a.crossroadID != b.crossroadID {
			if a.crossroadID < b.crossroadID {
				return -1
			}
			return 1
		}
		if a.hour != b.hour {
			return a.hour - b.hour
		}
		if a.branchIn != b.branchIn {
			return a.branchIn - b.branchIn
		}
		return a.branchOut - b.branchOut
	})

	rows := make([]Row, 0, len(keys))
	for _, k := range keys {
		c := t.cells[k]
		row := Row{
			CrossroadID: k.crossroadID,
			Hour:        k.hour,
			BranchIn:    k.branchIn,
			BranchOut:   k.branchOut,
			Count:       c.count,
		}
		if c.speedN > 0 {
			mean := c.speedSum / float64(c.speedN)
			row.MeanSpeedKMH = &mean
		}
		rows = append(rows, row)
	}

	return rows
}

// hourOf extracts the hour from a YYYYMMDDHHMMSS token.
func hourOf(token string) int {
	if len(token) < 10 {
		return UnknownHour
	}
	h := 0
	for _, ch := range token[8:10] {
		if ch < '0' || ch > '9' {
			return UnknownHour
		}
		h = h*10 + int(ch-'0')
	}
	if h > 23 {
		return UnknownHour
	}
	return h
}
