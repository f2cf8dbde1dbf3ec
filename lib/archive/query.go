// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"sort"
	"time"
)

// Selector names how the caller wants to pick an observation (spec
// §4.8 `state`'s selector union).
type Selector struct {
	ID     string
	Index  *int
	AsOf   *time.Time
	Before *time.Time
	After  *time.Time
	Latest bool
}

// ErrNoMatch is returned when a timestamp selector's full scan finds no
// matching observation (spec §7's "no observation matches selector").
type ErrNoMatch struct{ Selector Selector }

func (e *ErrNoMatch) Error() string {
	return "archive: no observation matches the given selector"
}

// Resolve picks a single observation index per sel, per spec §4.6's
// tie-break rules: for --latest and --as-of, the later-in-file
// observation wins a timestamp tie; --before/--after use strict
// comparison (never tie).
func (a *Archive) Resolve(sel Selector) (int, error) {
	switch {
	case sel.ID != "":
		return a.ByID(sel.ID)

	case sel.Index != nil:
		idx := *sel.Index
		if idx < 0 || idx > len(a.observations) {
			return 0, &ObservationNotFoundError{Index: idx}
		}
		return idx, nil

	case sel.Latest:
		if len(a.observations) == 0 {
			return 0, nil
		}
		best := -1
		var bestTS time.Time
		for _, row := range a.parsedTimestamps() {
			if best == -1 || !row.ts.Before(bestTS) {
				best = row.meta.Index
				bestTS = row.ts
			}
		}
		if best == -1 {
			return a.observations[len(a.observations)-1].meta.Index, nil
		}
		return best, nil

	case sel.AsOf != nil:
		return a.resolveAsOf(*sel.AsOf)

	case sel.Before != nil:
		return a.resolveBefore(*sel.Before)

	case sel.After != nil:
		return a.resolveAfter(*sel.After)

	default:
		return 0, fmt.Errorf("archive: no selector field set")
	}
}

// parsedTimestamps pairs each observation with its parsed time, in file
// order, silently skipping any observation whose timestamp fails to
// parse (no error or warning is reported for it).
func (a *Archive) parsedTimestamps() []struct {
	meta ObservationMeta
	ts   time.Time
} {
	out := make([]struct {
		meta ObservationMeta
		ts   time.Time
	}, 0, len(a.observations))
	for _, o := range a.observations {
		ts, err := time.Parse(time.RFC3339Nano, o.meta.Timestamp)
		if err != nil {
			continue
		}
		out = append(out, struct {
			meta ObservationMeta
			ts   time.Time
		}{o.meta, ts})
	}
	return out
}

// resolveAsOf finds the observation with the latest timestamp <= target.
// Ties (equal timestamps) are broken by file order, later wins.
func (a *Archive) resolveAsOf(target time.Time) (int, error) {
	rows := a.parsedTimestamps()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ts.Before(rows[j].ts) })

	best := -1
	var bestTS time.Time
	for _, row := range rows {
		if row.ts.After(target) {
			continue
		}
		if best == -1 || row.ts.After(bestTS) || row.ts.Equal(bestTS) {
			best = row.meta.Index
			bestTS = row.ts
		}
	}
	if best == -1 {
		return 0, &ErrNoMatch{}
	}
	return best, nil
}

// resolveBefore finds the observation with the latest timestamp
// strictly before target.
func (a *Archive) resolveBefore(target time.Time) (int, error) {
	best := -1
	var bestTS time.Time
	for _, row := range a.parsedTimestamps() {
		if !row.ts.Before(target) {
			continue
		}
		if best == -1 || row.ts.After(bestTS) {
			best = row.meta.Index
			bestTS = row.ts
		}
	}
	if best == -1 {
		return 0, &ErrNoMatch{}
	}
	return best, nil
}

// resolveAfter finds the observation with the earliest timestamp
// strictly after target.
func (a *Archive) resolveAfter(target time.Time) (int, error) {
	best := -1
	var bestTS time.Time
	for _, row := range a.parsedTimestamps() {
		if !row.ts.After(target) {
			continue
		}
		if best == -1 || row.ts.Before(bestTS) {
			best = row.meta.Index
			bestTS = row.ts
		}
	}
	if best == -1 {
		return 0, &ErrNoMatch{}
	}
	return best, nil
}
