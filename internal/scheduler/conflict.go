package scheduler

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the resource dimension a conflict is detected on.
type Kind string

const (
	// KindFaculty indicates a faculty member is double-booked.
	KindFaculty Kind = "faculty"
	// KindRoom indicates a room is double-booked.
	KindRoom Kind = "room"
	// KindSection indicates a section is double-booked.
	KindSection Kind = "section"
)

// AllKinds lists every resource dimension in ranking order.
var AllKinds = []Kind{KindFaculty, KindRoom, KindSection}

// ParseKind resolves a case-insensitive kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFaculty:
		return KindFaculty, nil
	case KindRoom:
		return KindRoom, nil
	case KindSection:
		return KindSection, nil
	}
	return "", fmt.Errorf("scheduler: unknown resource kind %q", s)
}

func kindOrder(k Kind) int {
	for i, candidate := range AllKinds {
		if candidate == k {
			return i
		}
	}
	return len(AllKinds)
}

// ConflictCluster is a maximal group of same-resource, same-day entries that
// overlap pairwise or transitively.
type ConflictCluster struct {
	Kind          Kind
	ResourceID    string
	ResourceLabel string
	Day           Day
	// WindowStart and WindowEnd are the envelope of the members; the window is
	// not necessarily covered continuously.
	WindowStart int
	WindowEnd   int
	Entries     []ScheduleEntry
}

// MeetingIDs returns the member meeting ids in cluster order.
func (c ConflictCluster) MeetingIDs() []string {
	ids := make([]string, len(c.Entries))
	for i, entry := range c.Entries {
		ids[i] = entry.MeetingID
	}
	return ids
}

type groupKey struct {
	resource string
	day      Day
}

// Detect finds conflict clusters for a single resource kind.
//
// Entries are partitioned by (resource, day), sorted by start then end, and
// swept: an entry whose start is strictly before the running maximum end joins
// the current cluster, otherwise the cluster is flushed. Touching endpoints do
// not conflict. Only clusters with two or more members are returned.
func Detect(entries []ScheduleEntry, kind Kind, labels LabelFunc) []ConflictCluster {
	groups := make(map[groupKey][]ScheduleEntry)
	for _, entry := range entries {
		resource := KeyOf(entry, kind)
		if resource == "" {
			continue
		}
		key := groupKey{resource: resource, day: entry.Day}
		groups[key] = append(groups[key], entry)
	}
	if len(groups) == 0 {
		return nil
	}

	keys := make([]groupKey, 0, len(groups))
	for key, members := range groups {
		if len(members) < 2 {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].resource != keys[j].resource {
			return keys[i].resource < keys[j].resource
		}
		return DayOrder(keys[i].day) < DayOrder(keys[j].day)
	})

	var clusters []ConflictCluster
	for _, key := range keys {
		members := groups[key]
		sortEntries(members)
		for _, run := range sweep(members) {
			clusters = append(clusters, newCluster(kind, key, run, labels))
		}
	}
	return clusters
}

// DetectAll runs Detect for each requested kind (all kinds when none are
// given) and returns the combined clusters in rank order.
func DetectAll(entries []ScheduleEntry, labels LabelFunc, kinds ...Kind) []ConflictCluster {
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	var clusters []ConflictCluster
	seen := make(map[Kind]struct{}, len(kinds))
	for _, kind := range kinds {
		if _, ok := seen[kind]; ok {
			continue
		}
		seen[kind] = struct{}{}
		clusters = append(clusters, Detect(entries, kind, labels)...)
	}
	return Rank(clusters)
}

// sweep merges a start-sorted run of entries into overlap groups of size >= 2.
func sweep(sorted []ScheduleEntry) [][]ScheduleEntry {
	if len(sorted) < 2 {
		return nil
	}

	var out [][]ScheduleEntry
	current := []ScheduleEntry{sorted[0]}
	maxEnd := sorted[0].EndMinute

	flush := func() {
		if len(current) >= 2 {
			out = append(out, current)
		}
	}

	for _, entry := range sorted[1:] {
		if entry.StartMinute < maxEnd {
			current = append(current, entry)
			if entry.EndMinute > maxEnd {
				maxEnd = entry.EndMinute
			}
			continue
		}
		flush()
		current = []ScheduleEntry{entry}
		maxEnd = entry.EndMinute
	}
	flush()

	return out
}

func newCluster(kind Kind, key groupKey, members []ScheduleEntry, labels LabelFunc) ConflictCluster {
	entries := make([]ScheduleEntry, len(members))
	copy(entries, members)

	windowStart, windowEnd := entries[0].StartMinute, entries[0].EndMinute
	for _, entry := range entries[1:] {
		if entry.StartMinute < windowStart {
			windowStart = entry.StartMinute
		}
		if entry.EndMinute > windowEnd {
			windowEnd = entry.EndMinute
		}
	}

	return ConflictCluster{
		Kind:          kind,
		ResourceID:    key.resource,
		ResourceLabel: resolveLabel(labels, kind, key.resource),
		Day:           key.day,
		WindowStart:   windowStart,
		WindowEnd:     windowEnd,
		Entries:       entries,
	}
}

// sortEntries orders by start, then end, then identifiers so that member
// order does not depend on input order.
func sortEntries(entries []ScheduleEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.StartMinute != b.StartMinute {
			return a.StartMinute < b.StartMinute
		}
		if a.EndMinute != b.EndMinute {
			return a.EndMinute < b.EndMinute
		}
		if a.MeetingID != b.MeetingID {
			return a.MeetingID < b.MeetingID
		}
		return a.ClassID < b.ClassID
	})
}
