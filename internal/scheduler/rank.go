package scheduler

import "sort"

// Rank returns a copy of clusters in severity-first order: larger clusters
// first, then day, window start, and resource label. Kind, resource id,
// window end, and the first member's meeting id break any remaining tie so the
// order is total.
func Rank(clusters []ConflictCluster) []ConflictCluster {
	if len(clusters) == 0 {
		return nil
	}
	ranked := make([]ConflictCluster, len(clusters))
	copy(ranked, clusters)
	sort.SliceStable(ranked, func(i, j int) bool {
		return clusterLess(ranked[i], ranked[j])
	})
	return ranked
}

func clusterLess(a, b ConflictCluster) bool {
	if len(a.Entries) != len(b.Entries) {
		return len(a.Entries) > len(b.Entries)
	}
	if da, db := DayOrder(a.Day), DayOrder(b.Day); da != db {
		return da < db
	}
	if a.WindowStart != b.WindowStart {
		return a.WindowStart < b.WindowStart
	}
	if a.ResourceLabel != b.ResourceLabel {
		return a.ResourceLabel < b.ResourceLabel
	}
	if ka, kb := kindOrder(a.Kind), kindOrder(b.Kind); ka != kb {
		return ka < kb
	}
	if a.ResourceID != b.ResourceID {
		return a.ResourceID < b.ResourceID
	}
	if a.WindowEnd != b.WindowEnd {
		return a.WindowEnd < b.WindowEnd
	}
	return firstMeetingID(a) < firstMeetingID(b)
}

func firstMeetingID(c ConflictCluster) string {
	if len(c.Entries) == 0 {
		return ""
	}
	return c.Entries[0].MeetingID
}
