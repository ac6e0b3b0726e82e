package scheduler

import "strings"

// LabelFunc resolves a human readable label for a resource id.
type LabelFunc func(kind Kind, resourceID string) string

// Labels is an immutable snapshot of resource labels keyed by kind and id.
// Callers build a fresh snapshot per run; nothing is patched in place.
type Labels struct {
	byKind map[Kind]map[string]string
}

// NewLabels copies the supplied maps into a snapshot.
func NewLabels(byKind map[Kind]map[string]string) Labels {
	snapshot := make(map[Kind]map[string]string, len(byKind))
	for kind, labels := range byKind {
		copied := make(map[string]string, len(labels))
		for id, label := range labels {
			copied[id] = label
		}
		snapshot[kind] = copied
	}
	return Labels{byKind: snapshot}
}

// Resolve returns the label for id, falling back to the id itself.
func (l Labels) Resolve(kind Kind, resourceID string) string {
	if label, ok := l.byKind[kind][resourceID]; ok && strings.TrimSpace(label) != "" {
		return label
	}
	return resourceID
}

// Len reports how many labels are held for kind.
func (l Labels) Len(kind Kind) int {
	return len(l.byKind[kind])
}

func resolveLabel(labels LabelFunc, kind Kind, resourceID string) string {
	if labels == nil {
		return resourceID
	}
	if label := labels(kind, resourceID); strings.TrimSpace(label) != "" {
		return label
	}
	return resourceID
}
