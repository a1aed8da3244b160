package triage

// Kind identifies an action that can be applied to a queue item, such as
// "approve" or "skip". The set of valid kinds is defined per queue.
type Kind string

// KindSpec describes one action kind available on a queue.
type KindSpec struct {
	Kind Kind
	// Label is the past-tense verb shown in toasts, e.g. "Approved".
	Label string
	// Key is the keyboard shortcut that triggers the action.
	Key  string
	Help string
}

func findKind(specs []KindSpec, k Kind) (KindSpec, bool) {
	for _, s := range specs {
		if s.Kind == k {
			return s, true
		}
	}
	return KindSpec{}, false
}
