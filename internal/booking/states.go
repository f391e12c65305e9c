package booking

// transitions is the single definition of the booking lifecycle. Every
// entry point (customer create, admin create, payment, cancellation,
// check-in/out, sweeper) consults this table instead of re-deriving the
// rules inline.
var transitions = map[string]map[string]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusCheckedIn: true,
		StatusCancelled: true,
		StatusCompleted: true,
	},
	StatusCheckedIn: {
		StatusCheckedOut: true,
	},
}

// CanTransition reports whether a booking may move from one status to
// another. Terminal statuses (cancelled, completed, checked_out) allow
// no outgoing transitions.
func CanTransition(from, to string) bool {
	return transitions[from][to]
}

// Terminal reports whether a status allows no further transitions.
func Terminal(status string) bool {
	return len(transitions[status]) == 0
}

// ValidStatus reports whether s is a recognized booking status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled,
		StatusCompleted, StatusCheckedIn, StatusCheckedOut:
		return true
	}
	return false
}
