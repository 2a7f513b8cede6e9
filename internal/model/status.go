package model

import (
	"fmt"
	"time"
)

// statusTransitions lists, per current status, the statuses a recruiter (or a
// withdrawing applicant) may move an application to. Terminal statuses have no
// outgoing edges.
var statusTransitions = map[string][]string{
	ApplicationStatusPending: {
		ApplicationStatusUnderReview,
		ApplicationStatusWithdrawn,
	},
	ApplicationStatusUnderReview: {
		ApplicationStatusShortlisted,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	},
	ApplicationStatusShortlisted: {
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	},
	ApplicationStatusAccepted:  {},
	ApplicationStatusRejected:  {},
	ApplicationStatusWithdrawn: {},
}

// IsTerminalStatus reports whether no further transition is allowed.
func IsTerminalStatus(status string) bool {
	next, ok := statusTransitions[status]
	return ok && len(next) == 0
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves the application to the target status and stamps
// StatusUpdatedAt. It rejects unknown statuses and disallowed edges.
func (a *Application) Transition(to string) error {
	if _, known := statusTransitions[to]; !known {
		return fmt.Errorf("unknown application status %q", to)
	}
	if !CanTransition(a.Status, to) {
		return fmt.Errorf("cannot transition application from %q to %q", a.Status, to)
	}
	now := time.Now()
	a.Status = to
	a.StatusUpdatedAt = &now
	return nil
}
