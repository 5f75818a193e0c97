package authz

import "fmt"

// State is a step in the per-request authorization flow. The flow is
// strictly linear; transitions outside the table below indicate a guard
// implementation bug, not a request property.
type State string

const (
	StateUnchecked          State = "unchecked"
	StateAuthenticating     State = "authenticating"
	StateAuthenticated      State = "authenticated"
	StateAnonymous          State = "anonymous"
	StateResolvingRole      State = "resolving_role"
	StateResolved           State = "resolved"
	StateResolutionFailed   State = "resolution_failed"
	StateCheckingPermission State = "checking_permission"
	StateAllowed            State = "allowed"
	StateDenied             State = "denied"
)

// transitions is the legal successor set per state. Terminal states
// (allowed, denied, anonymous, resolution_failed after denial) have none.
var transitions = map[State][]State{
	StateUnchecked:          {StateAuthenticating},
	StateAuthenticating:     {StateAuthenticated, StateAnonymous},
	StateAuthenticated:      {StateResolvingRole},
	StateResolvingRole:      {StateResolved, StateResolutionFailed},
	StateResolved:           {StateCheckingPermission},
	StateResolutionFailed:   {StateDenied},
	StateCheckingPermission: {StateAllowed, StateDenied},
}

// decision tracks a single request's progression for logging and audit.
// Not safe for concurrent use; each request owns its own.
type decision struct {
	state State
}

func newDecision() *decision {
	return &decision{state: StateUnchecked}
}

// advance moves to the next state, panicking on an illegal transition
// since that can only be a programming defect inside the guard.
func (d *decision) advance(next State) {
	for _, allowed := range transitions[d.state] {
		if allowed == next {
			d.state = next
			return
		}
	}
	panic(fmt.Sprintf("authz: illegal decision transition %s -> %s", d.state, next))
}

// terminal reports whether the decision reached an end state.
func (d *decision) terminal() bool {
	return len(transitions[d.state]) == 0
}
