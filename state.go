package auth

// LoginState tracks where a single login attempt sits in the
// authentication state machine.
type LoginState string

const (
	StateUnauthenticated  LoginState = "unauthenticated"
	StatePasswordVerified LoginState = "password_verified"
	StateOtpPending       LoginState = "otp_pending"
	StateAuthenticated    LoginState = "authenticated"
	StateRejected         LoginState = "rejected"
)

// loginTransitions is the forward edge set of the login state machine.
// Rejection edges are implicit, every non terminal state may reject.
var loginTransitions = map[LoginState]map[LoginState]struct{}{
	StateUnauthenticated: {
		StatePasswordVerified: {},
	},
	StatePasswordVerified: {
		StateOtpPending: {},
	},
	StateOtpPending: {
		StateAuthenticated: {},
	},
}

// Terminal reports whether the state ends the attempt. A terminal state
// has no outgoing transitions; a new attempt starts from
// StateUnauthenticated.
func (s LoginState) Terminal() bool {
	return s == StateAuthenticated || s == StateRejected
}

// CanTransition reports whether a login attempt may move from this state
// to the target state.
func (s LoginState) CanTransition(to LoginState) bool {
	if s.Terminal() {
		return false
	}
	if to == StateRejected {
		return true
	}
	_, ok := loginTransitions[s][to]
	return ok
}
