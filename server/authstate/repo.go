package authstate

import "time"

// State tracks a pending federated-login round trip between the redirect to
// the provider and its callback.
type State struct {
	Value     string
	CreatedAt time.Time
}

// Repo stores pending federated-login state values. Entries are single-use
// and short-lived; the callback consumes them.
type Repo interface {
	Put(state *State) error
	Consume(value string) (*State, error)
	DeleteExpired(cutoff time.Time) error
}
