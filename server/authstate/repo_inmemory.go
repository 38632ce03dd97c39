package authstate

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	states map[string]*State
	lock   sync.Mutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		states: make(map[string]*State),
	}
}

func (r *InMemoryRepo) Put(state *State) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.states[state.Value] = state
	return nil
}

func (r *InMemoryRepo) Consume(value string) (*State, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	state, ok := r.states[value]
	if !ok {
		return nil, errors.New("unknown state")
	}
	delete(r.states, value)
	return state, nil
}

func (r *InMemoryRepo) DeleteExpired(cutoff time.Time) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for value, state := range r.states {
		if state.CreatedAt.Before(cutoff) {
			delete(r.states, value)
		}
	}
	return nil
}
