// Package dbtest provides test doubles for the database package.
package dbtest

import (
	"context"
	"sync"
)

// SerialTx is a database.Transactor for in-memory stores. It runs one fn at a time,
// standing in for the row lock a real transaction would take.
type SerialTx struct {
	mu    sync.Mutex
	Calls int
}

// RunInTx runs fn while holding the lock.
func (s *SerialTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	return fn(ctx)
}
