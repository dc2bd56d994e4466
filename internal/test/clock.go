package test

import (
	"sync"
	"time"
)

// ClockStub returns a fixed instant that tests can move.
type ClockStub struct {
	mu sync.Mutex
	T  time.Time
}

// NewClockStub constructs clock fixed at t.
func NewClockStub(t time.Time) *ClockStub {
	return &ClockStub{T: t}
}

// Now returns the configured instant.
func (c *ClockStub) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.T
}

// Set moves the clock.
func (c *ClockStub) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.T = t
}

// RecorderStub counts business metrics in-memory.
type RecorderStub struct {
	mu          sync.Mutex
	Validations map[string]int
	Placed      map[string]int
	Transitions map[string]int
	Payments    map[string]int
	Relayed     map[string]int
}

// NewRecorderStub constructs stub with initialized maps.
func NewRecorderStub() *RecorderStub {
	return &RecorderStub{
		Validations: make(map[string]int),
		Placed:      make(map[string]int),
		Transitions: make(map[string]int),
		Payments:    make(map[string]int),
		Relayed:     make(map[string]int),
	}
}

func (r *RecorderStub) ValidationCompleted(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Validations[result]++
}

func (r *RecorderStub) OrderPlaced(store string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Placed[store]++
}

func (r *RecorderStub) OrderTransitioned(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Transitions[status]++
}

func (r *RecorderStub) PaymentChecked(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Payments[outcome]++
}

func (r *RecorderStub) EventRelayed(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Relayed[outcome]++
}

// Count returns a counter value under the stub's lock.
func (r *RecorderStub) Count(counter map[string]int, key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return counter[key]
}
