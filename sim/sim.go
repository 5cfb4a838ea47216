// Package sim implements the global logical clock: the driver that
// advances every tick-able component in the topology one step at a time.
// tick() calls are not sequenced relative to one another within a step;
// the driver only guarantees that every component has finished its
// current step before the next one starts.
package sim

import "sync"

// Ticker is implemented by every time-advanced component: Hub, Bus, and
// Switch. EndDevice has no Ticker implementation of its own because its
// MAC direction already runs its own long-lived byte-transmitter
// coroutine; it participates in the simulation passively.
type Ticker interface {
	Tick()
}

// Driver holds the set of components advanced together on each Step.
type Driver struct {
	tickers []Ticker
}

// New builds a Driver over the given components, in the order Step will
// invoke them each step. Order does not affect correctness: tick() calls
// within one step carry no ordering guarantee relative to each other.
func New(tickers ...Ticker) *Driver {
	return &Driver{tickers: tickers}
}

// Add registers another component to be advanced on every future Step.
func (d *Driver) Add(t Ticker) {
	d.tickers = append(d.tickers, t)
}

// Step advances every registered component exactly once, concurrently,
// and blocks until all of them have returned from Tick. This is the
// happens-before edge the specification promises between tick N and tick
// N+1 on the same component.
func (d *Driver) Step() {
	var wg sync.WaitGroup
	wg.Add(len(d.tickers))
	for _, t := range d.tickers {
		go func(t Ticker) {
			defer wg.Done()
			t.Tick()
		}(t)
	}
	wg.Wait()
}

// Run calls Step n times, the usual way a test or a driver loop pumps the
// logical clock until it expects a topology-wide effect to have
// propagated.
func (d *Driver) Run(n int) {
	for i := 0; i < n; i++ {
		d.Step()
	}
}
