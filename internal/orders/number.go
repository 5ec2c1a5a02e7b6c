package orders

import (
	"fmt"
	"sync"
	"time"
)

// numberGenerator issues ORD-<unix millis> order numbers that never repeat or
// go backwards within the process.
type numberGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func newNumberGenerator(now func() time.Time) *numberGenerator {
	if now == nil {
		now = time.Now
	}
	return &numberGenerator{now: now}
}

func (g *numberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	millis := g.now().UnixMilli()
	if millis <= g.last {
		millis = g.last + 1
	}
	g.last = millis
	return fmt.Sprintf("ORD-%d", millis)
}
