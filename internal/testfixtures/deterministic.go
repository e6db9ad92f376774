package testfixtures

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/humia/planning/internal/calendar"
)

// Clock is a settable time source shared by services under test.
type Clock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewClock starts at start, or at ReferenceTime for the zero value.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// NowFunc returns c.Now, or time.Now for a nil clock.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Today is the clock's date in planning form.
func (c *Clock) Today() string {
	return calendar.FormatDate(c.Now())
}

// IDGenerator hands out "<prefix>-<n>" identifiers, n starting at 1.
type IDGenerator struct {
	prefix string
	issued atomic.Uint64
}

func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

func (g *IDGenerator) Next() string {
	return g.prefix + "-" + strconv.FormatUint(g.issued.Add(1), 10)
}

// NextFunc returns g.Next, or a generator of empty ids for a nil g.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

func (g *IDGenerator) Issued() uint64 {
	return g.issued.Load()
}
