package document

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// stepClock advances by one minute on every call.
type stepClock struct {
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

// cloneCmpOpts compares templates field by field while ignoring the metadata
// fields a clone is expected to reset.
var cloneCmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(Document{}),
	cmpopts.IgnoreFields(Metadata{}, "LastModified", "Version"),
	cmpopts.EquateEmpty(),
}

type metricsFunc func(op string, success bool)

func (f metricsFunc) Observe(op string, success bool, _ time.Duration) { f(op, success) }
