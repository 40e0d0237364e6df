// Package analyzer holds the progress plumbing shared by the analysis
// packages. Long-running analyses report progress through a Tracker
// carried on the context so library code stays decoupled from any
// particular progress UI.
package analyzer

import "context"

// Tracker receives progress updates during multi-file analysis.
type Tracker interface {
	// Start is called with the total number of units of work.
	Start(total int)
	// Increment is called as each unit completes.
	Increment()
	// Finish is called when analysis completes.
	Finish()
}

type trackerKey struct{}

// WithTracker returns a context carrying the tracker.
func WithTracker(ctx context.Context, t Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext extracts a tracker, returning a no-op tracker if
// none is set.
func TrackerFromContext(ctx context.Context) Tracker {
	if t, ok := ctx.Value(trackerKey{}).(Tracker); ok && t != nil {
		return t
	}
	return noopTracker{}
}

type noopTracker struct{}

func (noopTracker) Start(int)  {}
func (noopTracker) Increment() {}
func (noopTracker) Finish()    {}
