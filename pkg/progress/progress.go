// Package progress renders analysis progress with a terminal bar. It
// implements the analyzer.Tracker interface so the CLI can thread it
// through a context.
package progress

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// Bar is a terminal progress bar tracker.
type Bar struct {
	label string
	bar   *progressbar.ProgressBar
}

// NewBar creates a tracker that renders to stderr once Start is
// called.
func NewBar(label string) *Bar {
	return &Bar{label: label}
}

func (b *Bar) Start(total int) {
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(b.label),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (b *Bar) Increment() {
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

func (b *Bar) Finish() {
	if b.bar != nil {
		_ = b.bar.Finish()
	}
}
