// Package progress unifies the two shapes of progress gitrepo and cache
// need to report — byte-counted downloads and step-counted git
// operations — behind one small interface, backed by
// github.com/schollz/progressbar/v3 the way the retrieval pack's
// download-and-install tools (haya14busa-binstaller) report transfer
// progress to a terminal.
package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter is the minimal contract cache and gitrepo drive progress
// through: set a total once known, add incremental progress, and signal
// completion.
type Reporter interface {
	SetTotal(total int64)
	Add(n int64)
	SetMessage(msg string)
	Finish()
}

// Bar adapts a *progressbar.ProgressBar to Reporter.
type Bar struct {
	bar *progressbar.ProgressBar
}

var _ Reporter = (*Bar)(nil)

// NewBar creates a byte-counted progress bar with description desc.
// total may be 0 if unknown (Content-Length absent); SetTotal updates it
// once discovered.
func NewBar(total int64, desc string) *Bar {
	b := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &Bar{bar: b}
}

func (b *Bar) SetTotal(total int64) { b.bar.ChangeMax64(total) }
func (b *Bar) Add(n int64)          { _ = b.bar.Add64(n) }
func (b *Bar) SetMessage(msg string) {
	b.bar.Describe(msg)
}
func (b *Bar) Finish() { _ = b.bar.Finish() }

// Writer returns an io.Writer that reports every Write's length as
// progress, for use as the destination half of an io.Copy from a
// download body into a cache file.
func (b *Bar) Writer() io.Writer { return b.bar }

// MultiAggregator fans a batch of concurrent downloads' progress into
// one Reporter per URL, for concurrent download batches.
type MultiAggregator struct {
	desc func(i int) string
}

// NewMultiAggregator builds an aggregator that labels the i'th bar using
// desc.
func NewMultiAggregator(desc func(i int) string) *MultiAggregator {
	return &MultiAggregator{desc: desc}
}

// Bar returns a fresh Reporter for item i of a concurrent batch.
func (m *MultiAggregator) Bar(i int, total int64) *Bar {
	label := ""
	if m.desc != nil {
		label = m.desc(i)
	}
	return NewBar(total, label)
}

// GitSideband adapts a Reporter to the io.Writer shape go-git's
// FetchOptions.Progress expects for sideband (pack transfer) progress
// text; it treats every write as an opaque chunk of progress bytes since
// go-git only emits human-readable lines, not parsed counts.
func GitSideband(r Reporter) io.Writer { return sidebandWriter{r} }

type sidebandWriter struct{ r Reporter }

func (s sidebandWriter) Write(p []byte) (int, error) {
	s.r.Add(int64(len(p)))
	return len(p), nil
}
