package scoopmetrics

import "sync/atomic"

// Counters is a concrete, lock-free Stats implementation updated in place
// as operations happen: cache.Downloader updates the download counters;
// PullStarted and PullFailed have no caller in this module.
type Counters struct {
	downloadsInFlight int64
	bytesDownloaded   int64
	downloadFailures  int64
	pullsTotal        int64
	pullFailures      int64
}

var _ Stats = (*Counters)(nil)

func (c *Counters) DownloadsInFlight() int64 { return atomic.LoadInt64(&c.downloadsInFlight) }
func (c *Counters) BytesDownloaded() int64   { return atomic.LoadInt64(&c.bytesDownloaded) }
func (c *Counters) DownloadFailures() int64  { return atomic.LoadInt64(&c.downloadFailures) }
func (c *Counters) PullsTotal() int64        { return atomic.LoadInt64(&c.pullsTotal) }
func (c *Counters) PullFailures() int64      { return atomic.LoadInt64(&c.pullFailures) }

func (c *Counters) DownloadStarted()       { atomic.AddInt64(&c.downloadsInFlight, 1) }
func (c *Counters) DownloadFinished()      { atomic.AddInt64(&c.downloadsInFlight, -1) }
func (c *Counters) AddBytesDownloaded(n int64) { atomic.AddInt64(&c.bytesDownloaded, n) }
func (c *Counters) DownloadFailed()        { atomic.AddInt64(&c.downloadFailures, 1) }
func (c *Counters) PullStarted()           { atomic.AddInt64(&c.pullsTotal, 1) }
func (c *Counters) PullFailed()            { atomic.AddInt64(&c.pullFailures, 1) }
