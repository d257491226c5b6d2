package comport

import (
	"time"

	"go.uber.org/atomic"
)

// Stats is a point-in-time copy of a port's I/O counters.
type Stats struct {
	OpenedAt     time.Time
	Reads        int64 // Read calls that reached the OS
	Writes       int64 // Write calls that reached the OS
	BytesRead    int64
	BytesWritten int64
	ReadErrors   int64
	WriteErrors  int64
}

// counters tracks I/O statistics without locking so Stats may be called
// from any goroutine while another one is blocked in Read.
type counters struct {
	openedAt     time.Time
	reads        atomic.Int64
	writes       atomic.Int64
	bytesRead    atomic.Int64
	bytesWritten atomic.Int64
	readErrors   atomic.Int64
	writeErrors  atomic.Int64
}

func (c *counters) recordRead(n int, err error) {
	c.reads.Inc()
	c.bytesRead.Add(int64(n))
	if err != nil {
		c.readErrors.Inc()
	}
}

func (c *counters) recordWrite(n int, err error) {
	c.writes.Inc()
	c.bytesWritten.Add(int64(n))
	if err != nil {
		c.writeErrors.Inc()
	}
}

func (c *counters) snapshot() Stats {
	return Stats{
		OpenedAt:     c.openedAt,
		Reads:        c.reads.Load(),
		Writes:       c.writes.Load(),
		BytesRead:    c.bytesRead.Load(),
		BytesWritten: c.bytesWritten.Load(),
		ReadErrors:   c.readErrors.Load(),
		WriteErrors:  c.writeErrors.Load(),
	}
}
