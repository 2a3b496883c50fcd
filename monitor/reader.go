package monitor

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// DefaultBufferSize is the default size for the readings channel.
const DefaultBufferSize = 64

// Reader turns a line stream into Readings.
type Reader struct {
	r   io.Reader
	out chan Reading
	now func() time.Time

	lines     atomic.Uint64
	malformed atomic.Uint64
	dropped   atomic.Uint64
}

func NewReader(r io.Reader, bufSize int) *Reader {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Reader{r: r, out: make(chan Reading, bufSize), now: time.Now}
}

// Readings is closed when Run returns.
func (rd *Reader) Readings() <-chan Reading { return rd.out }

func (rd *Reader) Lines() uint64     { return rd.lines.Load() }
func (rd *Reader) Malformed() uint64 { return rd.malformed.Load() }
func (rd *Reader) Dropped() uint64   { return rd.dropped.Load() }

// Run reads until EOF, a read error or ctx cancellation. EOF is not an error.
// A cancelled ctx only takes effect between lines; close the underlying
// reader to interrupt a blocked read.
func (rd *Reader) Run(ctx context.Context) error {
	defer close(rd.out)

	scanner := bufio.NewScanner(rd.r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rd.lines.Add(1)

		r, err := ParseLine(line)
		if err != nil {
			rd.malformed.Add(1)
			glog.V(1).Infof("skipping line: %v", err)
			continue
		}
		r.Timestamp = rd.now()
		glog.V(2).Infof("reading %+v", r)

		select {
		case rd.out <- r:
		case <-ctx.Done():
			return ctx.Err()
		default:
			rd.dropped.Add(1)
			glog.Warning("readings channel full, dropping reading")
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}
