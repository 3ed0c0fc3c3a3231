package transport

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/inkwell-labs/thermaldoc/ir"
	"github.com/inkwell-labs/thermaldoc/profile"
	"github.com/inkwell-labs/thermaldoc/protocol"
	"github.com/inkwell-labs/thermaldoc/segment"
	"github.com/inkwell-labs/thermaldoc/xerr"
)

// DefaultPause is the default rest period between consecutive
// sub-programs of a segmented job, giving the printer's own buffer time
// to drain before the next raster lands.
const DefaultPause = 1 * time.Second

// Transport owns one physical Sink and serializes every job through it:
// a single mutex ensures sub-programs of concurrent jobs never
// interleave on the wire, and jobs run one at a time in the order they
// acquire it (sync.Mutex does not guarantee that this is call order).
//
// Grounded on rusq-thermoprint's printBuffer: a ticker-paced send loop
// that selects on ctx.Done() between packets, generalized here from a
// fixed per-packet interval to a per-sub-program pause.
type Transport struct {
	mu    sync.Mutex
	sink  Sink
	pause time.Duration

	closed bool
}

// New wraps sink with the default inter-sub-program pause.
func New(sink Sink) *Transport {
	return &Transport{sink: sink, pause: DefaultPause}
}

// WithPause overrides the default inter-sub-program pause.
func (t *Transport) WithPause(d time.Duration) *Transport {
	t.pause = d
	return t
}

// Print lowers p into wire bytes (splitting it into bounded sub-programs
// via segment.Segment when it exceeds maxRowsPerJob) and writes each
// sub-program to the sink in order, pausing between them.
//
// Cancellation is observed at exactly two points inside this call: the
// inter-sub-program pause, and the blocking sink write. If ctx is
// already cancelled when Print is called, no bytes are written and the
// sink is left untouched. Once cancellation is observed, Print returns
// immediately after the in-flight sub-program's write completes (or is
// itself interrupted) — no further sub-programs are attempted or
// accepted.
func (t *Transport) Print(ctx context.Context, prog ir.Program, prof profile.Profile, maxRowsPerJob int) error {
	if err := ctx.Err(); err != nil {
		return xerr.Cancelled()
	}

	subs := segment.Segment(prog, maxRowsPerJob)
	slog.DebugContext(ctx, "transport print", "ops", len(prog.Ops), "subprograms", len(subs))

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		slog.Warn("transport print rejected, transport closed")
		return xerr.DeviceUnavailable(nil)
	}

	for i, sub := range subs {
		bytes, err := protocol.Encode(sub.Ops, prof)
		if err != nil {
			return err
		}
		slog.DebugContext(ctx, "writing sub-program", "index", i, "of", len(subs), "bytes", len(bytes))
		if err := t.writeBlocking(ctx, bytes); err != nil {
			return err
		}
		if sub.PauseHint && i < len(subs)-1 {
			if err := t.sleep(ctx, t.pauseDuration()); err != nil {
				return err
			}
		}
	}
	slog.InfoContext(ctx, "transport print complete", "subprograms", len(subs))
	return nil
}

func (t *Transport) pauseDuration() time.Duration {
	if t.pause <= 0 {
		return DefaultPause
	}
	return t.pause
}

// writeBlocking performs the sink write on its own goroutine so a
// cancelled context can be observed even while the underlying Write
// call blocks (serial/Bluetooth I/O has no context awareness of its
// own).
func (t *Transport) writeBlocking(ctx context.Context, p []byte) error {
	done := make(chan error, 1)
	go func() {
		_, err := t.sink.Write(p)
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The in-flight write is not aborted (the sink has no cancel
		// hook); the caller is told the job was cancelled but any bytes
		// already in transit may still reach the printer.
		return xerr.Cancelled()
	}
}

func (t *Transport) sleep(ctx context.Context, d time.Duration) error {
	slog.DebugContext(ctx, "pausing between sub-programs", "duration", d)
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return xerr.Cancelled()
	}
}

// Close marks the transport refused for further jobs and releases the
// underlying sink. After Close, Print always fails with
// xerr.DeviceUnavailable.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	slog.Info("transport closed")
	return t.sink.Close()
}
