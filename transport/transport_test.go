package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkwell-labs/thermaldoc/ir"
	"github.com/inkwell-labs/thermaldoc/profile"
	"github.com/inkwell-labs/thermaldoc/raster"
	"github.com/inkwell-labs/thermaldoc/xerr"
)

func rasterOp(height int) ir.Raster {
	g := raster.NewBuffer(8, height)
	return ir.Raster{Buf: raster.Pack(g), Mode: ir.RasterModePage}
}

func TestPrintSplitsAndWritesEachSubProgramInOrder(t *testing.T) {
	sink := NewMemSink()
	tr := New(sink).WithPause(time.Millisecond)

	prog := ir.Program{Ops: []ir.Op{
		ir.Init{},
		rasterOp(2000),
		ir.Cut{},
	}}

	if err := tr.Print(context.Background(), prog, profile.Default203DPI576, 1000); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if len(sink.Writes) != 2 {
		t.Fatalf("expected 2 writes (one per sub-program), got %d", len(sink.Writes))
	}
}

func TestPrintRefusesAfterClose(t *testing.T) {
	sink := NewMemSink()
	tr := New(sink)
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	prog := ir.Program{Ops: []ir.Op{ir.Init{}, ir.Text{S: "x"}, ir.Cut{}}}
	err := tr.Print(context.Background(), prog, profile.Default203DPI576, 1000)
	if !errors.Is(err, xerr.DeviceUnavailableErr) {
		t.Fatalf("expected DeviceUnavailable after Close, got %v", err)
	}
}

func TestPrintObservesAlreadyCancelledContext(t *testing.T) {
	sink := NewMemSink()
	tr := New(sink)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prog := ir.Program{Ops: []ir.Op{ir.Init{}, ir.Text{S: "x"}, ir.Cut{}}}
	err := tr.Print(ctx, prog, profile.Default203DPI576, 1000)
	if !errors.Is(err, xerr.CancelledErr) {
		t.Fatalf("expected Cancelled, got %v", err)
	}
	if len(sink.Writes) != 0 {
		t.Fatalf("no bytes should be written for an already-cancelled context")
	}
}

// blockingSink never returns from Write until unblock is closed, so
// tests can assert that Print's cancellation path does not wait for it.
type blockingSink struct {
	unblock chan struct{}
}

func (b *blockingSink) Write(p []byte) (int, error) {
	<-b.unblock
	return len(p), nil
}

func (b *blockingSink) Close() error { return nil }

func TestPrintObservesCancellationDuringBlockingWrite(t *testing.T) {
	sink := &blockingSink{unblock: make(chan struct{})}
	defer close(sink.unblock)
	tr := New(sink)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	prog := ir.Program{Ops: []ir.Op{ir.Init{}, ir.Text{S: "x"}, ir.Cut{}}}
	start := time.Now()
	err := tr.Print(ctx, prog, profile.Default203DPI576, 1000)
	if !errors.Is(err, xerr.CancelledErr) {
		t.Fatalf("expected Cancelled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Print should return promptly on cancellation, took %v", elapsed)
	}
}

func TestPrintObservesCancellationDuringPause(t *testing.T) {
	sink := NewMemSink()
	tr := New(sink).WithPause(time.Hour)

	prog := ir.Program{Ops: []ir.Op{
		ir.Init{},
		rasterOp(2000),
		ir.Cut{},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := tr.Print(ctx, prog, profile.Default203DPI576, 1000)
	if !errors.Is(err, xerr.CancelledErr) {
		t.Fatalf("expected Cancelled while paused between sub-programs, got %v", err)
	}
	if len(sink.Writes) != 1 {
		t.Fatalf("expected exactly 1 sub-program written before cancellation, got %d", len(sink.Writes))
	}
}
