package protocol

import (
	"bytes"
	"testing"

	"github.com/inkwell-labs/thermaldoc/ir"
	"github.com/inkwell-labs/thermaldoc/profile"
	"github.com/inkwell-labs/thermaldoc/raster"
)

func TestEncodeInitAndText(t *testing.T) {
	ops := []ir.Op{ir.Init{}, ir.Text{S: "hi"}, ir.Newline{}, ir.Cut{}}
	got, err := Encode(ops, profile.Default203DPI576)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{ESC, '@', 'h', 'i', LF, GS, 'V', 1}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode = %v, want %v", got, want)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	ops := []ir.Op{ir.Init{}, ir.SetBold{On: true}, ir.Text{S: "x"}, ir.SetBold{On: false}}
	a, err := Encode(ops, profile.Default203DPI576)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encode(ops, profile.Default203DPI576)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("Encode is not deterministic: %v != %v", a, b)
	}
}

func TestEncodeBandModeRejectsNonMultipleOf24(t *testing.T) {
	buf := raster.Pack(raster.NewBuffer(16, 25))
	ops := []ir.Op{ir.Raster{Buf: buf, Mode: ir.RasterModeBand}}
	_, err := Encode(ops, profile.Default203DPI576)
	if err == nil {
		t.Fatal("expected an error for a non-24-aligned band-mode raster")
	}
}

func TestEncodeBandModeAcceptsMultipleOf24(t *testing.T) {
	buf := raster.Pack(raster.NewBuffer(16, 48))
	ops := []ir.Op{ir.Raster{Buf: buf, Mode: ir.RasterModeBand}}
	got, err := Encode(ops, profile.Default203DPI576)
	if err != nil {
		t.Fatal(err)
	}
	// Two 24-row bands, each with its own GS v 0 header.
	headers := bytes.Count(got, []byte{GS, 'v', '0', 0})
	if headers != 2 {
		t.Fatalf("expected 2 raster headers for a 48-row band image, got %d", headers)
	}
}

func TestEncodePageModeSingleHeader(t *testing.T) {
	buf := raster.Pack(raster.NewBuffer(16, 50))
	ops := []ir.Op{ir.Raster{Buf: buf, Mode: ir.RasterModePage}}
	got, err := Encode(ops, profile.Default203DPI576)
	if err != nil {
		t.Fatal(err)
	}
	headers := bytes.Count(got, []byte{GS, 'v', '0', 0})
	if headers != 1 {
		t.Fatalf("expected exactly 1 raster header in page mode, got %d", headers)
	}
}

func TestEncodeCashDrawerSwapsOutOfOrderPulseTimes(t *testing.T) {
	ops := []ir.Op{ir.OpenDrawer{Pin: 0, OnMS: 200, OffMS: 50}}
	got, err := Encode(ops, profile.Default203DPI576)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{ESC, 'p', 0, 50, 200}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode = %v, want %v", got, want)
	}
}

func TestEncodeUnpayloadedBarcodeIsNoOp(t *testing.T) {
	ops := []ir.Op{ir.Init{}, ir.Barcode{Kind: ir.BarcodeCode128, Payload: ""}}
	got, err := Encode(ops, profile.Default203DPI576)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{ESC, '@'}
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode = %v, want %v", got, want)
	}
}

func TestEncodeNvLogoStoreRecallDeleteCarryTheSameKey(t *testing.T) {
	key := [2]byte{'A', 'B'}
	buf := raster.Pack(raster.NewBuffer(8, 8))
	store, err := Encode([]ir.Op{ir.NvLogoStore{Key: key, Buf: buf}}, profile.Default203DPI576)
	if err != nil {
		t.Fatal(err)
	}
	recall, err := Encode([]ir.Op{ir.NvLogoRecall{Key: key, ScaleX: 1, ScaleY: 1}}, profile.Default203DPI576)
	if err != nil {
		t.Fatal(err)
	}
	del, err := Encode([]ir.Op{ir.NvLogoDelete{Key: key}}, profile.Default203DPI576)
	if err != nil {
		t.Fatal(err)
	}
	const FS = 0x1C
	wantStorePrefix := []byte{FS, 'q', 'A', 'B'}
	if !bytes.HasPrefix(store, wantStorePrefix) {
		t.Fatalf("store header = %v, want prefix %v", store, wantStorePrefix)
	}
	wantRecall := []byte{FS, 'p', 'A', 'B', 1}
	if !bytes.Equal(recall, wantRecall) {
		t.Fatalf("recall = %v, want %v", recall, wantRecall)
	}
	wantDelete := []byte{FS, 'p', 'A', 'B', 0xFF}
	if !bytes.Equal(del, wantDelete) {
		t.Fatalf("delete = %v, want %v", del, wantDelete)
	}
}

func TestDrainRecordsOpShapes(t *testing.T) {
	ops := []ir.Op{ir.Init{}, ir.Text{S: "a"}, ir.Cut{}}
	n := Drain(ops)
	if len(n.Calls) != 3 {
		t.Fatalf("Calls = %v, want 3 entries", n.Calls)
	}
}
