package barcode

import (
	"testing"

	"github.com/inkwell-labs/thermaldoc/ir"
)

func TestRenderProducesRequestedDimensions(t *testing.T) {
	cases := []struct {
		kind    ir.BarcodeKind
		payload string
	}{
		{ir.BarcodeQR, "https://example.com/receipt/123"},
		{ir.BarcodeCode128, "ABC-123456"},
		{ir.BarcodeCode39, "CODE39TEST"},
		{ir.BarcodeEAN13, "400638133393"},
		{ir.BarcodeUPCA, "03600029145"},
		{ir.BarcodeITF, "1234567890"},
	}
	for _, c := range cases {
		buf, err := Render(c.kind, c.payload, 200, 80)
		if err != nil {
			t.Fatalf("kind %d: Render error: %v", c.kind, err)
		}
		if buf.Width != 200 || buf.Height != 80 {
			t.Fatalf("kind %d: dims = %dx%d, want 200x80", c.kind, buf.Width, buf.Height)
		}
	}
}

func TestRenderRejectsZeroSize(t *testing.T) {
	if _, err := Render(ir.BarcodeQR, "x", 0, 0); err == nil {
		t.Fatal("expected an error for zero-sized render")
	}
}

func TestRenderRejectsUnknownKind(t *testing.T) {
	if _, err := encode(ir.BarcodeKind(99), "x"); err == nil {
		t.Fatal("expected an error for an unknown symbology")
	}
}
