// Package barcode adapts github.com/boombuler/barcode's symbology
// encoders to thermaldoc's raster pipeline: payload in, packed bit
// buffer at native module size out.
package barcode

import (
	"image"
	"image/color"

	gobarcode "github.com/boombuler/barcode"
	twooffive "github.com/boombuler/barcode/2of5"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/pdf417"
	"github.com/boombuler/barcode/qr"

	"github.com/inkwell-labs/thermaldoc/ir"
	"github.com/inkwell-labs/thermaldoc/raster"
	"github.com/inkwell-labs/thermaldoc/xerr"
)

// pdf417SecurityLevel matches the library's default recommendation for
// receipt-scale payloads (levels run 0-8; higher adds more error
// correction at the cost of size).
const pdf417SecurityLevel = 5

// Render encodes payload as kind and rasterizes it to a packed 1-bit
// buffer scaled to width x height dots. Used by document.Lower when the
// caller sets Options.RasterizeBarcodes, and for barcodes placed inside
// a canvas.
func Render(kind ir.BarcodeKind, payload string, width, height int) (*raster.BitBuffer, error) {
	bc, err := encode(kind, payload)
	if err != nil {
		return nil, xerr.InvalidParam("barcode", "payload", err.Error())
	}
	if width <= 0 || height <= 0 {
		return nil, xerr.InvalidParam("barcode", "size", "width and height must be positive")
	}
	scaled, err := gobarcode.Scale(bc, width, height)
	if err != nil {
		return nil, xerr.InvalidParam("barcode", "size", err.Error())
	}
	return raster.Pack(toBuffer(scaled)), nil
}

// encode dispatches to the symbology-specific encoder. UPC-A has no
// dedicated encoder in the library; it is EAN-13 with a leading
// number-system digit of 0, the standard relationship between the two numbering
// systems, so it reuses ean.Encode with a prefixed payload.
func encode(kind ir.BarcodeKind, payload string) (gobarcode.Barcode, error) {
	switch kind {
	case ir.BarcodeQR:
		return qr.Encode(payload, qr.M, qr.Auto)
	case ir.BarcodePDF417:
		return pdf417.Encode(payload, pdf417SecurityLevel)
	case ir.BarcodeCode128:
		return code128.Encode(payload)
	case ir.BarcodeCode39:
		return code39.Encode(payload, false, true)
	case ir.BarcodeEAN13:
		return ean.Encode(payload)
	case ir.BarcodeUPCA:
		return ean.Encode("0" + payload)
	case ir.BarcodeITF:
		return twooffive.Encode(payload, true)
	default:
		return nil, xerr.InvalidParam("barcode", "kind", "unknown symbology")
	}
}

// toBuffer converts a scaled barcode.Barcode (image.Image, black=ink)
// to the Buffer convention used everywhere else (0=white, 255=ink).
func toBuffer(img image.Image) *raster.Buffer {
	b := img.Bounds()
	out := raster.NewBuffer(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			out.Set(x, y, 255-g.Y)
		}
	}
	return out
}
