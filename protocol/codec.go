// Package protocol translates a finished ir.Op stream into the bytes a
// 203 DPI, 576-dot thermal printer understands. It holds every protocol
// constant (init, align, emphasis, underline, feed, raster headers,
// barcode opcodes, NV graphic recall, cut variants) behind one pure
// function: no I/O, no retries, deterministic output for a given
// stream and profile.
package protocol

import (
	"fmt"

	"github.com/inkwell-labs/thermaldoc/ir"
	"github.com/inkwell-labs/thermaldoc/profile"
	"github.com/inkwell-labs/thermaldoc/raster"
	"github.com/inkwell-labs/thermaldoc/xerr"
)

// Encode renders ops to their byte representation for the given
// profile. The returned slice is always a fresh allocation. Encode
// never mutates ops or the buffers it references.
func Encode(ops []ir.Op, p profile.Profile) ([]byte, error) {
	e := &encoder{profile: p}
	for _, op := range ops {
		if err := e.emit(op); err != nil {
			return nil, err
		}
	}
	return e.buf, nil
}

type encoder struct {
	buf     []byte
	profile profile.Profile
}

func (e *encoder) write(bs ...byte) {
	e.buf = append(e.buf, bs...)
}

func (e *encoder) emit(op ir.Op) error {
	switch o := op.(type) {
	case ir.Init:
		e.write(ESC, '@')
	case ir.SetBold:
		e.write(ESC, 'E', boolByte(o.On))
	case ir.SetUnderline:
		e.write(ESC, '-', boolByte(o.On))
	case ir.SetInvert:
		// GS B n: white/black reverse printing.
		e.write(GS, 'B', boolByte(o.On))
	case ir.SetUpperline:
		// No teacher precedent; modeled on Underline's shape as a
		// vendor-extension overline toggle.
		e.write(ESC, '_', boolByte(o.On))
	case ir.SetUpsideDown:
		e.write(ESC, '{', boolByte(o.On))
	case ir.SetReduced:
		if o.On {
			e.write(SI)
		} else {
			e.write(DC2)
		}
	case ir.SetAlign:
		e.write(ESC, 'a', minByte(byte(o.Align), 2))
	case ir.SetFont:
		// The device only has two native fonts; FontIBM is rasterized
		// during lowering and never reaches the codec as SetFont.
		n := byte(o.Font)
		if n > 1 {
			n = 0
		}
		e.write(ESC, 'M', n)
	case ir.SetSize:
		h := minByte(sub1(o.H), 7)
		w := minByte(sub1(o.W), 7)
		e.write(GS, '!', w<<4+h)
	case ir.Text:
		e.write([]byte(o.S)...)
	case ir.Newline:
		e.write(LF)
	case ir.FeedUnits:
		e.emitFeed(o.N)
	case ir.Cut:
		e.write(GS, 'V', 1)
	case ir.Raster:
		return e.emitRaster(o)
	case ir.Barcode:
		return e.emitBarcode(o)
	case ir.NvLogoRecall:
		e.emitNvLogoRecall(o)
	case ir.NvLogoStore:
		e.emitNvLogoStore(o)
	case ir.NvLogoDelete:
		e.emitNvLogoDelete(o)
	case ir.NvLogoDeleteAll:
		e.emitNvLogoDeleteAll()
	case ir.OpenDrawer:
		e.emitOpenDrawer(o)
	case ir.Raw:
		e.write(o.Bytes...)
	default:
		return xerr.ProtocolInvariantViolated(fmt.Sprintf("unknown op type %T", op))
	}
	return nil
}

// emitFeed splits an arbitrarily large dot-unit feed into ESC J calls,
// each of which carries at most a single byte's worth of units, per
// the teacher's Feed(b byte) signature.
func (e *encoder) emitFeed(n int) {
	for n > 0 {
		step := n
		if step > 255 {
			step = 255
		}
		if step > 0 {
			e.write(ESC, 'J', byte(step))
		}
		n -= step
	}
}

// emitRaster writes a packed bit buffer using either the page-mode
// header (GS v 0, lifted from the teacher's imageObsolete) or, for band
// mode, a sequence of 24-row slabs each carrying the same header. Band
// mode requires height % 24 == 0; the codec refuses otherwise rather
// than silently truncating or padding.
func (e *encoder) emitRaster(o ir.Raster) error {
	buf := o.Buf
	if buf == nil || len(buf.Bits) == 0 {
		return nil
	}
	switch o.Mode {
	case ir.RasterModeBand:
		if buf.Height%24 != 0 {
			return xerr.ProtocolInvariantViolated(fmt.Sprintf("band-mode raster height %d is not a multiple of 24", buf.Height))
		}
		for y0 := 0; y0 < buf.Height; y0 += 24 {
			band, err := buf.Slice(y0, y0+24)
			if err != nil {
				return xerr.ProtocolInvariantViolated(err.Error())
			}
			e.writeRasterHeader(band)
		}
	default:
		e.writeRasterHeader(buf)
	}
	return nil
}

func (e *encoder) writeRasterHeader(buf *raster.BitBuffer) {
	w := buf.Stride
	h := buf.Height
	e.write(GS, 'v', '0', 0, byte(w), byte(w>>8), byte(h), byte(h>>8))
	e.write(buf.Bits...)
}

func (e *encoder) emitBarcode(o ir.Barcode) error {
	switch o.Kind {
	case ir.BarcodeQR:
		e.emitQR(o)
	case ir.BarcodePDF417:
		e.emitPDF417(o)
	default:
		b, ok := barcode1DType[o.Kind]
		if !ok {
			return xerr.ProtocolInvariantViolated(fmt.Sprintf("unsupported barcode kind %d", o.Kind))
		}
		if len(o.Payload) == 0 {
			return nil
		}
		if o.ModuleWidth > 0 {
			e.write(GS, 'w', minByte(maxByte(o.ModuleWidth, 1), 6))
		}
		if o.ModuleHeight > 0 {
			e.write(GS, 'h', maxByte(o.ModuleHeight, 1))
		}
		if o.HRIPosition > 0 {
			e.write(GS, 'H', minByte(o.HRIPosition, 3))
		}
		e.write(GS, 'k', b, byte(len(o.Payload)))
		e.write([]byte(o.Payload)...)
	}
	return nil
}

// emitQR follows the teacher's QRCode: store the payload into the
// symbol storage area (cn=49, fn=80), then print it (cn=49, fn=81).
// ModuleWidth carries the module size (cn=49, fn=67); ModuleHeight is
// reused to carry the 0-3 error-correction level (cn=49, fn=69), since
// ir.Barcode has no dedicated field for it.
func (e *encoder) emitQR(o ir.Barcode) {
	if len(o.Payload) == 0 {
		return
	}
	if o.ModuleWidth > 0 {
		e.write(GS, '(', 'k', 3, 0, 49, 67, minByte(maxByte(o.ModuleWidth, 1), 16))
	}
	if o.ModuleHeight <= 3 {
		e.write(GS, '(', 'k', 3, 0, 49, 69, o.ModuleHeight+48)
	}
	l := len(o.Payload) + 3
	pl, ph := byte(l), byte(l>>8)
	e.write(GS, '(', 'k', pl, ph, 49, 80, 48)
	e.write([]byte(o.Payload)...)
	e.write(GS, '(', 'k', 3, 0, 49, 81, 48)
}

// emitPDF417 mirrors the QR store/print shape under the PDF417
// function number (cn=48) rather than QR's (cn=49); no teacher
// precedent exists for this symbology, so the parameter block follows
// the same two-step store-then-print structure for consistency.
func (e *encoder) emitPDF417(o ir.Barcode) {
	if len(o.Payload) == 0 {
		return
	}
	if o.ModuleWidth > 0 {
		e.write(GS, '(', 'k', 3, 0, 48, 67, minByte(maxByte(o.ModuleWidth, 1), 8))
	}
	if o.ModuleHeight > 0 {
		e.write(GS, '(', 'k', 3, 0, 48, 68, maxByte(o.ModuleHeight, 2))
	}
	l := len(o.Payload) + 3
	pl, ph := byte(l), byte(l>>8)
	e.write(GS, '(', 'k', pl, ph, 48, 80, 48)
	e.write([]byte(o.Payload)...)
	e.write(GS, '(', 'k', 3, 0, 48, 81, 48)
}

// emitNvLogoRecall prints a stored NV graphic by key: FS p n1 n2 m, the
// standard NV bit-image print opcode extended with a second key byte
// (spec.md §6: "logo keys are exactly two printable ASCII bytes"). m
// derives from ScaleX/ScaleY (each 1 or 2) the same way the standard
// encodes normal/double-width/double-height/quad as m = 1..4.
func (e *encoder) emitNvLogoRecall(o ir.NvLogoRecall) {
	const FS = 0x1C
	m := byte(1)
	switch {
	case o.ScaleX > 1 && o.ScaleY > 1:
		m = 4
	case o.ScaleY > 1:
		m = 3
	case o.ScaleX > 1:
		m = 2
	}
	e.write(FS, 'p', o.Key[0], o.Key[1], m)
}

// emitNvLogoStore uploads a bitmap into NV graphic memory: FS q n1 n2
// [xL xH yL yH d1..dk], n1/n2 the same two-byte key NvLogoRecall later
// addresses it by. No teacher precedent; modeled on emitRaster's
// width/height header shape since the device's real NV-store parameter
// block is vendor-specific and out of scope for the documented opcode
// table.
func (e *encoder) emitNvLogoStore(o ir.NvLogoStore) {
	const FS = 0x1C
	buf := o.Buf
	if buf == nil || len(buf.Bits) == 0 {
		return
	}
	w, h := buf.Stride, buf.Height
	e.write(FS, 'q', o.Key[0], o.Key[1], byte(w), byte(w>>8), byte(h), byte(h>>8))
	e.write(buf.Bits...)
}

// emitNvLogoDelete and emitNvLogoDeleteAll have no standard ESC/POS
// opcode in the documented table; they reuse NvLogoRecall's FS p shape
// with a reserved m value (0xFF) meaning "delete" rather than "print",
// a vendor-extension convention consistent with SetUpperline's.
func (e *encoder) emitNvLogoDelete(o ir.NvLogoDelete) {
	const FS = 0x1C
	e.write(FS, 'p', o.Key[0], o.Key[1], 0xFF)
}

func (e *encoder) emitNvLogoDeleteAll() {
	const FS = 0x1C
	e.write(FS, 'p', 0, 0, 0xFF)
}

// emitOpenDrawer mirrors the teacher's OpenCashDrawer byte-for-byte:
// ESC p m t1 t2, swapping t1/t2 if out of order.
func (e *encoder) emitOpenDrawer(o ir.OpenDrawer) {
	t1, t2 := o.OnMS, o.OffMS
	if t1 == 0 || t2 == 0 {
		return
	}
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	e.write(ESC, 'p', minByte(o.Pin, 1), t1, t2)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func minByte(a, b byte) byte {
	if a < b {
		return a
	}
	return b
}

func maxByte(a, b byte) byte {
	if a > b {
		return a
	}
	return b
}

// sub1 converts a 1-8 multiplier to the device's 0-7 magnification
// code; zero input (an unset SetSize field) is treated as x1.
func sub1(b byte) byte {
	if b == 0 {
		return 0
	}
	return b - 1
}
