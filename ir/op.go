// Package ir defines the intermediate representation the document
// lowerer emits and the optimizer/codegen consume: a finite linear
// sequence of primitive printer operations.
package ir

import "github.com/inkwell-labs/thermaldoc/raster"

// Align values accepted by SetAlign.
const (
	AlignLeft = iota
	AlignCenter
	AlignRight
)

// Font families accepted by SetFont.
const (
	FontA = iota
	FontB
	FontIBM
)

// RasterMode selects which wire encoding Raster ops use.
type RasterMode int

const (
	RasterModePage RasterMode = iota
	RasterModeBand
)

// BarcodeKind enumerates the symbologies the codec can emit natively.
type BarcodeKind int

const (
	BarcodeQR BarcodeKind = iota
	BarcodePDF417
	BarcodeCode128
	BarcodeCode39
	BarcodeEAN13
	BarcodeUPCA
	BarcodeITF
)

// Op is the closed sum of primitive printer operations. Concrete types
// below each embed op to seal the set to this package's callers.
type Op interface {
	op()
}

type opBase struct{}

func (opBase) op() {}

// Init resets the printer's modes and clears its print buffer. Every
// non-empty Program begins with exactly one Init after optimization.
type Init struct{ opBase }

// SetBold toggles emphasized printing.
type SetBold struct {
	opBase
	On bool
}

// SetUnderline toggles underline mode.
type SetUnderline struct {
	opBase
	On bool
}

// SetInvert toggles black/white reverse printing.
type SetInvert struct {
	opBase
	On bool
}

// SetUpperline toggles overline printing (a rule above the text line).
type SetUpperline struct {
	opBase
	On bool
}

// SetUpsideDown toggles 180-degree rotated printing.
type SetUpsideDown struct {
	opBase
	On bool
}

// SetReduced toggles condensed/reduced character width.
type SetReduced struct {
	opBase
	On bool
}

// SetAlign sets text justification (AlignLeft/Center/Right).
type SetAlign struct {
	opBase
	Align int
}

// SetFont selects the active character font/codepage family.
type SetFont struct {
	opBase
	Font int
}

// SetSize sets the character expansion multiplier (1-8 each axis).
type SetSize struct {
	opBase
	H, W byte
}

// Text emits a run of printable bytes in the currently active font.
type Text struct {
	opBase
	S string
}

// Newline advances one line at the current line spacing.
type Newline struct{ opBase }

// FeedUnits advances n/203in (native dot) units without printing a line.
type FeedUnits struct {
	opBase
	N int
}

// Cut executes the partial-cut mechanism. Appears at most once per
// Program, as the last op before any trailing Raw bytes.
type Cut struct{ opBase }

// Raster emits a packed 1-bit image, encoded per Mode.
type Raster struct {
	opBase
	Buf  *raster.BitBuffer
	Mode RasterMode
}

// Barcode emits a native-protocol barcode op. Components that need a
// symbology the device cannot render natively lower to Raster instead.
type Barcode struct {
	opBase
	Kind         BarcodeKind
	Payload      string
	ModuleWidth  byte
	ModuleHeight byte
	HRIPosition  byte
}

// NvLogoRecall prints a previously stored NV graphic by its 2-byte key.
type NvLogoRecall struct {
	opBase
	Key    [2]byte
	ScaleX byte
	ScaleY byte
}

// NvLogoStore uploads buf into the device's non-volatile graphic memory
// under key, for later NvLogoRecall. Used by the logo CLI's "store"
// subcommand (spec.md §6).
type NvLogoStore struct {
	opBase
	Key [2]byte
	Buf *raster.BitBuffer
}

// NvLogoDelete removes a single previously stored NV graphic by key.
type NvLogoDelete struct {
	opBase
	Key [2]byte
}

// NvLogoDeleteAll clears every NV graphic on the device.
type NvLogoDeleteAll struct{ opBase }

// OpenDrawer pulses a cash-drawer kick connector. Supplemental op (see
// SPEC_FULL.md §6) carrying Document.OpenDrawer through codegen.
type OpenDrawer struct {
	opBase
	Pin    byte
	OnMS   byte
	OffMS  byte
}

// Raw passes bytes straight through, bypassing all protocol knowledge.
// Used by callers that need to inject vendor escape sequences the
// document model has no component for.
type Raw struct {
	opBase
	Bytes []byte
}

// Program is an IR stream plus an optional post-program pause hint used
// by the transport between consecutive sub-programs of a segmented job.
type Program struct {
	Ops       []Op
	PauseHint bool
}
