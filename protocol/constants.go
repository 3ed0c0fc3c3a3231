package protocol

import "github.com/inkwell-labs/thermaldoc/ir"

// Control bytes, named the same way the teacher's constants.go names
// the full ASCII control range; only the ones the codec actually emits
// are kept.
const (
	LF  byte = 0x0A
	SI  byte = 0x0F // condensed print on, reused for SetReduced(true)
	DC2 byte = 0x12 // condensed print off, reused for SetReduced(false)
	ESC byte = 0x1B
	GS  byte = 0x1D
)

// barcode1DType maps the native 1D symbologies to the device's
// barcode-type byte, lifted from the teacher's cmd_escape.go
// barcodeType lookup table (UpcA=65, JanEAN13=67, Code39=69, ITF=70,
// Code128=73).
var barcode1DType = map[ir.BarcodeKind]byte{
	ir.BarcodeUPCA:    65,
	ir.BarcodeEAN13:   67,
	ir.BarcodeCode39:  69,
	ir.BarcodeITF:     70,
	ir.BarcodeCode128: 73,
}
