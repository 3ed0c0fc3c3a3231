package protocol

import (
	"fmt"

	"github.com/inkwell-labs/thermaldoc/ir"
)

// NullSink is the codec's analogue of the teacher's skipper: it walks
// an op stream and records each op's shape without encoding any bytes,
// for tests that want to assert "a Raster happened here" without
// pinning down the exact wire representation.
type NullSink struct {
	Calls []string
}

// Record appends op's type name to Calls.
func (n *NullSink) Record(op ir.Op) {
	n.Calls = append(n.Calls, fmt.Sprintf("%T", op))
}

// Drain runs every op in ops through a fresh NullSink and returns it.
func Drain(ops []ir.Op) *NullSink {
	n := &NullSink{Calls: make([]string, 0, len(ops))}
	for _, op := range ops {
		n.Record(op)
	}
	return n
}
