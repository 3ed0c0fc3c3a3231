package ir

// styleState is the small fixed-size record of spec.md §9: every style
// dimension a SetX op can touch, at its documented post-Init default.
type styleState struct {
	bold, underline, invert, upperline, upsideDown, reduced bool
	align                                                   int
	font                                                    int
	sizeH, sizeW                                            byte
}

func defaultStyleState() styleState {
	return styleState{align: AlignLeft, font: FontA, sizeH: 1, sizeW: 1}
}

// styleValue holds the style dimension and value a SetX op mutates
// (extracted by asStyleOp), so the collapse/removal passes can treat
// them uniformly.
type styleValue struct {
	kind string
	val  interface{}
}

func asStyleOp(op Op) (styleValue, bool) {
	switch o := op.(type) {
	case SetBold:
		return styleValue{"bold", o.On}, true
	case SetUnderline:
		return styleValue{"underline", o.On}, true
	case SetInvert:
		return styleValue{"invert", o.On}, true
	case SetUpperline:
		return styleValue{"upperline", o.On}, true
	case SetUpsideDown:
		return styleValue{"upsidedown", o.On}, true
	case SetReduced:
		return styleValue{"reduced", o.On}, true
	case SetAlign:
		return styleValue{"align", o.Align}, true
	case SetFont:
		return styleValue{"font", o.Font}, true
	case SetSize:
		return styleValue{"size", [2]byte{o.H, o.W}}, true
	default:
		return styleValue{}, false
	}
}

func styleValueOf(s styleState, kind string) interface{} {
	switch kind {
	case "bold":
		return s.bold
	case "underline":
		return s.underline
	case "invert":
		return s.invert
	case "upperline":
		return s.upperline
	case "upsidedown":
		return s.upsideDown
	case "reduced":
		return s.reduced
	case "align":
		return s.align
	case "font":
		return s.font
	case "size":
		return [2]byte{s.sizeH, s.sizeW}
	default:
		return nil
	}
}

func applyStyleOp(s *styleState, sv styleValue) {
	switch sv.kind {
	case "bold":
		s.bold = sv.val.(bool)
	case "underline":
		s.underline = sv.val.(bool)
	case "invert":
		s.invert = sv.val.(bool)
	case "upperline":
		s.upperline = sv.val.(bool)
	case "upsidedown":
		s.upsideDown = sv.val.(bool)
	case "reduced":
		s.reduced = sv.val.(bool)
	case "align":
		s.align = sv.val.(int)
	case "font":
		s.font = sv.val.(int)
	case "size":
		hw := sv.val.([2]byte)
		s.sizeH, s.sizeW = hw[0], hw[1]
	}
}

// isConsumer reports whether op observes current style state, i.e. is
// one of the ops that "uses" a style rather than merely setting one.
func isConsumer(op Op) bool {
	switch op.(type) {
	case Text, Raster, Newline, FeedUnits, Cut:
		return true
	default:
		return false
	}
}

// Optimize runs the four deterministic passes of spec.md §4.4 in order,
// each to its own fixpoint, and returns a new op slice. ops is not
// modified.
func Optimize(ops []Op) []Op {
	out := append([]Op(nil), ops...)
	out = fixpoint(out, removeRedundantInit)
	out = fixpoint(out, collapseStyleToggles)
	out = fixpoint(out, removeRedundantStyle)
	out = fixpoint(out, mergeAdjacentText)
	return out
}

func fixpoint(ops []Op, pass func([]Op) ([]Op, bool)) []Op {
	for {
		next, changed := pass(ops)
		ops = next
		if !changed {
			return ops
		}
	}
}

// removeRedundantInit keeps only the first Init in the stream.
func removeRedundantInit(ops []Op) ([]Op, bool) {
	out := make([]Op, 0, len(ops))
	seenInit := false
	changed := false
	for _, op := range ops {
		if _, ok := op.(Init); ok {
			if seenInit {
				changed = true
				continue
			}
			seenInit = true
		}
		out = append(out, op)
	}
	return out, changed
}

// collapseStyleToggles implements spec.md §4.4 pass 2: of two adjacent
// SetX ops on the same dimension with no intervening consumer, the
// first is dead and is dropped. It also drops a SetX(v) whose value
// already matches the most recently observed value of X (seeded from
// the documented post-Init defaults), tracked independent of
// consumers so a lone redundant set is caught even with no sibling
// SetX nearby.
func collapseStyleToggles(ops []Op) ([]Op, bool) {
	out := make([]Op, 0, len(ops))
	state := defaultStyleState()
	// lastSetIdx[kind] = index into out of the most recent SetX for
	// that kind since the last consumer touched it; -1 if none.
	lastSetIdx := map[string]int{}
	// prior[kind] = the value X held before the SetX at lastSetIdx[kind].
	prior := map[string]styleValue{}
	changed := false

	for _, op := range ops {
		if sv, ok := asStyleOp(op); ok {
			if idx, pending := lastSetIdx[sv.kind]; pending {
				// Adjacent SetX...SetX with no consumer between: the
				// earlier one never had an observable effect, so the
				// state it set is rolled back along with it.
				out[idx] = nil
				changed = true
				applyStyleOp(&state, prior[sv.kind])
			}
			if styleValueOf(state, sv.kind) == sv.val {
				// No-op relative to current known state: drop it.
				changed = true
				delete(lastSetIdx, sv.kind)
				continue
			}
			prior[sv.kind] = styleValue{kind: sv.kind, val: styleValueOf(state, sv.kind)}
			applyStyleOp(&state, sv)
			out = append(out, op)
			lastSetIdx[sv.kind] = len(out) - 1
			continue
		}
		if isConsumer(op) {
			lastSetIdx = map[string]int{}
		}
		out = append(out, op)
	}
	return compact(out), changed
}

// removeRedundantStyle is spec.md §4.4 pass 3: a second sweep with a
// running style snapshot, dropping any SetX(v) that sets X to its
// already-current value. This catches redundancies collapseStyleToggles
// leaves behind once consumers have reset its per-kind tracking.
func removeRedundantStyle(ops []Op) ([]Op, bool) {
	out := make([]Op, 0, len(ops))
	state := defaultStyleState()
	changed := false
	for _, op := range ops {
		if sv, ok := asStyleOp(op); ok {
			if styleValueOf(state, sv.kind) == sv.val {
				changed = true
				continue
			}
			applyStyleOp(&state, sv)
		}
		out = append(out, op)
	}
	return out, changed
}

// mergeAdjacentText implements spec.md §4.4 pass 4.
func mergeAdjacentText(ops []Op) ([]Op, bool) {
	out := make([]Op, 0, len(ops))
	changed := false
	i := 0
	for i < len(ops) {
		op := ops[i]
		t, ok := op.(Text)
		if !ok {
			out = append(out, op)
			i++
			continue
		}
		merged := t.S
		j := i + 1
		for j < len(ops) {
			if t2, ok := ops[j].(Text); ok {
				merged += t2.S
				j++
				changed = true
				continue
			}
			if _, ok := ops[j].(Newline); ok && j+1 < len(ops) {
				if t2, ok := ops[j+1].(Text); ok {
					merged += "\n" + t2.S
					j += 2
					changed = true
					continue
				}
			}
			break
		}
		out = append(out, Text{S: merged})
		i = j
	}
	return out, changed
}

// compact removes nil holes left by collapseStyleToggles.
func compact(ops []Op) []Op {
	out := make([]Op, 0, len(ops))
	for _, op := range ops {
		if op == nil {
			continue
		}
		out = append(out, op)
	}
	return out
}
