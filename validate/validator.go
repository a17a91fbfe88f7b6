// Package validate implements the format-agnostic structural validator
// (spec §4.7): a frame stack tracking open containers, shared by the
// Reader and Writer regardless of which parser/renderer backs them.
package validate

import (
	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/item"
)

// frame tracks one open array or map. remaining is -1 for an unbounded
// *Start frame, else the number of children (elements, or key/value pairs
// for a map) still expected before the frame closes.
type frame struct {
	remaining   int64
	isMap       bool
	expectValue bool // map only: true after a key, before its value
}

// Validator enforces the item-stream grammar: container arity, map
// key/value alternation, and that every Tag is followed by exactly one
// data item. It is lifted from the teacher's CBOR-only nesting-frame
// stack, generalized into one frame type shared by both wire formats and
// by both the read and write directions.
type Validator struct {
	enabled    bool
	frames     []frame
	tagPending bool
}

// New creates an enabled Validator.
func New() *Validator { return &Validator{enabled: true} }

// Disable turns off validation, trusting the caller for the fastest path
// (spec §4.7's "validation may be disabled" escape hatch).
func (v *Validator) Disable() { v.enabled = false }

// Enabled reports whether validation is currently active.
func (v *Validator) Enabled() bool { return v.enabled }

// Depth reports the current open-container nesting depth.
func (v *Validator) Depth() int { return len(v.frames) }

func (v *Validator) top() *frame {
	if len(v.frames) == 0 {
		return nil
	}
	return &v.frames[len(v.frames)-1]
}

// Observe feeds one item.Item — in the order a parser produced it, or a
// codec is about to hand it to a renderer — through the grammar.
func (v *Validator) Observe(it item.Item, pos ioerr.Position) error {
	if !v.enabled {
		return nil
	}
	switch it.Kind {
	case item.KindTag:
		// Tags don't affect frames or arity (spec invariant), but a data
		// item must follow; tracked here and checked at End.
		v.tagPending = true
		return nil
	case item.KindBreak:
		return v.observeBreak(pos)
	default:
		if err := v.accountForChild(pos); err != nil {
			return err
		}
		v.tagPending = false
		if it.IsContainerStart() {
			isMap := it.Kind == item.KindMapHeader || it.Kind == item.KindMapStart
			switch {
			case it.IsIndefinite():
				v.frames = append(v.frames, frame{remaining: -1, isMap: isMap})
			case it.Len > 0:
				v.frames = append(v.frames, frame{remaining: it.Len, isMap: isMap})
			}
			// Header(0) needs no frame: already complete.
		}
		return nil
	}
}

func (v *Validator) observeBreak(pos ioerr.Position) error {
	f := v.top()
	if f == nil {
		return ioerr.NewInvalidInputData(pos, "break with no open container")
	}
	if f.remaining != -1 {
		return ioerr.NewInvalidInputData(pos, "break cannot close a definite-length container")
	}
	if f.isMap && f.expectValue {
		return ioerr.NewInvalidInputData(pos, "map closed with a dangling key")
	}
	v.frames = v.frames[:len(v.frames)-1]
	v.tagPending = false
	return v.accountForChild(pos)
}

// accountForChild records that one child — possibly itself a container
// opener, or a container that was just closed by observeBreak — was
// produced under the current frame. A definite frame (or a map whose
// pair just completed) whose arity is now satisfied closes here too,
// cascading the same accounting into its own parent, since CBOR's
// definite-length containers have no Break terminator of their own.
func (v *Validator) accountForChild(pos ioerr.Position) error {
	for {
		f := v.top()
		if f == nil {
			return nil
		}
		if f.isMap {
			if f.expectValue {
				f.expectValue = false
				if f.remaining > 0 {
					f.remaining--
				}
			} else {
				f.expectValue = true
				return nil
			}
		} else if f.remaining > 0 {
			f.remaining--
		}
		if f.remaining == 0 {
			v.frames = v.frames[:len(v.frames)-1]
			continue
		}
		return nil
	}
}

// End checks that, at the point the caller considers the document
// finished, no container is left open and no Tag is left dangling
// without the data item it must prefix.
func (v *Validator) End(pos ioerr.Position) error {
	if !v.enabled {
		return nil
	}
	if v.tagPending {
		return ioerr.NewInvalidInputData(pos, "tag with no following data item")
	}
	if len(v.frames) != 0 {
		return ioerr.NewUnexpectedEndOfInput(pos, "unclosed container at end of input")
	}
	return nil
}
