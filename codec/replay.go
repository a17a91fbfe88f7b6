package codec

import (
	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/item"
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/validate"
)

// replayParser plays back a previously captured item sequence as a
// reader.Parser, letting a Decoder run unmodified against members that
// were read once already (the ADT flat-encoding buffer-and-replay case,
// spec.md §4.10).
type replayParser struct {
	items []item.Item
	pos   int
}

func (p *replayParser) Pull() (item.Item, error) {
	if p.pos >= len(p.items) {
		return item.EndOfInput(), ioerr.NewUnexpectedEndOfInput(0, "replay buffer exhausted")
	}
	it := p.items[p.pos]
	p.pos++
	return it, nil
}

func (p *replayParser) Pos() ioerr.Position { return 0 }

// replayReader builds a fresh Reader over a captured item sequence. The
// sequence was already validated once when first read, so the replay
// validator runs disabled.
func replayReader(target item.Target, items []item.Item) *reader.Reader {
	v := validate.New()
	v.Disable()
	return reader.New(&replayParser{items: items}, target, v)
}

// captureValue reads one complete value (a scalar, or a Tag plus its
// target, or a container plus all of its children down to the matching
// Break/arity) off r and appends its raw items to out, verbatim.
func captureValue(r *reader.Reader, out *[]item.Item) error {
	it, err := r.ReadAny()
	if err != nil {
		return err
	}
	*out = append(*out, it)
	switch {
	case it.Kind == item.KindTag:
		return captureValue(r, out)
	case it.IsContainerStart() && it.IsIndefinite():
		for {
			cur, err := r.Current()
			if err != nil {
				return err
			}
			if cur.Kind == item.KindBreak {
				b, err := r.ReadAny()
				if err != nil {
					return err
				}
				*out = append(*out, b)
				return nil
			}
			if err := captureValue(r, out); err != nil {
				return err
			}
		}
	case it.IsContainerStart():
		n := it.Len
		if it.Kind == item.KindMapHeader {
			n *= 2
		}
		for i := int64(0); i < n; i++ {
			if err := captureValue(r, out); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
