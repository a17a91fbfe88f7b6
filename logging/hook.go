// Package logging provides the optional per-session observability hook
// (spec.md §5 "Optional logging hook"): a no-op by default, with a
// zerolog-backed implementation for callers that want item-level trace
// logging. Grounded on the zerolog CBOR stream tooling retrieved
// alongside the teacher (other_examples' zerolog-based CBOR decoder),
// adopting zerolog itself rather than hand-rolling a log line format.
package logging

import (
	"github.com/ionscribe/stream/item"
	"github.com/rs/zerolog"
)

// Hook observes item traffic and errors as a Reader/Writer runs. Every
// method must return promptly: it runs inline on the encode/decode path.
type Hook interface {
	OnItem(target item.Target, it item.Item)
	OnError(target item.Target, err error)
}

// NoOp is the default Hook: every call is a no-op.
var NoOp Hook = noOpHook{}

type noOpHook struct{}

func (noOpHook) OnItem(item.Target, item.Item) {}
func (noOpHook) OnError(item.Target, error)    {}

// Zerolog builds a Hook that logs item pulls/pushes at Trace level and
// errors at Warn level through the given logger.
func Zerolog(logger zerolog.Logger) Hook {
	return zerologHook{logger: logger}
}

type zerologHook struct {
	logger zerolog.Logger
}

func (h zerologHook) OnItem(target item.Target, it item.Item) {
	h.logger.Trace().
		Str("target", target.String()).
		Str("kind", it.Kind.String()).
		Msg("item")
}

func (h zerologHook) OnError(target item.Target, err error) {
	h.logger.Warn().
		Str("target", target.String()).
		Err(err).
		Msg("stream error")
}
