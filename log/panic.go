package log

import (
	"bytes"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Panic logs a recovered value with the stack of the panicking goroutine,
// skipping the runtime and recover frames.
func Panic(thing any) func(e *zerolog.Event) {
	return func(e *zerolog.Event) {
		lines := bytes.Split(debug.Stack(), []byte("\n"))
		if len(lines) > 9 {
			lines = lines[9:]
		}
		e.Dict(
			"panic",
			zerolog.
				Dict().
				Any("content", thing).
				Bytes("stack_traces", bytes.Join(lines, []byte("\n"))),
		)
	}
}
