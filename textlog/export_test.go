package textlog

import (
	"io"

	"github.com/fwojciec/chat"
)

// NewWriterWithEncoder returns a Writer that encodes logs with enc.
func NewWriterWithEncoder(dir string, enc func(io.Writer, []chat.Turn, chat.GenerationConfig) error) Writer {
	return Writer{Dir: dir, encode: enc}
}
