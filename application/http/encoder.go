package http

import (
	"bufio"
	"io"

	"httpc/application/util/rule"

	"github.com/pkg/errors"
)

// requestEncoder writes a request in its wire form.
// Every line, including the one ending the header section, ends with CRLF.
type requestEncoder struct {
	bw *bufio.Writer
}

func newRequestEncoder(w io.Writer) *requestEncoder {
	return &requestEncoder{bw: bufio.NewWriter(w)}
}

func (re *requestEncoder) encode(request Request) error {
	re.writeLine(string(request.Method), request.Target, string(request.Version.Text()))

	for _, field := range request.Headers {
		re.writeLine(field.Name+":", field.Value)
	}
	re.writeLine()

	// bufio keeps the first write error and reports it again on every
	// following call, so checking once before flushing is enough.
	if _, err := re.bw.Write(request.Body); err != nil {
		return errors.Wrap(err, "writing request")
	}

	if err := re.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing request")
	}

	return nil
}

// writeLine joins words with SP.
func (re *requestEncoder) writeLine(words ...string) {
	for i, word := range words {
		if i > 0 {
			re.bw.WriteByte(rule.SP)
		}
		re.bw.WriteString(word)
	}
	re.bw.Write(rule.CRLF)
}
