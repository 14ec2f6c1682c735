package transport

import (
	iolib "httpc/lib/io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

// Send writes the whole payload to conn.
// Short writes are retried, so callers never observe a partial write.
func Send(conn Conn, payload []byte) error {
	if _, err := iolib.WriteFull(conn, payload); err != nil {
		return errors.Wrap(err, "writing payload")
	}
	return nil
}

// Receive reads from conn until the peer stops sending,
// and decodes what was read as UTF-8 text.
// Invalid sequences are replaced with U+FFFD.
func Receive(conn Conn, chunkSize uint) (string, error) {
	raw, err := iolib.ReadAll(conn, chunkSize)
	if err != nil {
		return "", errors.Wrap(err, "reading payload")
	}

	text, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.Wrap(err, "decoding payload")
	}

	return string(text), nil
}
