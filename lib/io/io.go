package iolib

import (
	"bytes"
	"io"
)

// WriteFull writes buf to w, retrying until every byte is written or w fails.
func WriteFull(w io.Writer, buf []byte) (uint, error) {
	total := uint(0)
	for total < uint(len(buf)) {
		n, err := w.Write(buf[total:])
		total += uint(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// DefaultChunkSize is the read size used by [ReadAll] when zero is given.
const DefaultChunkSize = 1024

// ReadAll reads r in chunks of chunkSize until a read returns zero bytes or io.EOF.
// Unlike [io.ReadAll], a zero-byte read with no error also ends the stream,
// which is how a closed peer shows up on a raw socket.
func ReadAll(r io.Reader, chunkSize uint) ([]byte, error) {
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	buf := bytes.NewBuffer(nil)
	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])

		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return buf.Bytes(), err
		}
		if n == 0 {
			return buf.Bytes(), nil
		}
	}
}
