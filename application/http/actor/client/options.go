package client

import (
	iolib "httpc/lib/io"
	"httpc/transport/tcp"
)

type Options struct {
	Receive ReceiveOptions

	// Dial is only used when the client dials over TCP itself, see [NewTCP].
	Dial tcp.DialOptions
}

type ReceiveOptions struct {
	// ChunkSize is the size of each read from the connection.
	// Zero means [iolib.DefaultChunkSize].
	ChunkSize uint
}

var DefaultOptions = Options{
	Receive: ReceiveOptions{ChunkSize: iolib.DefaultChunkSize},
	Dial:    tcp.DefaultDialOptions,
}
