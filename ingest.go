package stash

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// ChunkSize is the size of each read performed by Ingest.
const ChunkSize = 32 << 10

// Ingest reads r to the end, one chunk at a time, and returns everything it read.
//
// The running total is checked after every chunk; once it exceeds maxBytes the
// buffer is dropped and ErrTooLarge is returned. A maxBytes of zero or less
// disables the cap. The context is checked between chunks so a disconnected
// client stops ingestion. Read errors are returned wrapped and never retried.
func Ingest(ctx context.Context, r io.Reader, maxBytes int64) ([]byte, error) {
	var buf bytes.Buffer
	var total int64
	chunk := make([]byte, ChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("ingest: %w", err)
		}

		n, readErr := r.Read(chunk)
		if n > 0 {
			total += int64(n)
			if maxBytes > 0 && total > maxBytes {
				return nil, fmt.Errorf("ingest: %w: more than %d bytes", ErrTooLarge, maxBytes)
			}
			buf.Write(chunk[:n])
		}

		if errors.Is(readErr, io.EOF) {
			return buf.Bytes(), nil
		}
		if readErr != nil {
			return nil, fmt.Errorf("ingest: read chunk: %w", readErr)
		}
	}
}
