// Package wire implements the length-prefixed frame format spoken by the
// gitwire daemon.
//
// It solves TCP's sticky packet problem the usual way: every payload is
// preceded by a fixed-size length prefix, so the receiver knows exactly how
// many bytes belong to the current message.
//
// Frame format:
//
//	0         4
//	┌─────────┬────────────────┐
//	│ length  │  payload ...   │
//	│ uint32  │  length bytes  │
//	└─────────┴────────────────┘
//
// The length is an unsigned 32-bit big-endian integer and always equals the
// exact byte count of the UTF-8 JSON payload that follows. The width and
// byte order are part of the wire contract and must not change.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// PrefixSize is the fixed length-prefix width in bytes.
	PrefixSize = 4

	// MaxPayload caps the advertised payload length. A prefix above this is
	// rejected before any allocation happens, so a garbage peer cannot make
	// us reserve 4 GiB off a single corrupt header.
	MaxPayload = 64 << 20

	// readChunk bounds each accumulation read while collecting the payload.
	readChunk = 4096
)

var (
	// ErrShortPrefix reports a stream that closed before a full 4-byte
	// length prefix arrived.
	ErrShortPrefix = errors.New("wire: truncated length prefix")

	// ErrShortPayload reports a stream that closed before the advertised
	// payload length was delivered. This is distinct from a JSON decode
	// failure: the peer hung up early, the bytes we did get are not the
	// problem.
	ErrShortPayload = errors.New("wire: connection closed early")

	// ErrPayloadTooLarge reports a length prefix above MaxPayload.
	ErrPayloadTooLarge = errors.New("wire: payload length exceeds limit")
)

// WriteFrame writes one complete frame (prefix + payload) to w.
// The prefix and payload are written in a single Write call so the frame is
// never left half-emitted by this function itself.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxPayload {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	buf := make([]byte, PrefixSize+len(payload))
	binary.BigEndian.PutUint32(buf[:PrefixSize], uint32(len(payload)))
	copy(buf[PrefixSize:], payload)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("wire: write frame: %w", err)
	}
	return nil
}

// ReadFrame reads one complete frame from r and returns its payload.
//
// The 4-byte prefix is read first; if the stream ends before all 4 bytes
// arrive, ReadFrame fails with ErrShortPrefix. The payload is then
// accumulated with bounded reads of up to readChunk bytes until exactly
// length bytes are collected, however many underlying reads that takes.
// A stream that closes mid-payload fails with ErrShortPayload rather than
// handing a truncated buffer to the JSON decoder upstream.
func ReadFrame(r io.Reader) ([]byte, error) {
	prefix := make([]byte, PrefixSize)
	if _, err := io.ReadFull(r, prefix); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortPrefix
		}
		return nil, fmt.Errorf("wire: read length prefix: %w", err)
	}

	length := binary.BigEndian.Uint32(prefix)
	if length > MaxPayload {
		return nil, fmt.Errorf("%w: prefix advertises %d bytes", ErrPayloadTooLarge, length)
	}

	payload := make([]byte, 0, length)
	chunk := make([]byte, readChunk)
	for uint32(len(payload)) < length {
		want := length - uint32(len(payload))
		if want > readChunk {
			want = readChunk
		}

		n, err := r.Read(chunk[:want])
		if n > 0 {
			payload = append(payload, chunk[:n]...)
		}
		if err != nil {
			if uint32(len(payload)) == length {
				break
			}
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: got %d of %d payload bytes", ErrShortPayload, len(payload), length)
			}
			return nil, fmt.Errorf("wire: read payload: %w", err)
		}
	}

	return payload, nil
}
