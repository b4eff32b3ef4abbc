// Package transport provides the framed message channel over a network
// connection.
//
// A Channel is strictly one-shot: the protocol is one request frame out,
// one response frame in, then the connection is closed. There is no frame
// multiplexing, no keepalive, and no connection reuse; every logical call
// owns its socket for its whole (short) lifetime.
package transport

import (
	"fmt"
	"net"
	"time"

	"gitwire/codec"
	"gitwire/wire"
)

// Channel wraps a connection and knows how to send and receive whole frames.
type Channel struct {
	conn net.Conn
	cdc  codec.Codec
}

// NewChannel builds a channel over conn. A nil codec selects codec.Default.
func NewChannel(conn net.Conn, cdc codec.Codec) *Channel {
	if cdc == nil {
		cdc = codec.Default
	}
	return &Channel{conn: conn, cdc: cdc}
}

// SetDeadline bounds all subsequent reads and writes on the channel.
// A dead peer then surfaces as an I/O timeout instead of blocking forever.
func (c *Channel) SetDeadline(t time.Time) error {
	return c.conn.SetDeadline(t)
}

// Send serializes v and writes it as one frame.
func (c *Channel) Send(v any) error {
	payload, err := c.cdc.Marshal(v)
	if err != nil {
		return fmt.Errorf("transport: encode request: %w", err)
	}
	return wire.WriteFrame(c.conn, payload)
}

// Receive reads one frame and deserializes its payload into v.
// Framing errors (wire.ErrShortPrefix, wire.ErrShortPayload) pass through
// unwrapped so callers can tell a torn stream from invalid JSON.
func (c *Channel) Receive(v any) error {
	payload, err := wire.ReadFrame(c.conn)
	if err != nil {
		return err
	}
	return c.cdc.Unmarshal(payload, v)
}

// Close releases the underlying connection.
func (c *Channel) Close() error {
	return c.conn.Close()
}
