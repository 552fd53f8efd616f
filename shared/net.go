package shared

import (
	"encoding/binary"
	"log/slog"
	"net"

	"github.com/pkg/errors"
)

// DatagramSize is the length of every packet on the wire.
const DatagramSize = 4 + PayloadSize

type Message struct {
	Pkt  Packet
	Addr *net.UDPAddr
}

// Encode prefixes the packet body with its little endian type.
func Encode(p Packet) []byte {
	b := make([]byte, 4, DatagramSize)
	binary.LittleEndian.PutUint32(b, uint32(p.Type()))
	return append(b, p.Serialize()...)
}

// Decode parses one datagram. Unknown types decode to *UNKNOWN_Packet.
func Decode(buf []byte) (Packet, error) {
	if len(buf) != DatagramSize {
		return nil, errors.Wrapf(ErrPayloadSize, "datagram: %d bytes", len(buf))
	}

	var p Packet
	switch PacketType(binary.LittleEndian.Uint32(buf[0:4])) {
	case KA:
		p = &KA_Packet{}
	case PING:
		p = &PING_Packet{}
	case QUIT:
		p = &QUIT_Packet{}
	case TONE:
		p = &TONE_Packet{}
	case CAPS:
		p = &CAPS_Packet{}
	default:
		p = &UNKNOWN_Packet{}
	}

	if err := p.DeSerialize(buf[4:]); err != nil {
		return nil, err
	}
	return p, nil
}

func Send(conn *net.UDPConn, ch <-chan Message) {
	for msg := range ch {
		if _, err := conn.WriteToUDP(Encode(msg.Pkt), msg.Addr); err != nil {
			slog.Warn("send failed", "addr", msg.Addr, "packet", msg.Pkt, "err", err)
		}
	}
}

// Recv decodes datagrams from conn into ch until the connection fails, then
// closes ch.
func Recv(conn *net.UDPConn, ch chan<- Message) {
	defer close(ch)

	var buf [DatagramSize + 1]byte
	for {
		n, addr, err := conn.ReadFromUDP(buf[0:])
		if err != nil {
			slog.Debug("receive loop stopped", "err", err)
			return
		}

		p, err := Decode(buf[:n])
		if err != nil {
			slog.Warn("dropping packet", "addr", addr, "err", err)
			continue
		}

		ch <- Message{Pkt: p, Addr: addr}
	}
}
