package shared

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/Alextopher/hzwave/waveform"
)

type PacketType uint32

const (
	KA PacketType = iota // Keep Alive
	PING
	QUIT
	TONE // [0] seconds [1] nanoseconds [2] frequency [3] amplitude [4] waveform
	CAPS // [0] name [1] number of voices [2-7] identity
	UNKNOWN = 0xFFFFFFFF
)

// PayloadSize is the fixed body length following the 4 byte type header.
const PayloadSize = 32

var ErrPayloadSize = errors.New("invalid payload length")

type Packet interface {
	fmt.Stringer
	Type() PacketType
	Serialize() []byte
	DeSerialize(data []byte) error
}

func checkSize(name string, data []byte) error {
	if len(data) != PayloadSize {
		return errors.Wrapf(ErrPayloadSize, "%s: %d bytes", name, len(data))
	}
	return nil
}

// Keep Alive Packet (KA)
// [0-31] unused
type KA_Packet struct{}

func (*KA_Packet) Type() PacketType {
	return KA
}

func (*KA_Packet) Serialize() []byte {
	return make([]byte, PayloadSize)
}

func (*KA_Packet) DeSerialize(data []byte) error {
	return checkSize("KA", data)
}

func (*KA_Packet) String() string {
	return "KA"
}

// Ping Packet (PING)
// [0-31] bytes to be echoed back
type PING_Packet [PayloadSize]byte

func RandomPing() *PING_Packet {
	p := &PING_Packet{}
	rand.Read(p[:])
	return p
}

func (*PING_Packet) Type() PacketType {
	return PING
}

func (p *PING_Packet) Serialize() []byte {
	b := make([]byte, PayloadSize)
	copy(b, p[:])
	return b
}

func (p *PING_Packet) DeSerialize(data []byte) error {
	if err := checkSize("PING", data); err != nil {
		return err
	}
	copy(p[:], data)
	return nil
}

func (p *PING_Packet) String() string {
	return "PING(" + hex.EncodeToString(p[:]) + ")"
}

// Quit Packet (QUIT)
// [0-31] unused
type QUIT_Packet struct{}

func (*QUIT_Packet) Type() PacketType {
	return QUIT
}

func (*QUIT_Packet) Serialize() []byte {
	return make([]byte, PayloadSize)
}

func (*QUIT_Packet) DeSerialize(data []byte) error {
	return checkSize("QUIT", data)
}

func (*QUIT_Packet) String() string {
	return "QUIT"
}

// Tone Packet (TONE)
// [0-3] uint32 duration in seconds
// [4-7] uint32 duration in nanoseconds
// [8-11] float32 frequency in Hz
// [12-15] float32 amplitude in percent
// [16-19] uint32 waveform
// [20-31] unused
type TONE_Packet struct {
	Duration  time.Duration
	Frequency float32
	Amplitude float32
	Waveform  waveform.Type
}

func (*TONE_Packet) Type() PacketType {
	return TONE
}

func (p *TONE_Packet) Serialize() []byte {
	b := make([]byte, PayloadSize)

	binary.BigEndian.PutUint32(b[0:], uint32(p.Duration/time.Second))
	binary.BigEndian.PutUint32(b[4:], uint32(p.Duration%time.Second))
	binary.BigEndian.PutUint32(b[8:], math.Float32bits(p.Frequency))
	binary.BigEndian.PutUint32(b[12:], math.Float32bits(p.Amplitude))
	binary.BigEndian.PutUint32(b[16:], uint32(p.Waveform))

	return b
}

func (p *TONE_Packet) DeSerialize(data []byte) error {
	if err := checkSize("TONE", data); err != nil {
		return err
	}

	seconds := binary.BigEndian.Uint32(data[0:])
	nanoseconds := binary.BigEndian.Uint32(data[4:])
	p.Duration = time.Duration(seconds)*time.Second + time.Duration(nanoseconds)

	p.Frequency = math.Float32frombits(binary.BigEndian.Uint32(data[8:]))
	p.Amplitude = math.Float32frombits(binary.BigEndian.Uint32(data[12:]))

	p.Waveform = waveform.Type(binary.BigEndian.Uint32(data[16:]))
	if !p.Waveform.Valid() {
		return errors.Wrapf(waveform.ErrUnknownType, "TONE: waveform %d", uint32(p.Waveform))
	}

	return nil
}

func (p *TONE_Packet) String() string {
	return fmt.Sprintf("TONE(%v, %.2f Hz, %.2f%%, %v)", p.Duration, p.Frequency, p.Amplitude, p.Waveform)
}

// Caps Packet (CAPS)
// [0-3] name
// [4-7] uint32 number of voices
// [8-31] identity
type CAPS_Packet struct {
	Name      string
	NumVoices uint32
	Identity  [24]byte
}

func (*CAPS_Packet) Type() PacketType {
	return CAPS
}

func (p *CAPS_Packet) Serialize() []byte {
	b := make([]byte, PayloadSize)

	copy(b[0:4], p.Name)
	binary.LittleEndian.PutUint32(b[4:], p.NumVoices)
	copy(b[8:], p.Identity[:])

	return b
}

func (p *CAPS_Packet) DeSerialize(data []byte) error {
	if err := checkSize("CAPS", data); err != nil {
		return err
	}

	p.Name = string(bytes.TrimRight(data[0:4], "\x00"))
	p.NumVoices = binary.LittleEndian.Uint32(data[4:])
	copy(p.Identity[:], data[8:])

	return nil
}

func (p *CAPS_Packet) String() string {
	return fmt.Sprintf("CAPS(%q, %d, %s)", p.Name, p.NumVoices, hex.EncodeToString(p.Identity[:]))
}

type UNKNOWN_Packet [PayloadSize]byte

func (*UNKNOWN_Packet) Type() PacketType {
	return UNKNOWN
}

func (p *UNKNOWN_Packet) Serialize() []byte {
	b := make([]byte, PayloadSize)
	copy(b, p[:])
	return b
}

func (p *UNKNOWN_Packet) DeSerialize(data []byte) error {
	if err := checkSize("UNKNOWN", data); err != nil {
		return err
	}
	copy(p[:], data)
	return nil
}

func (p *UNKNOWN_Packet) String() string {
	return "UNKNOWN(" + hex.EncodeToString(p[:]) + ")"
}
