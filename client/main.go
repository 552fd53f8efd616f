package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/Alextopher/hzwave/shared"
	"github.com/Alextopher/hzwave/synth"
)

var sr = beep.SampleRate(48000)

func main() {
	server := flag.String("server", "255.255.255.255:12074", "address to announce ourselves to")
	name := flag.String("name", "hzwv", "four letter client name")
	flag.Parse()

	// initilize speaker
	if err := speaker.Init(sr, sr.N(time.Second/100)); err != nil {
		slog.Error("speaker init failed", "err", err)
		os.Exit(1)
	}

	// Listen on random local port
	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		slog.Error("listen failed", "err", err)
		os.Exit(1)
	}

	// the server will be listening somewhere in the local network
	serverAddr, err := net.ResolveUDPAddr("udp", *server)
	if err != nil {
		slog.Error("bad server address", "server", *server, "err", err)
		os.Exit(1)
	}

	send := make(chan shared.Message)
	recv := make(chan shared.Message)

	go shared.Recv(conn, recv)
	go shared.Send(conn, send)

	slog.Info("listening", "addr", conn.LocalAddr())

	var id [24]byte
	rand.Read(id[:])

	for {
		speaker.Clear()
		if !announce(send, recv, serverAddr, &shared.CAPS_Packet{Name: *name, NumVoices: 1, Identity: id}) {
			return
		}
		if !serve(recv) {
			return
		}
	}
}

// announce broadcasts CAPS until the server answers with a PING.
func announce(send chan<- shared.Message, recv <-chan shared.Message, addr *net.UDPAddr, caps *shared.CAPS_Packet) bool {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	slog.Info("sending CAPS", "to", addr)
	for {
		select {
		case <-ticker.C:
			send <- shared.Message{Pkt: caps, Addr: addr}
		case msg, ok := <-recv:
			if !ok {
				return false
			}
			if msg.Pkt.Type() == shared.PING {
				slog.Info("received ping", "from", msg.Addr)
				return true
			}
		}
	}
}

// serve plays TONE packets until the server says QUIT.
func serve(recv <-chan shared.Message) bool {
	for msg := range recv {
		switch pkt := msg.Pkt.(type) {
		case *shared.TONE_Packet:
			slog.Info("tone", "packet", pkt)
			play(pkt)
		case *shared.QUIT_Packet:
			slog.Info("received QUIT", "from", msg.Addr)
			return true
		}
	}
	return false
}

func play(pkt *shared.TONE_Packet) {
	freq := float64(pkt.Frequency)

	s, err := synth.Tone(sr, pkt.Waveform, freq, float64(pkt.Amplitude), wholeCycles(pkt.Duration, freq))
	if err != nil {
		slog.Warn("cannot play tone", "packet", pkt, "err", err)
		return
	}

	speaker.Play(s)
}

// wholeCycles shortens d to a whole number of periods of freq so the tone
// ends on a zero crossing instead of popping.
func wholeCycles(d time.Duration, freq float64) time.Duration {
	if freq <= 0 {
		return d
	}
	cycles := float64(int64(d.Seconds() * freq))
	return time.Duration(cycles / freq * float64(time.Second))
}
