package main

import (
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/Alextopher/hzwave/animation"
	"github.com/Alextopher/hzwave/shared"
	"github.com/Alextopher/hzwave/waveform"
)

func main() {
	wave := flag.String("wave", "sawtooth", "waveform clients should play")
	port := flag.Int("port", 12074, "UDP port to listen for CAPS on")
	discover := flag.Duration("discover", 3*time.Second, "how long to wait for clients")
	flag.Parse()

	if flag.NArg() != 1 {
		slog.Error("usage: server [flags] <midifile>")
		os.Exit(1)
	}

	typ, err := waveform.ParseType(*wave)
	if err != nil {
		slog.Error("bad waveform", "err", err)
		os.Exit(1)
	}

	notes, err := animation.ReadSMFFile(flag.Arg(0))
	if err != nil {
		slog.Error("reading midi", "err", err)
		os.Exit(1)
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: *port})
	if err != nil {
		slog.Error("listen failed", "err", err)
		os.Exit(1)
	}

	send := make(chan shared.Message, 10)
	recv := make(chan shared.Message, 10)

	go shared.Recv(conn, recv)
	go shared.Send(conn, send)

	slog.Info("listening", "addr", conn.LocalAddr())

	clients := discoverClients(send, recv, *discover)
	if len(clients) == 0 {
		slog.Error("no clients found")
		os.Exit(1)
	}

	// Handle sys interrupt
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig

		quit(send, clients)
		os.Exit(1)
	}()

	voices := assign(notes, len(clients))
	slog.Info("assigned notes", "notes", len(notes), "clients", len(clients))

	start := time.Now()
	wg := &sync.WaitGroup{}
	for i, client := range clients {
		wg.Add(1)
		go func(client *net.UDPAddr, notes []animation.Note) {
			defer wg.Done()

			for _, n := range notes {
				// Sleep until the note is due
				time.Sleep(time.Until(start.Add(n.Start)))

				send <- shared.Message{
					Pkt: &shared.TONE_Packet{
						Duration:  n.Duration,
						Frequency: float32(animation.KeyToFrequency(n.Key)),
						Amplitude: float32(animation.VelocityToAmplitude(n.Velocity)),
						Waveform:  typ,
					},
					Addr: client,
				}
			}
		}(client, voices[i])
	}
	wg.Wait()

	quit(send, clients)
	slog.Info("done", "elapsed", time.Since(start))
}

// discoverClients answers every CAPS packet seen during d with a PING.
func discoverClients(send chan<- shared.Message, recv <-chan shared.Message, d time.Duration) []*net.UDPAddr {
	ping := shared.RandomPing()
	clients := make([]*net.UDPAddr, 0)
	seen := make(map[string]bool)

	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case msg, ok := <-recv:
			if !ok {
				return clients
			}
			slog.Info("connection", "packet", msg.Pkt, "from", msg.Addr)
			if _, caps := msg.Pkt.(*shared.CAPS_Packet); !caps {
				continue
			}

			send <- shared.Message{Pkt: ping, Addr: msg.Addr}
			if !seen[msg.Addr.String()] {
				seen[msg.Addr.String()] = true
				clients = append(clients, msg.Addr)
			}
		case <-timer.C:
			slog.Info("discovery finished", "clients", len(clients))
			return clients
		}
	}
}

func quit(send chan<- shared.Message, clients []*net.UDPAddr) {
	pkt := &shared.QUIT_Packet{}
	for _, client := range clients {
		send <- shared.Message{Pkt: pkt, Addr: client}
	}

	// Wait for 1 second to make sure all packets are sent
	time.Sleep(time.Second)
}
