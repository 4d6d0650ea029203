// Command miditap attaches an Engine to a dummy loopback wire and renders
// received messages live in a terminal UI, colour-coding NoteOn velocity.
// It is a demonstration harness, not a real MIDI interface driver: opening
// an actual serial/USB-MIDI port is explicitly out of scope for this
// module.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	midi "github.com/ColinHarrington/arduinomidilib"
)

func main() {
	wire := newLoopbackWire()
	defer wire.Close()

	transport := midi.NewIOTransport(wire, wire, 0)
	engine := midi.NewReceiver(transport)
	engine.Begin()

	m := newModel(engine)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
