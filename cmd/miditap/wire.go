package main

import (
	"io"
	"time"

	"github.com/acomagu/bufpipe"
)

// loopbackWire is a dummy MIDI wire built on a bufpipe pipe: everything
// written to it loops back for reading. A background generator additionally injects a slow, cycling
// NoteOn/NoteOff pattern so the TUI has live traffic to render without
// requiring a real MIDI source.
type loopbackWire struct {
	out  io.ReadCloser
	in   io.WriteCloser
	stop chan struct{}
}

func newLoopbackWire() *loopbackWire {
	w := &loopbackWire{stop: make(chan struct{})}
	w.out, w.in = bufpipe.New(nil)

	go w.generate()

	return w
}

func (w *loopbackWire) generate() {
	notes := []byte{60, 64, 67, 72}
	channel := byte(0) // zero-indexed status nibble, channel 1

	ticker := time.NewTicker(400 * time.Millisecond)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			note := notes[i%len(notes)]
			i++
			w.in.Write([]byte{0x90 | channel, note, 100})
			w.in.Write([]byte{0x80 | channel, note, 0})
		}
	}
}

func (w *loopbackWire) Read(p []byte) (int, error) {
	return w.out.Read(p)
}

func (w *loopbackWire) Write(p []byte) (int, error) {
	return w.in.Write(p)
}

func (w *loopbackWire) Close() error {
	close(w.stop)
	w.out.Close()
	w.in.Close()
	return nil
}
