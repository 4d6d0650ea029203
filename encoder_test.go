package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderRoundTrip(t *testing.T) {
	transport := NewBufferedTransport(0)
	enc := NewEncoder(transport, true)
	enc.SendNoteOn(60, 100, 3)

	p := NewParser(0)
	var got Message
	var ok bool
	for _, b := range transport.Written() {
		if m, hit := p.Feed(b); hit {
			got, ok = m, true
		}
	}

	require.True(t, ok)
	assert.Equal(t, NoteOn, got.Kind)
	assert.EqualValues(t, 3, got.Channel)
	assert.EqualValues(t, 60, got.Data1)
	assert.EqualValues(t, 100, got.Data2)
}

func TestEncoderRunningStatusCompression(t *testing.T) {
	transport := NewBufferedTransport(0)
	enc := NewEncoder(transport, true)

	enc.SendNoteOn(60, 100, 3)
	enc.SendNoteOn(62, 100, 3)
	enc.SendNoteOn(64, 100, 3)

	written := transport.Written()
	// One status byte, then three (data1, data2) pairs: 1 + 3*2 = 7 bytes.
	assert.Len(t, written, 7)
	assert.EqualValues(t, 0x92, written[0])

	p := NewParser(0)
	var got []Message
	for _, b := range written {
		if m, ok := p.Feed(b); ok {
			got = append(got, m)
		}
	}

	require.Len(t, got, 3)
	for _, m := range got {
		assert.Equal(t, NoteOn, m.Kind)
		assert.EqualValues(t, 3, m.Channel)
	}
}

func TestEncoderRunningStatusDisabledRepeatsStatusByte(t *testing.T) {
	transport := NewBufferedTransport(0)
	enc := NewEncoder(transport, false)

	enc.SendNoteOn(60, 100, 3)
	enc.SendNoteOn(62, 100, 3)

	assert.Len(t, transport.Written(), 6)
}

func TestEncoderRealTimeTransparency(t *testing.T) {
	transport := NewBufferedTransport(0)
	enc := NewEncoder(transport, true)
	enc.SendNoteOn(60, 100, 3)
	noteOnBytes := transport.TakeWritten()

	p := NewParser(0)

	// Feed the status byte, then interleave a Clock before the remaining
	// data bytes.
	_, ok := p.Feed(noteOnBytes[0])
	assert.False(t, ok)

	clockMsg, ok := p.Feed(byte(Clock))
	require.True(t, ok)
	assert.Equal(t, Clock, clockMsg.Kind)

	noteMsg, ok := feedAll(p, noteOnBytes[1], noteOnBytes[2])
	require.True(t, ok)
	assert.Equal(t, NoteOn, noteMsg.Kind)
	assert.EqualValues(t, 3, noteMsg.Channel)
	assert.EqualValues(t, 60, noteMsg.Data1)
	assert.EqualValues(t, 100, noteMsg.Data2)
}

func TestEncoderInvalidChannelIsNoOp(t *testing.T) {
	transport := NewBufferedTransport(0)
	enc := NewEncoder(transport, true)

	enc.SendNoteOn(60, 100, 0) // OMNI is not a valid send channel
	assert.Empty(t, transport.Written())

	enc.SendNoteOn(60, 100, 17)
	assert.Empty(t, transport.Written())
}

func TestEncoderPitchBendFloat(t *testing.T) {
	transport := NewBufferedTransport(0)
	enc := NewEncoder(transport, true)

	enc.SendPitchBendFloat(1.0, 1)
	written := transport.Written()
	require.Len(t, written, 3)

	lsb := written[1] & 0x7F
	msb := written[2] & 0x7F
	value := uint16(lsb) | uint16(msb)<<7
	assert.EqualValues(t, 16383, value)
}

func TestEncoderSysExUnframed(t *testing.T) {
	transport := NewBufferedTransport(0)
	enc := NewEncoder(transport, true)

	enc.SendSysEx([]byte{0x7E, 0x01, 0x02}, false)
	assert.Equal(t, []byte{0xF0, 0x7E, 0x01, 0x02, 0xF7}, transport.Written())
}
