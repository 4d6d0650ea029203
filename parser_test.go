package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(p *Parser, bytes ...byte) (Message, bool) {
	var last Message
	var ok bool
	for _, b := range bytes {
		if m, got := p.Feed(b); got {
			last, ok = m, true
		}
	}
	return last, ok
}

func TestParserPlainNoteOn(t *testing.T) {
	p := NewParser(0)

	msg, ok := feedAll(p, 0x92, 0x3C, 0x64)

	require.True(t, ok)
	assert.Equal(t, NoteOn, msg.Kind)
	assert.EqualValues(t, 3, msg.Channel)
	assert.EqualValues(t, 60, msg.Data1)
	assert.EqualValues(t, 100, msg.Data2)
	assert.True(t, msg.Valid)
}

func TestParserRunningStatus(t *testing.T) {
	p := NewParser(0)

	var got []Message
	for _, b := range []byte{0x92, 0x3C, 0x64, 0x3E, 0x64, 0x40, 0x64} {
		if m, ok := p.Feed(b); ok {
			got = append(got, m)
		}
	}

	require.Len(t, got, 3)
	want := []struct{ note uint8 }{{60}, {62}, {64}}
	for i, w := range want {
		assert.Equal(t, NoteOn, got[i].Kind)
		assert.EqualValues(t, 3, got[i].Channel)
		assert.EqualValues(t, w.note, got[i].Data1)
		assert.EqualValues(t, 100, got[i].Data2)
	}
}

func TestParserInterleavedClock(t *testing.T) {
	p := NewParser(0)

	msg1, ok1 := p.Feed(0x92)
	assert.False(t, ok1)
	assert.False(t, msg1.Valid)

	msg2, ok2 := p.Feed(0xF8)
	require.True(t, ok2)
	assert.Equal(t, Clock, msg2.Kind)
	assert.EqualValues(t, 0, msg2.Channel)

	assert.EqualValues(t, 0x92, p.pending[0])

	msg3, ok3 := feedAll(p, 0x3C, 0x64)
	require.True(t, ok3)
	assert.Equal(t, NoteOn, msg3.Kind)
	assert.EqualValues(t, 3, msg3.Channel)
	assert.EqualValues(t, 60, msg3.Data1)
	assert.EqualValues(t, 100, msg3.Data2)
}

func TestParserSysEx(t *testing.T) {
	p := NewParser(0)

	msg, ok := feedAll(p, 0xF0, 0x7E, 0x01, 0x02, 0xF7)

	require.True(t, ok)
	assert.Equal(t, SystemExclusive, msg.Kind)
	assert.EqualValues(t, 5, msg.Data1)
	assert.Equal(t, []byte{0xF0, 0x7E, 0x01, 0x02, 0xF7}, msg.SysExBytes())
}

func TestParserInvalidMidMessage(t *testing.T) {
	p := NewParser(0)

	msg1, ok1 := feedAll(p, 0x92, 0x3C, 0x91)
	assert.False(t, ok1)
	assert.False(t, msg1.Valid)

	msg2, ok2 := feedAll(p, 0x3D, 0x64)
	require.True(t, ok2)
	assert.Equal(t, NoteOn, msg2.Kind)
	assert.EqualValues(t, 2, msg2.Channel)
	assert.EqualValues(t, 61, msg2.Data1)
	assert.EqualValues(t, 100, msg2.Data2)
}

func TestParserInvalidStatusByteDiscarded(t *testing.T) {
	p := NewParser(0)

	// A lone data byte with no running status cached is invalid in Idle.
	_, ok := p.Feed(0x3C)
	assert.False(t, ok)

	msg, ok := feedAll(p, 0x92, 0x3C, 0x64)
	require.True(t, ok)
	assert.Equal(t, NoteOn, msg.Kind)
}

func TestParserSysExOverflowDropsFrame(t *testing.T) {
	p := NewParser(4)

	bytes := append([]byte{0xF0}, make([]byte, 8)...)
	var ok bool
	for _, b := range bytes {
		if _, got := p.Feed(b); got {
			ok = true
		}
	}
	assert.False(t, ok)

	msg, ok := feedAll(p, 0xF7)
	assert.False(t, ok)
	assert.False(t, msg.Valid)
}

func TestParserChannelInvariants(t *testing.T) {
	p := NewParser(0)

	msg, ok := feedAll(p, 0x8F, 0x45, 0x00)
	require.True(t, ok)
	assert.GreaterOrEqual(t, msg.Channel, uint8(1))
	assert.LessOrEqual(t, msg.Channel, uint8(16))
	assert.LessOrEqual(t, msg.Data1, uint8(127))
	assert.LessOrEqual(t, msg.Data2, uint8(127))
}

func TestParserPollOverflowFlushesAndResets(t *testing.T) {
	transport := NewBufferedTransport(4)
	transport.Feed(0x92, 0x3C, 0x64, 0x40)

	p := NewParser(0)
	_, ok := p.Poll(transport)

	assert.False(t, ok)
	assert.EqualValues(t, 0, transport.Available())
}
