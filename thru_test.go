package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThruFullForwardsRegardlessOfInputChannel(t *testing.T) {
	transport := NewBufferedTransport(0)
	engine := NewEngine(transport)
	engine.SetInputChannel(2)
	engine.TurnThruOn(ThruFull)

	transport.Feed(0x93, 0x40, 0x50) // NoteOn channel 4

	accepted := engine.Poll()
	assert.False(t, accepted) // channel 4 != input channel 2

	assert.Equal(t, []byte{0x93, 0x40, 0x50}, transport.Written())
}

func TestThruSameChannelOnlyForwardsMatchingChannel(t *testing.T) {
	transport := NewBufferedTransport(0)
	engine := NewEngine(transport)
	engine.SetInputChannel(3)
	engine.TurnThruOn(ThruSameChannel)

	transport.Feed(0x92, 0x3C, 0x64) // channel 3, matches
	engine.Poll()
	assert.Equal(t, []byte{0x92, 0x3C, 0x64}, transport.TakeWritten())

	transport.Feed(0x91, 0x3C, 0x64) // channel 2, does not match
	engine.Poll()
	assert.Empty(t, transport.TakeWritten())
}

func TestThruDifferentChannelDoesNotFallThroughToOff(t *testing.T) {
	transport := NewBufferedTransport(0)
	engine := NewEngine(transport)
	engine.SetInputChannel(3)
	engine.TurnThruOn(ThruDifferentChannel)

	transport.Feed(0x91, 0x3C, 0x64) // channel 2, different: forwarded
	engine.Poll()
	assert.Equal(t, []byte{0x91, 0x3C, 0x64}, transport.TakeWritten())

	transport.Feed(0x92, 0x40, 0x50) // channel 3, same: not forwarded
	engine.Poll()
	assert.Empty(t, transport.TakeWritten())
}

func TestThruOffForwardsNothing(t *testing.T) {
	transport := NewBufferedTransport(0)
	engine := NewEngine(transport)
	engine.SetInputChannel(1)

	transport.Feed(0x90, 0x3C, 0x64)
	engine.Poll()

	assert.Empty(t, transport.Written())
}

func TestReceptionFilterDefaultsToChannelOne(t *testing.T) {
	transport := NewBufferedTransport(0)
	engine := NewEngine(transport)

	transport.Feed(0x9F, 0x3C, 0x64) // channel 16, not the default channel 1
	accepted := engine.Poll()
	assert.False(t, accepted)

	transport.Feed(0x90, 0x3C, 0x64) // channel 1
	accepted = engine.Poll()
	require.True(t, accepted)
	assert.EqualValues(t, 1, engine.Channel())
}

func TestReceptionFilterOmniAcceptsEveryChannel(t *testing.T) {
	transport := NewBufferedTransport(0)
	engine := NewEngine(transport)
	engine.SetInputChannel(OMNI)

	transport.Feed(0x9F, 0x3C, 0x64) // channel 16
	accepted := engine.Poll()

	require.True(t, accepted)
	assert.EqualValues(t, 16, engine.Channel())
}

func TestReceptionFilterOffRejectsEverything(t *testing.T) {
	transport := NewBufferedTransport(0)
	engine := NewEngine(transport)
	engine.SetInputChannel(OFF)

	transport.Feed(0x90, 0x3C, 0x64)
	accepted := engine.Poll()

	assert.False(t, accepted)
}

func TestReceptionFilterOffSuppressesThru(t *testing.T) {
	transport := NewBufferedTransport(0)
	engine := NewEngine(transport)
	engine.SetInputChannel(OFF)
	engine.TurnThruOn(ThruFull)

	transport.Feed(0x90, 0x3C, 0x64)
	accepted := engine.Poll()

	assert.False(t, accepted)
	assert.Empty(t, transport.Written())
}

func TestThruSystemMessagesAlwaysForwardedWhenOn(t *testing.T) {
	transport := NewBufferedTransport(0)
	engine := NewEngine(transport)
	engine.TurnThruOn(ThruSameChannel)
	engine.SetInputChannel(5)

	transport.Feed(byte(Clock))
	engine.Poll()

	assert.Equal(t, []byte{byte(Clock)}, transport.Written())
}
