package midi

import "github.com/sirupsen/logrus"

// Engine is the public core (§6): it owns one ByteTransport and wires
// together a Parser, an Encoder and a ThruEngine behind a single typed
// surface. Like the teacher's Link, a constructor returns a pointer that
// owns its one stream for the lifetime of the value; unlike Link, Engine
// spawns no goroutines of its own (§5) — callers drive it by calling Poll.
type Engine struct {
	transport ByteTransport
	parser    *Parser
	encoder   *Encoder
	thru      *ThruEngine
	logger    *logrus.Logger

	current Message
}

// Option configures an Engine at construction time, replacing the source's
// compile-time ENABLE_INPUT/ENABLE_OUTPUT/USE_RUNNING_STATUS flags with a
// runtime choice (§9).
type Option func(*engineConfig)

type engineConfig struct {
	useRunningStatus bool
	sysExCapacity    int
	logger           *logrus.Logger
	diagnostics      func(DiagnosticEvent)
	inputChannel     uint8
}

// WithRunningStatus toggles running-status compression on the Encoder.
// Defaults to true. The Parser always expands incoming running status,
// whatever this option says.
func WithRunningStatus(enabled bool) Option {
	return func(c *engineConfig) { c.useRunningStatus = enabled }
}

// WithSysExCapacity overrides the default SysEx capture capacity (§3).
func WithSysExCapacity(capacity int) Option {
	return func(c *engineConfig) { c.sysExCapacity = capacity }
}

// WithLogger attaches a logrus.Logger for the default diagnostic side
// channel (§7), which WithDiagnostics replaces. Whether or not
// WithDiagnostics is also given, Poll logs each accepted message to this
// logger at Debug level; without WithLogger no such Debug line is written.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *engineConfig) { c.logger = logger }
}

// WithDiagnostics installs a custom diagnostic sink, overriding the default
// logrus-backed one.
func WithDiagnostics(sink func(DiagnosticEvent)) Option {
	return func(c *engineConfig) { c.diagnostics = sink }
}

// WithInputChannel sets the initial reception filter channel (default 1,
// matching the source's begin(byte inChannel = 1)).
func WithInputChannel(channel uint8) Option {
	return func(c *engineConfig) { c.inputChannel = channel }
}

// NewEngine returns an Engine reading and writing through transport. Both
// directions are always wired; NewReceiver/NewSender below are the
// convenience constructors matching the source's ENABLE_INPUT/ENABLE_OUTPUT
// split without resorting to build tags (§9).
func NewEngine(transport ByteTransport, opts ...Option) *Engine {
	cfg := engineConfig{
		useRunningStatus: true,
		sysExCapacity:    DefaultSysExCapacity,
		inputChannel:     1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.diagnostics == nil {
		cfg.diagnostics = defaultDiagnostics(cfg.logger)
	}

	parser := NewParser(cfg.sysExCapacity)
	parser.diagnostics = cfg.diagnostics

	encoder := NewEncoder(transport, cfg.useRunningStatus)
	encoder.diagnostics = cfg.diagnostics

	thru := NewThruEngine(encoder)
	thru.SetInputChannel(cfg.inputChannel)

	return &Engine{
		transport: transport,
		parser:    parser,
		encoder:   encoder,
		thru:      thru,
		logger:    cfg.logger,
	}
}

// NewReceiver returns an Engine configured for reception only: thru starts
// off and sends are still reachable (the source's ENABLE_OUTPUT guarded only
// the thru forwarding path, not application sends), matching §9's
// resolution that feature flags become runtime defaults, not compiled-out
// code paths.
func NewReceiver(transport ByteTransport, opts ...Option) *Engine {
	return NewEngine(transport, opts...)
}

// NewSender returns an Engine configured for sending only: the input channel
// is set to OFF after the caller's options are applied, so it overrides any
// WithInputChannel and Poll never surfaces received messages, though Poll may
// still be called harmlessly.
func NewSender(transport ByteTransport, opts ...Option) *Engine {
	opts = append(opts, WithInputChannel(OFF))
	return NewEngine(transport, opts...)
}

// Begin is a no-op retained for symmetry with the source's begin(inChannel)
// entry point. It takes no argument: Go's transport is already open by the
// time it reaches NewEngine, and the input channel is set with
// WithInputChannel (default 1) or SetInputChannel. It exists so a caller
// porting C++ call sites has a direct translation target.
func (e *Engine) Begin() {}

// Poll reads available bytes from the transport until one message completes
// (later bytes stay queued for the next call) and, if a message completed,
// applies the reception filter and thru forwarding
// before caching it (§4.4, §6). It returns true only for a message that
// passed the reception filter. If the input channel is OFF, Poll returns
// false immediately and no thru occurs, matching the source's
// read(inChannel): `if (inChannel >= MIDI_CHANNEL_OFF) return false;` runs
// before parse()/filter() are ever reached.
func (e *Engine) Poll() bool {
	if e.thru.InputChannel() >= OFF {
		return false
	}

	msg, ok := e.parser.Poll(e.transport)
	if !ok {
		return false
	}

	e.thru.Route(msg)

	if !e.thru.Accept(msg) {
		return false
	}

	e.current = msg
	if e.logger != nil {
		e.logger.WithField("kind", msg.Kind.String()).Debug("midi: received")
	}
	return true
}

// Read is an alias for Poll, matching the source's read() naming for callers
// that prefer that spelling (§6 lists both Poll and Read as acceptable
// names for the same operation).
func (e *Engine) Read() bool {
	return e.Poll()
}

// Kind returns the MessageKind of the last message accepted by Poll.
func (e *Engine) Kind() MessageKind { return e.current.Kind }

// Channel returns the channel of the last message accepted by Poll.
func (e *Engine) Channel() uint8 { return e.current.Channel }

// Data1 returns the first data byte of the last message accepted by Poll.
func (e *Engine) Data1() uint8 { return e.current.Data1 }

// Data2 returns the second data byte of the last message accepted by Poll.
func (e *Engine) Data2() uint8 { return e.current.Data2 }

// SysEx returns the captured SysEx frame of the last message accepted by
// Poll, if it was a SystemExclusive message.
func (e *Engine) SysEx() []byte { return e.current.SysExBytes() }

// Valid reports whether a message has ever been accepted by Poll.
func (e *Engine) Valid() bool { return e.current.Valid }

// Message returns a copy of the last message accepted by Poll.
func (e *Engine) Message() Message { return e.current }

// SetInputChannel sets the reception filter channel (OMNI, 1..16, or OFF).
func (e *Engine) SetInputChannel(channel uint8) { e.thru.SetInputChannel(channel) }

// InputChannel returns the current reception filter channel.
func (e *Engine) InputChannel() uint8 { return e.thru.InputChannel() }

// TurnThruOn enables thru forwarding with the given mode (ThruFull if mode
// is ThruOff).
func (e *Engine) TurnThruOn(mode ThruMode) { e.thru.TurnOn(mode) }

// TurnThruOff disables thru forwarding.
func (e *Engine) TurnThruOff() { e.thru.TurnOff() }

// SetThruMode sets the thru mode directly.
func (e *Engine) SetThruMode(mode ThruMode) { e.thru.SetMode(mode) }

// ThruMode returns the current thru mode.
func (e *Engine) ThruMode() ThruMode { return e.thru.Mode() }

// ThruState reports whether thru forwarding is currently enabled.
func (e *Engine) ThruState() bool { return e.thru.State() }

// The remaining methods are direct Encoder passthroughs, giving Engine the
// full public Send surface of §6 without callers reaching into encoder
// internals.

func (e *Engine) SendNoteOn(note, velocity, channel uint8)  { e.encoder.SendNoteOn(note, velocity, channel) }
func (e *Engine) SendNoteOff(note, velocity, channel uint8) { e.encoder.SendNoteOff(note, velocity, channel) }
func (e *Engine) SendAfterTouchPoly(note, pressure, channel uint8) {
	e.encoder.SendAfterTouchPoly(note, pressure, channel)
}
func (e *Engine) SendControlChange(controller, value, channel uint8) {
	e.encoder.SendControlChange(controller, value, channel)
}
func (e *Engine) SendProgramChange(program, channel uint8) {
	e.encoder.SendProgramChange(program, channel)
}
func (e *Engine) SendAfterTouchChannel(pressure, channel uint8) {
	e.encoder.SendAfterTouchChannel(pressure, channel)
}
func (e *Engine) SendPitchBend(value uint16, channel uint8) { e.encoder.SendPitchBend(value, channel) }
func (e *Engine) SendPitchBendFloat(value float64, channel uint8) {
	e.encoder.SendPitchBendFloat(value, channel)
}
func (e *Engine) SendRealTime(kind MessageKind) { e.encoder.SendRealTime(kind) }
func (e *Engine) SendTimeCodeQuarterFrame(data byte) {
	e.encoder.SendTimeCodeQuarterFrame(data)
}
func (e *Engine) SendTimeCodeQuarterFrameNibbles(typeNibble, valuesNibble byte) {
	e.encoder.SendTimeCodeQuarterFrameNibbles(typeNibble, valuesNibble)
}
func (e *Engine) SendSongPosition(beats uint16) { e.encoder.SendSongPosition(beats) }
func (e *Engine) SendSongSelect(song byte)       { e.encoder.SendSongSelect(song) }
func (e *Engine) SendSysEx(data []byte, framed bool) { e.encoder.SendSysEx(data, framed) }
func (e *Engine) SendTuneRequest()                   { e.encoder.SendTuneRequest() }
