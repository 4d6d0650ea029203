package midi

// invalidStatus is the sentinel stored in runningStatusRx/runningStatusTx
// semantics when no running status applies. 0x00 is never a valid MIDI
// status byte (bit 7 always set on real status bytes), so it doubles as
// Invalid.
const invalidStatus byte = 0x00

// Parser is a byte-consuming state machine assembling incoming octets into
// Messages (§4.3). It implements running-status expansion, SysEx capture and
// real-time interleaving, iteratively (§9: the source's recursive parse() is
// deliberately un-recursed here to bound stack use while a SysEx fills the
// buffer).
type Parser struct {
	pending         [MaxSysExCapacity]byte
	pendingIndex    int // 0 means idle, awaiting a status byte
	pendingExpected int // total length (status + data), or sysExCapacity

	runningStatusRx byte // last accepted channel-message status byte, or invalidStatus

	sysExCapacity int

	current Message

	diagnostics func(event DiagnosticEvent)
}

// NewParser returns an idle Parser. sysExCapacity bounds a captured SysEx
// frame including its 0xF0/0xF7 framing (§3); values <= 0 default to
// DefaultSysExCapacity.
func NewParser(sysExCapacity int) *Parser {
	if sysExCapacity <= 0 || sysExCapacity > MaxSysExCapacity {
		sysExCapacity = DefaultSysExCapacity
	}
	return &Parser{
		runningStatusRx: invalidStatus,
		sysExCapacity:   sysExCapacity,
	}
}

// reset returns the Parser to Idle, discarding any partially assembled
// message, and clears running status — the shared tail of every error path
// in §7's table.
func (p *Parser) reset() {
	p.pendingIndex = 0
	p.pendingExpected = 0
	p.runningStatusRx = invalidStatus
}

// Feed consumes one byte and returns the Message it completed, if any. It
// never blocks and never allocates on the completion path (Message is
// returned by value but contains only a fixed array).
func (p *Parser) Feed(b byte) (Message, bool) {
	if p.pendingIndex == 0 {
		return p.feedIdle(b)
	}
	return p.feedAssembling(b)
}

// Poll feeds the bytes currently available on transport to Feed one at a
// time, stopping as soon as one Message completes; bytes after it stay queued
// for the next call. It returns at most one completed Message (§4.3.3: "each call
// consumes at most one completed message plus any number of zero-byte read
// attempts"). It also implements §4.3.2's overflow policy.
func (p *Parser) Poll(transport ByteTransport) (Message, bool) {
	if transport.Available() == transport.Capacity() {
		p.emit(DiagnosticEvent{Kind: DiagTransportSaturated})
		transport.Flush()
		p.reset()
	}

	for transport.Available() > 0 {
		b, err := transport.ReadByte()
		if err != nil {
			return Message{}, false
		}

		if msg, ok := p.Feed(b); ok {
			return msg, true
		}
	}

	return Message{}, false
}

// feedIdle handles §4.3.1's Idle transitions.
func (p *Parser) feedIdle(b byte) (Message, bool) {
	p.pending[0] = b

	// Running-status expansion: a data byte arriving while idle, with a
	// channel-kind status cached, is treated as belonging to a repeat of
	// that status (§4.3.1 step 2).
	if Classify(p.runningStatusRx).IsChannel() && b < 0x80 {
		p.pending[0] = p.runningStatusRx
		p.pending[1] = b
		p.pendingIndex = 1
		return p.afterIdleClassify()
	}

	return p.afterIdleClassify()
}

// afterIdleClassify classifies pending[0] and either finalises a zero-data
// message immediately or sets up pendingExpected for more bytes.
func (p *Parser) afterIdleClassify() (Message, bool) {
	kind := Classify(p.pending[0])

	switch ExpectedLength(kind) {
	case 0:
		if kind == Invalid {
			p.emit(DiagnosticEvent{Kind: DiagParserInvalidStatus, Byte: p.pending[0]})
			p.reset()
			return Message{}, false
		}
		// Zero-data kinds (Clock/Start/Continue/Stop/ActiveSensing/
		// SystemReset/TuneRequest): finalise immediately.
		p.current = Message{Kind: kind, Channel: 0, Data1: 0, Data2: 0, Valid: true}
		p.pendingIndex = 0
		p.runningStatusRx = invalidStatus
		return p.current, true
	case 1:
		p.pendingExpected = 2
	case 2:
		p.pendingExpected = 3
	case Variable:
		p.pendingExpected = p.sysExCapacity
	}

	p.pendingIndex++
	return Message{}, false
}

// feedAssembling handles §4.3.1's Assembling transitions.
func (p *Parser) feedAssembling(b byte) (Message, bool) {
	if b >= 0x80 {
		return p.feedAssemblingStatus(b)
	}

	if p.pendingIndex < len(p.pending) {
		p.pending[p.pendingIndex] = b
	}

	if p.pendingIndex+1 == p.pendingExpected {
		return p.finaliseFixedLength()
	}

	p.pendingIndex++
	return Message{}, false
}

// feedAssemblingStatus handles a status byte arriving mid-message: either a
// transparent real-time interleave, an end-of-exclusive, or a protocol
// error (§4.3.1 Assembling, step 1).
func (p *Parser) feedAssemblingStatus(b byte) (Message, bool) {
	kind := Classify(b)

	if kind.IsRealTime() {
		// Leave pending/pendingIndex/pendingExpected untouched so the
		// interrupted message resumes on the next byte. Running status is
		// preserved.
		p.current = Message{Kind: kind, Channel: 0, Valid: true}
		return p.current, true
	}

	if b == EndOfExclusive && Classify(p.pending[0]) == SystemExclusive {
		return p.finaliseSysEx()
	}

	// Any other status byte mid-message is a protocol error: the message
	// under assembly is abandoned. The offending byte itself is a status
	// byte though, so rather than swallow it, it is handed straight back
	// into Idle — it may validly start the next message (§4.3.2's
	// "re-synchronise on the next status byte" philosophy, applied here to
	// a single corrupted message instead of a saturated transport).
	p.emit(DiagnosticEvent{Kind: DiagParserUnexpectedStatus, Byte: b})
	p.reset()
	return p.feedIdle(b)
}

// finaliseSysEx closes out a SysEx frame on 0xF7 (§4.3.1 Assembling, EOX
// case). pending[0..pendingIndex] holds the frame up to and including the
// last captured data byte; the trailing 0xF7 is appended explicitly.
func (p *Parser) finaliseSysEx() (Message, bool) {
	captured := p.pendingIndex // pending[:pendingIndex] holds the frame sans trailing 0xF7
	frameLen := captured + 1   // plus the trailing 0xF7 being added now

	if frameLen > len(p.current.SysEx) {
		frameLen = len(p.current.SysEx)
		captured = frameLen - 1
	}

	copy(p.current.SysEx[:captured], p.pending[:captured])
	p.current.SysEx[captured] = EndOfExclusive

	p.current.Kind = SystemExclusive
	p.current.Data1 = uint8(frameLen)
	p.current.Data2 = 0
	p.current.Channel = 0
	p.current.Valid = true

	p.reset()
	return p.current, true
}

// finaliseFixedLength completes a channel or system-common message once
// pendingExpected bytes have arrived (§4.3.1 Assembling, step 3).
func (p *Parser) finaliseFixedLength() (Message, bool) {
	kind := Classify(p.pending[0])

	if kind == SystemExclusive {
		// Reached capacity without a terminating 0xF7: drop the frame.
		p.emit(DiagnosticEvent{Kind: DiagParserSysExOverflow})
		p.reset()
		return Message{}, false
	}

	p.current.Kind = kind
	if kind.IsChannel() {
		p.current.Channel = (p.pending[0] & 0x0F) + 1
	} else {
		p.current.Channel = 0
	}
	p.current.Data1 = p.pending[1]
	if p.pendingExpected > 2 {
		p.current.Data2 = p.pending[2]
	} else {
		p.current.Data2 = 0
	}
	p.current.Valid = true

	if kind.IsChannel() {
		// Cache the raw status byte (not just the kind) so a later
		// running-status expansion recovers the right channel.
		p.runningStatusRx = p.pending[0]
	} else {
		p.runningStatusRx = invalidStatus
	}

	p.pendingIndex = 0
	p.pendingExpected = 0

	return p.current, true
}

func (p *Parser) emit(event DiagnosticEvent) {
	if p.diagnostics != nil {
		p.diagnostics(event)
	}
}
