package midi

import "math"

// Encoder turns structured Messages into MIDI wire bytes, applying
// running-status compression across successive sends per §4.2. It is
// stateless except for that one field.
type Encoder struct {
	transport       ByteTransport
	useRunningStatus bool
	runningStatusTx  MessageKind

	diagnostics func(event DiagnosticEvent)
}

// NewEncoder returns an Encoder writing through transport. useRunningStatus
// mirrors the source's USE_RUNNING_STATUS compile-time flag, now a runtime
// choice per §9's redesign note.
func NewEncoder(transport ByteTransport, useRunningStatus bool) *Encoder {
	return &Encoder{
		transport:        transport,
		useRunningStatus: useRunningStatus,
		runningStatusTx:  Invalid,
	}
}

// resetRunningStatus clears the TX running-status cache, forcing the next
// channel send to emit a fresh status byte.
func (e *Encoder) resetRunningStatus() {
	e.runningStatusTx = Invalid
}

// sendChannel implements the shared path for all channel-kind sends (§4.2).
func (e *Encoder) sendChannel(kind MessageKind, data1, data2, channel uint8) {
	// Channel validation: OMNI (0) or above OFF's threshold is a no-op and
	// resets running status, per the stricter of the two source revisions
	// (§9).
	if channel == OMNI || channel > 16 {
		e.resetRunningStatus()
		e.emit(DiagnosticEvent{Kind: DiagEncodeInvalidChannel, Channel: channel})
		return
	}

	data1 &= 0x7F
	data2 &= 0x7F

	status := byte(kind) | ((channel - 1) & 0x0F)

	if e.useRunningStatus && MessageKind(status) == e.runningStatusTx {
		// Running status active and unchanged: omit the status byte.
	} else {
		if err := e.transport.WriteByte(status); err != nil {
			e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
			return
		}
		if e.useRunningStatus {
			e.runningStatusTx = MessageKind(status)
		}
	}

	if err := e.transport.WriteByte(data1); err != nil {
		e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
		return
	}

	if kind != ProgramChange && kind != AfterTouchChannel {
		if err := e.transport.WriteByte(data2); err != nil {
			e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
		}
	}
}

// SendNoteOn sends a NoteOn message.
func (e *Encoder) SendNoteOn(note, velocity, channel uint8) {
	e.sendChannel(NoteOn, note, velocity, channel)
}

// SendNoteOff sends a NoteOff message.
func (e *Encoder) SendNoteOff(note, velocity, channel uint8) {
	e.sendChannel(NoteOff, note, velocity, channel)
}

// SendAfterTouchPoly sends a polyphonic (per-note) AfterTouch message.
func (e *Encoder) SendAfterTouchPoly(note, pressure, channel uint8) {
	e.sendChannel(AfterTouchPoly, note, pressure, channel)
}

// SendControlChange sends a Control Change message.
func (e *Encoder) SendControlChange(controller, value, channel uint8) {
	e.sendChannel(ControlChange, controller, value, channel)
}

// SendProgramChange sends a Program Change message.
func (e *Encoder) SendProgramChange(program, channel uint8) {
	e.sendChannel(ProgramChange, program, 0, channel)
}

// SendAfterTouchChannel sends a monophonic (whole-channel) AfterTouch
// message.
func (e *Encoder) SendAfterTouchChannel(pressure, channel uint8) {
	e.sendChannel(AfterTouchChannel, pressure, 0, channel)
}

// SendPitchBend sends a Pitch Bend message using a 14-bit value
// (0..16383, center 8192).
func (e *Encoder) SendPitchBend(value uint16, channel uint8) {
	e.sendChannel(PitchBend, uint8(value&0x7F), uint8((value>>7)&0x7F), channel)
}

// SendPitchBendFloat sends a Pitch Bend message from a floating point value
// in [-1.0, +1.0], mapped per §4.2:
// round((v + 1) * 8192), clamped to the top of the 14-bit range.
func (e *Encoder) SendPitchBendFloat(value float64, channel uint8) {
	pitch := math.Round((value + 1.0) * 8192)
	if pitch > 16383 {
		pitch = 16383
	}
	if pitch < 0 {
		pitch = 0
	}
	e.SendPitchBend(uint16(pitch), channel)
}

// SendRealTime sends a single-byte System Real Time (or TuneRequest)
// message. It never touches runningStatusTx (§4.2: real-time bytes must be
// interleavable without corrupting a channel-message run). An invalid kind
// is a silent no-op (§7).
func (e *Encoder) SendRealTime(kind MessageKind) {
	switch kind {
	case TuneRequest, Clock, Start, Stop, Continue, ActiveSensing, SystemReset:
		if err := e.transport.WriteByte(byte(kind)); err != nil {
			e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
		}
	default:
		e.emit(DiagnosticEvent{Kind: DiagEncodeInvalidRealTime, MsgKind: kind})
	}
}

// SendTimeCodeQuarterFrame sends a raw MTC quarter-frame byte.
func (e *Encoder) SendTimeCodeQuarterFrame(data byte) {
	e.writeSystemCommon(TimeCodeQuarterFrame, data)
}

// SendTimeCodeQuarterFrameNibbles sends an MTC quarter-frame built from a
// 3-bit type nibble and a 4-bit value nibble.
func (e *Encoder) SendTimeCodeQuarterFrameNibbles(typeNibble, valuesNibble byte) {
	data := ((typeNibble & 0x07) << 4) | (valuesNibble & 0x0F)
	e.SendTimeCodeQuarterFrame(data)
}

// SendSongPosition sends a Song Position Pointer message (14-bit beat
// count).
func (e *Encoder) SendSongPosition(beats uint16) {
	if err := e.transport.WriteByte(byte(SongPosition)); err != nil {
		e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
		return
	}
	if err := e.transport.WriteByte(uint8(beats & 0x7F)); err != nil {
		e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
		return
	}
	if err := e.transport.WriteByte(uint8((beats >> 7) & 0x7F)); err != nil {
		e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
	}
}

// SendSongSelect sends a Song Select message.
func (e *Encoder) SendSongSelect(song byte) {
	e.writeSystemCommon(SongSelect, song&0x7F)
}

func (e *Encoder) writeSystemCommon(kind MessageKind, data byte) {
	if err := e.transport.WriteByte(byte(kind)); err != nil {
		e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
		return
	}
	if err := e.transport.WriteByte(data); err != nil {
		e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
	}
}

// SendSysEx writes a System Exclusive frame. If framed is true, data already
// contains the leading 0xF0 and trailing 0xF7 and is written verbatim;
// otherwise the framing bytes are added.
func (e *Encoder) SendSysEx(data []byte, framed bool) {
	if !framed {
		if err := e.transport.WriteByte(byte(SystemExclusive)); err != nil {
			e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
			return
		}
	}

	for _, b := range data {
		if err := e.transport.WriteByte(b); err != nil {
			e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
			return
		}
	}

	if !framed {
		if err := e.transport.WriteByte(EndOfExclusive); err != nil {
			e.emit(DiagnosticEvent{Kind: DiagTransportWriteError, Err: err})
		}
	}
}

// SendTuneRequest sends a Tune Request message.
func (e *Encoder) SendTuneRequest() {
	e.SendRealTime(TuneRequest)
}

func (e *Encoder) emit(event DiagnosticEvent) {
	if e.diagnostics != nil {
		e.diagnostics(event)
	}
}
