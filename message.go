package midi

// MessageKind identifies the kind of a decoded or to-be-encoded MIDI message.
type MessageKind byte

// The full set of MIDI 1.0 message kinds this engine understands, plus
// Invalid for anything that doesn't map onto a real status byte.
const (
	Invalid              MessageKind = 0x00
	NoteOff              MessageKind = 0x80
	NoteOn               MessageKind = 0x90
	AfterTouchPoly       MessageKind = 0xA0
	ControlChange        MessageKind = 0xB0
	ProgramChange        MessageKind = 0xC0
	AfterTouchChannel    MessageKind = 0xD0
	PitchBend            MessageKind = 0xE0
	SystemExclusive      MessageKind = 0xF0
	TimeCodeQuarterFrame MessageKind = 0xF1
	SongPosition         MessageKind = 0xF2
	SongSelect           MessageKind = 0xF3
	TuneRequest          MessageKind = 0xF6
	Clock                MessageKind = 0xF8
	Start                MessageKind = 0xFA
	Continue             MessageKind = 0xFB
	Stop                 MessageKind = 0xFC
	ActiveSensing        MessageKind = 0xFE
	SystemReset          MessageKind = 0xFF
)

// EndOfExclusive is the wire byte that terminates a SystemExclusive frame. It
// is not a MessageKind of its own; the Parser treats it as a special case
// while assembling a message (§4.3.1).
const EndOfExclusive byte = 0xF7

var messageKindNames = map[MessageKind]string{
	NoteOff:              "NoteOff",
	NoteOn:               "NoteOn",
	AfterTouchPoly:       "AfterTouchPoly",
	ControlChange:        "ControlChange",
	ProgramChange:        "ProgramChange",
	AfterTouchChannel:    "AfterTouchChannel",
	PitchBend:            "PitchBend",
	SystemExclusive:      "SystemExclusive",
	TimeCodeQuarterFrame: "TimeCodeQuarterFrame",
	SongPosition:         "SongPosition",
	SongSelect:           "SongSelect",
	TuneRequest:          "TuneRequest",
	Clock:                "Clock",
	Start:                "Start",
	Continue:             "Continue",
	Stop:                 "Stop",
	ActiveSensing:        "ActiveSensing",
	SystemReset:          "SystemReset",
	Invalid:              "Invalid",
}

// String renders a MessageKind by name, falling back to "Invalid" for
// anything not in the table.
func (k MessageKind) String() string {
	if v, ok := messageKindNames[k]; ok {
		return v
	}
	return "Invalid"
}

// IsChannel reports whether this kind carries a channel (the top-nibble
// status bytes 0x80-0xE0).
func (k MessageKind) IsChannel() bool {
	switch k {
	case NoteOff, NoteOn, AfterTouchPoly, ControlChange, ProgramChange, AfterTouchChannel, PitchBend:
		return true
	default:
		return false
	}
}

// IsRealTime reports whether this kind is a single-byte System Real Time
// message, eligible to interleave mid-message per §4.3.1.
func (k MessageKind) IsRealTime() bool {
	switch k {
	case Clock, Start, Continue, Stop, ActiveSensing, SystemReset:
		return true
	default:
		return false
	}
}

// DefaultSysExCapacity is the default bound on a captured SysEx frame,
// including the leading 0xF0 and trailing 0xF7 (§3). Override per Engine
// with WithSysExCapacity.
const DefaultSysExCapacity = 255

// MaxSysExCapacity bounds how large a caller may configure the SysEx buffer.
// Message.Data1 reports a SysEx frame's length as a uint8 (§3), so capacity
// can never usefully exceed 255; Message.SysEx stays a fixed array rather
// than a slice up to that bound.
const MaxSysExCapacity = 255

// ManufacturerIDNonCommercial is the MIDI manufacturer ID (0x7D) reserved for
// non-commercial/educational use, per the MIDI spec and
// original_source/Arduino/MIDI.h's MANUFACTURER_ID_H. The Encoder does not
// interpret SysEx payloads, but callers building an educational SysEx frame
// commonly need this constant.
const ManufacturerIDNonCommercial byte = 0x7D

// OMNI is the special input channel value meaning "accept every channel".
const OMNI = 0

// OFF is the special input channel value meaning "MIDI input is disabled".
const OFF = 17

// Message is a fully decoded (or about-to-be-encoded) MIDI 1.0 message. It is
// a plain value type: the SysEx payload lives in a fixed-capacity array, not
// a slice, so that completing a message never allocates.
type Message struct {
	Kind    MessageKind
	Channel uint8 // 1..16 for channel kinds, 0 for system kinds
	Data1   uint8 // 0..127; for SysEx, the captured frame length
	Data2   uint8 // 0..127; unused (0) for single-data-byte kinds
	SysEx   [MaxSysExCapacity]byte
	Valid   bool
}

// SysExBytes returns the captured SysEx frame, including the leading 0xF0
// and trailing 0xF7, sliced to its actual length (Data1).
func (m *Message) SysExBytes() []byte {
	if m.Kind != SystemExclusive {
		return nil
	}
	n := int(m.Data1)
	if n > len(m.SysEx) {
		n = len(m.SysEx)
	}
	return m.SysEx[:n]
}
