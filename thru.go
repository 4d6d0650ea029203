package midi

// ThruMode selects how received messages are mirrored to the output
// transport (§4.4).
type ThruMode int

const (
	ThruOff ThruMode = iota
	ThruFull
	ThruSameChannel
	ThruDifferentChannel
)

func (m ThruMode) String() string {
	switch m {
	case ThruOff:
		return "Off"
	case ThruFull:
		return "Full"
	case ThruSameChannel:
		return "SameChannel"
	case ThruDifferentChannel:
		return "DifferentChannel"
	default:
		return "Unknown"
	}
}

// ThruEngine couples a parsed Message to a reception decision and a thru
// forward decision (§4.4). It holds no state of its own beyond the mode and
// input channel; the Encoder it drives owns the running-status state shared
// between forwarding and application sends.
type ThruEngine struct {
	mode         ThruMode
	inputChannel uint8 // 1..16, OMNI (0), or OFF (17)
	encoder      *Encoder
}

// NewThruEngine returns a ThruEngine forwarding through encoder, initially
// off, listening on OMNI.
func NewThruEngine(encoder *Encoder) *ThruEngine {
	return &ThruEngine{mode: ThruOff, inputChannel: OMNI, encoder: encoder}
}

// SetInputChannel sets the channel the reception filter and SameChannel/
// DifferentChannel thru modes compare against.
func (t *ThruEngine) SetInputChannel(channel uint8) {
	t.inputChannel = channel
}

// InputChannel returns the current input channel.
func (t *ThruEngine) InputChannel() uint8 {
	return t.inputChannel
}

// TurnOn enables thru mirroring with the given mode; ThruOff is taken as
// ThruFull, so TurnOn always leaves mirroring enabled.
func (t *ThruEngine) TurnOn(mode ThruMode) {
	if mode == ThruOff {
		mode = ThruFull
	}
	t.mode = mode
}

// TurnOff disables thru mirroring.
func (t *ThruEngine) TurnOff() {
	t.mode = ThruOff
}

// SetMode sets the thru mode directly; ThruOff disables mirroring, any other
// value enables it (§4.4: "thruEnabled kept consistent").
func (t *ThruEngine) SetMode(mode ThruMode) {
	t.mode = mode
}

// Mode returns the current thru mode.
func (t *ThruEngine) Mode() ThruMode {
	return t.mode
}

// State reports whether thru mirroring is currently enabled.
func (t *ThruEngine) State() bool {
	return t.mode != ThruOff
}

// Accept implements §4.4's reception filter: whether a parsed Message should
// be surfaced to the caller. Channel kinds match on OMNI or exact channel;
// system kinds are always accepted; OFF disables reception entirely.
func (t *ThruEngine) Accept(m Message) bool {
	if t.inputChannel >= OFF {
		return false
	}

	if !m.Kind.IsChannel() {
		return true
	}

	return t.inputChannel == OMNI || m.Channel == t.inputChannel
}

// Route implements §4.4's thru forwarding, independent of Accept. It
// re-enters the Encoder, so the Encoder's running-status state is shared
// between forwarded and application-originated sends, per §4.4's closing
// note.
func (t *ThruEngine) Route(m Message) {
	if t.mode == ThruOff {
		return
	}

	if m.Kind.IsChannel() {
		t.routeChannel(m)
		return
	}

	t.routeSystem(m)
}

func (t *ThruEngine) routeChannel(m Message) {
	switch t.mode {
	case ThruFull:
		t.forwardChannel(m)
	case ThruSameChannel:
		if m.Channel == t.inputChannel {
			t.forwardChannel(m)
		}
	case ThruDifferentChannel:
		if m.Channel != t.inputChannel {
			t.forwardChannel(m)
		}
	case ThruOff:
		// unreachable: guarded by Route's caller.
	}
}

func (t *ThruEngine) forwardChannel(m Message) {
	switch m.Kind {
	case NoteOn:
		t.encoder.SendNoteOn(m.Data1, m.Data2, m.Channel)
	case NoteOff:
		t.encoder.SendNoteOff(m.Data1, m.Data2, m.Channel)
	case AfterTouchPoly:
		t.encoder.SendAfterTouchPoly(m.Data1, m.Data2, m.Channel)
	case ControlChange:
		t.encoder.SendControlChange(m.Data1, m.Data2, m.Channel)
	case ProgramChange:
		t.encoder.SendProgramChange(m.Data1, m.Channel)
	case AfterTouchChannel:
		t.encoder.SendAfterTouchChannel(m.Data1, m.Channel)
	case PitchBend:
		t.encoder.SendPitchBend(uint16(m.Data1)|uint16(m.Data2)<<7, m.Channel)
	}
}

// routeSystem forwards a system-kind message verbatim, via the matching
// Encoder operation, exactly per §4.4's closing bullet.
func (t *ThruEngine) routeSystem(m Message) {
	switch m.Kind {
	case Clock, Start, Continue, Stop, ActiveSensing, SystemReset, TuneRequest:
		t.encoder.SendRealTime(m.Kind)
	case SystemExclusive:
		t.encoder.SendSysEx(m.SysExBytes(), true)
	case SongSelect:
		t.encoder.SendSongSelect(m.Data1)
	case SongPosition:
		t.encoder.SendSongPosition(uint16(m.Data1) | uint16(m.Data2)<<7)
	case TimeCodeQuarterFrame:
		t.encoder.SendTimeCodeQuarterFrame(m.Data1)
	}
}
