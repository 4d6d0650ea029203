package midi

import (
	"github.com/sirupsen/logrus"
)

// DiagKind identifies the reason a DiagnosticEvent was raised. The first six
// map 1:1 onto §7's error table; DiagTransportWriteError additionally reports
// a failed ByteTransport.WriteByte. None of them is ever surfaced to a caller
// as a returned error — the core's contract is best-effort, never crash.
type DiagKind int

const (
	DiagParserInvalidStatus DiagKind = iota
	DiagParserUnexpectedStatus
	DiagParserSysExOverflow
	DiagTransportSaturated
	DiagEncodeInvalidChannel
	DiagEncodeInvalidRealTime
	DiagTransportWriteError
)

func (k DiagKind) String() string {
	switch k {
	case DiagParserInvalidStatus:
		return "parser: invalid status byte"
	case DiagParserUnexpectedStatus:
		return "parser: unexpected status byte mid-message"
	case DiagParserSysExOverflow:
		return "parser: sysex overflow"
	case DiagTransportSaturated:
		return "transport: input saturated"
	case DiagEncodeInvalidChannel:
		return "encoder: invalid channel"
	case DiagEncodeInvalidRealTime:
		return "encoder: invalid real-time kind"
	case DiagTransportWriteError:
		return "transport: write error"
	default:
		return "unknown"
	}
}

// DiagnosticEvent is the payload of the optional side channel (§7: "A
// diagnostic side channel MAY be exposed but is not part of the core
// contract"). Fields not relevant to a given Kind are left zero.
type DiagnosticEvent struct {
	Kind    DiagKind
	Byte    byte
	Channel uint8
	MsgKind MessageKind
	Err     error
}

// defaultDiagnostics logs an event via logrus at the same granularity the
// teacher's tasks.go logs rejected traffic: Warn for a discarded/reset
// condition, matching log.Errorf's call sites there.
func defaultDiagnostics(logger *logrus.Logger) func(DiagnosticEvent) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(event DiagnosticEvent) {
		fields := logrus.Fields{"kind": event.Kind.String()}
		if event.Byte != 0 {
			fields["byte"] = event.Byte
		}
		if event.Channel != 0 {
			fields["channel"] = event.Channel
		}
		if event.MsgKind != Invalid {
			fields["msgKind"] = event.MsgKind.String()
		}
		if event.Err != nil {
			fields["err"] = event.Err
		}
		logger.WithFields(fields).Warn(event.Kind.String())
	}
}
