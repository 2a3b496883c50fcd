package errcode

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	// Sensor line
	NotRunning     Code = "not_running"
	WrongParity    Code = "wrong_parity"
	LowRange       Code = "low_range"
	HighRange      Code = "high_range"
	CaptureOverrun Code = "capture_overrun"
	NoReading      Code = "no_reading"

	// Control plane
	Busy          Code = "busy"
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"
	HALNotReady   Code = "hal_not_ready"
	UnknownCap    Code = "unknown_capability"

	// Resources
	UnknownPin Code = "unknown_pin"
	PinInUse   Code = "pin_in_use"

	Error Code = "error" // generic fallback
)

// E keeps an operation and an optional cause next to a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.WrongParity) match a wrapped *E.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return Of(u.Unwrap())
	}
	return Error
}

// Wrap returns an *E for op, or nil when c is OK.
func Wrap(op string, c Code) error {
	if c == OK || c == "" {
		return nil
	}
	return &E{C: c, Op: op}
}

// IsRange reports whether c is one of the boundary sentinels of the sensor.
func IsRange(c Code) bool { return c == LowRange || c == HighRange }
