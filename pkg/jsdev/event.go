// Package jsdev reads Linux joystick devices (/dev/input/js*) and exposes
// them as an input.DeviceSource.
package jsdev

import (
	"encoding/binary"
	"io"
	"math"
)

// EventSize is the size of a js_event record.
const EventSize = 8

// Event types. TypeInit is or'ed in for the synthetic events the kernel
// sends on open to report the initial state.
const (
	TypeButton uint8 = 0x01
	TypeAxis   uint8 = 0x02
	TypeInit   uint8 = 0x80
)

// Event mirrors struct js_event.
type Event struct {
	Time   uint32 // milliseconds, wraps
	Value  int16
	Type   uint8
	Number uint8
}

// Kind returns the type without the init flag.
func (e Event) Kind() uint8 { return e.Type &^ TypeInit }

// Initial reports whether the event describes the state at open time.
func (e Event) Initial() bool { return e.Type&TypeInit != 0 }

// Normalized returns the value scaled to [-1, 1] for axes and {0, 1} for
// buttons.
func (e Event) Normalized() float64 {
	if e.Kind() == TypeButton {
		if e.Value != 0 {
			return 1
		}
		return 0
	}
	return math.Max(-1, math.Min(1, float64(e.Value)/math.MaxInt16))
}

// ReadEvent reads one record from r.
func ReadEvent(r io.Reader) (Event, error) {
	var e Event
	err := binary.Read(r, binary.LittleEndian, &e)
	return e, err
}

// Encode returns the wire form of e.
func (e Event) Encode() []byte {
	b := make([]byte, EventSize)
	binary.LittleEndian.PutUint32(b[0:4], e.Time)
	binary.LittleEndian.PutUint16(b[4:6], uint16(e.Value))
	b[6] = e.Type
	b[7] = e.Number
	return b
}
