package main

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDevice means no compatible LAMZU mouse was found.
	ErrNoDevice = errors.New("no compatible LAMZU device found")

	// ErrNoResponse means the device never produced a matching reply.
	ErrNoResponse = errors.New("no valid response from device")
)

// ChecksumError reports a stored checksum that does not match the one
// recomputed over the same bytes.
type ChecksumError struct {
	Context string
	Want    uint8
	Got     uint8
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s: checksum mismatch (stored 0x%02X, computed 0x%02X)", e.Context, e.Got, e.Want)
}

// RangeError reports a decoded or caller-supplied value outside the
// documented domain of its field.
type RangeError struct {
	Field string
	Value int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: value %d out of range", e.Field, e.Value)
}

// CountError reports an element count beyond a field's capacity.
type CountError struct {
	Field string
	Value int
	Max   int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("%s: count %d exceeds maximum %d", e.Field, e.Value, e.Max)
}

// FlagError reports a key event flag byte that selects no interpretation or
// more than one.
type FlagError struct {
	Context string
	Flags   uint8
}

func (e *FlagError) Error() string {
	return fmt.Sprintf("%s: invalid flag combination 0x%02X", e.Context, e.Flags)
}

// DeviceError is a non-zero error code reported by the mouse in a response
// frame.
type DeviceError struct {
	Code uint8
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device returned error code %d", e.Code)
}

// TransportError wraps a failure of the underlying HID exchange. It is the
// only error kind eligible for the single per-frame retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is a protocol invariant violation: malformed frame length,
// address overrun, a transfer that never terminates.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Reason
}

// FieldError locates a profile decode failure at a named field and byte
// offset within the profile blob.
type FieldError struct {
	Field  string
	Offset int
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s at offset 0x%04X: %v", e.Field, e.Offset, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
