package main

import "encoding/binary"

// Commands understood by the configuration interface. Other command IDs seen
// in captures (0x02-0x04, 0x0A, 0x12, 0x17) are unconfirmed and unused.
const (
	cmdSetProfileData   uint8 = 0x07
	cmdGetProfileData   uint8 = 0x08
	cmdGetActiveProfile uint8 = 0x0E
	cmdSetActiveProfile uint8 = 0x0F
)

const (
	// reportID is the HID report carrying configuration traffic. The codec
	// leaves the report-id slot zero; the transport owns it.
	reportID uint8 = 0x08

	// frameSize is the full report: report-id slot, command, error,
	// big-endian address, payload length, 10 payload bytes, checksum.
	frameSize = 17

	// maxFramePayload is the largest payload one frame can carry.
	maxFramePayload = 10
)

// Frame byte positions.
const (
	framePosCmd     = 1
	framePosErr     = 2
	framePosAddr    = 3
	framePosLen     = 5
	framePosPayload = 6
	framePosSum     = 16
)

// Frame is one decoded 17-byte report.
type Frame struct {
	Command uint8
	Error   uint8
	Address uint16
	Payload []byte
}

// Err returns the device-reported error as a DeviceError, or nil.
func (f *Frame) Err() error {
	if f.Error != 0 {
		return &DeviceError{Code: f.Error}
	}
	return nil
}

// frameChecksumInit picks the checksum seed for a frame by its start
// address: frames addressed at the key-combo/macro regions use the macro
// seed. Frames that straddle 0x0100 take the seed of their start address.
func frameChecksumInit(addr uint16) uint8 {
	if addr >= comboBase && addr < profileSize {
		return sumInitMacro
	}
	return sumInitSettings
}

// encodeFrame builds a report for command cmd addressed at addr. The payload
// must fit in one frame; longer input is a ProtocolError, never truncated.
func encodeFrame(cmd, errCode uint8, addr uint16, payload []byte) ([frameSize]byte, error) {
	var raw [frameSize]byte
	if len(payload) > maxFramePayload {
		return raw, &ProtocolError{Reason: "payload exceeds 10 bytes"}
	}

	raw[framePosCmd] = cmd
	raw[framePosErr] = errCode
	binary.BigEndian.PutUint16(raw[framePosAddr:], addr)
	raw[framePosLen] = uint8(len(payload))
	copy(raw[framePosPayload:], payload)
	raw[framePosSum] = checksum(raw[framePosCmd:framePosSum], frameChecksumInit(addr))
	return raw, nil
}

// decodeFrame parses a received report. A checksum mismatch or malformed
// length fails the decode; a non-zero device error code does not, so callers
// can inspect Frame.Err separately.
func decodeFrame(raw [frameSize]byte) (Frame, error) {
	addr := binary.BigEndian.Uint16(raw[framePosAddr:])

	want := checksum(raw[framePosCmd:framePosSum], frameChecksumInit(addr))
	if got := raw[framePosSum]; got != want {
		return Frame{}, &ChecksumError{Context: "frame", Want: want, Got: got}
	}

	n := int(raw[framePosLen])
	if n > maxFramePayload {
		return Frame{}, &ProtocolError{Reason: "frame length byte exceeds 10"}
	}

	f := Frame{
		Command: raw[framePosCmd],
		Error:   raw[framePosErr],
		Address: addr,
		Payload: append([]byte(nil), raw[framePosPayload:framePosPayload+n]...),
	}
	return f, nil
}
