package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFrame_Layout(t *testing.T) {
	raw, err := encodeFrame(cmdGetProfileData, 0, 0x012C, []byte{0xAA, 0xBB})
	require.NoError(t, err)

	assert.Equal(t, uint8(0), raw[0], "report-id slot belongs to the transport")
	assert.Equal(t, cmdGetProfileData, raw[framePosCmd])
	assert.Equal(t, uint8(0), raw[framePosErr])
	assert.Equal(t, uint8(0x01), raw[framePosAddr], "address high byte first")
	assert.Equal(t, uint8(0x2C), raw[framePosAddr+1])
	assert.Equal(t, uint8(2), raw[framePosLen])
	assert.Equal(t, []byte{0xAA, 0xBB, 0, 0, 0, 0, 0, 0, 0, 0}, raw[framePosPayload:framePosSum],
		"payload zero-padded to 10 bytes")
	assert.Equal(t, checksum(raw[framePosCmd:framePosSum], sumInitMacro), raw[framePosSum],
		"0x012C is in the combo region, macro seed")
}

func TestEncodeFrame_SeedFollowsAddress(t *testing.T) {
	settings, err := encodeFrame(cmdGetProfileData, 0, 0x0000, nil)
	require.NoError(t, err)
	macro, err := encodeFrame(cmdGetProfileData, 0, 0x0300, nil)
	require.NoError(t, err)

	assert.Equal(t, checksum(settings[framePosCmd:framePosSum], sumInitSettings), settings[framePosSum])
	assert.Equal(t, checksum(macro[framePosCmd:framePosSum], sumInitMacro), macro[framePosSum])
}

func TestEncodeFrame_PayloadTooLong(t *testing.T) {
	_, err := encodeFrame(cmdSetProfileData, 0, 0, make([]byte, maxFramePayload+1))
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr, "oversized payload must error, not truncate")
}

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		cmd     uint8
		addr    uint16
		payload []byte
	}{
		{"empty payload", cmdGetActiveProfile, 0, nil},
		{"full payload settings", cmdSetProfileData, 0x00F6, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"short payload macro region", cmdSetProfileData, 0x1AFE, []byte{0xDE, 0xAD}},
		{"read request", cmdGetProfileData, 0x0042, make([]byte, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := encodeFrame(tt.cmd, 0, tt.addr, tt.payload)
			require.NoError(t, err)

			frame, err := decodeFrame(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.cmd, frame.Command)
			assert.Equal(t, uint8(0), frame.Error)
			assert.Equal(t, tt.addr, frame.Address)
			if len(tt.payload) == 0 {
				assert.Empty(t, frame.Payload)
			} else {
				assert.Equal(t, tt.payload, frame.Payload)
			}
		})
	}
}

func TestDecodeFrame_ChecksumMismatch(t *testing.T) {
	raw, err := encodeFrame(cmdGetProfileData, 0, 0x0010, []byte{1, 2, 3})
	require.NoError(t, err)
	raw[framePosPayload] ^= 0x01

	_, err = decodeFrame(raw)
	var cerr *ChecksumError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "frame", cerr.Context)
}

func TestDecodeFrame_LengthByteTooLarge(t *testing.T) {
	raw, err := encodeFrame(cmdGetProfileData, 0, 0, nil)
	require.NoError(t, err)
	raw[framePosLen] = 11
	raw[framePosSum] = checksum(raw[framePosCmd:framePosSum], sumInitSettings)

	_, err = decodeFrame(raw)
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
}

func TestDecodeFrame_DeviceErrorIsAFieldNotAParseFailure(t *testing.T) {
	raw, err := encodeFrame(cmdSetProfileData, 0x01, 0x0020, nil)
	require.NoError(t, err)

	frame, err := decodeFrame(raw)
	require.NoError(t, err, "frames with a device error code still decode")
	assert.Equal(t, uint8(1), frame.Error)

	var derr *DeviceError
	require.ErrorAs(t, frame.Err(), &derr)
	assert.Equal(t, uint8(1), derr.Code)
}
