package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyEventCodec_RoundTrip(t *testing.T) {
	events := []KeyEvent{
		{Kind: KeyModifier, Code: 0x02, Pressed: true},
		{Kind: KeyHid, Code: 0x04, Pressed: true},
		{Kind: KeyHid, Code: 0x04, Pressed: false},
		{Kind: KeyConsumer, Code: 0x00E9, Pressed: true},
		{Kind: KeyDirection, Code: 0x08, Pressed: false},
	}
	for _, ev := range events {
		b, err := encodeKeyEvent(ev)
		require.NoError(t, err)
		require.Len(t, b, keyEventSize)

		decoded, err := decodeKeyEvent(b)
		require.NoError(t, err)
		assert.Equal(t, ev, decoded)
	}
}

func TestKeyEventCodec_WireBytes(t *testing.T) {
	// HID 'a' press: press flag, HID selector, code 0x0004 little-endian.
	b, err := encodeKeyEvent(KeyEvent{Kind: KeyHid, Code: 0x0004, Pressed: true})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x81, 0x04, 0x00}, b)

	// Consumer volume-up release, code 0x00E9.
	b, err = encodeKeyEvent(KeyEvent{Kind: KeyConsumer, Code: 0x00E9, Pressed: false})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x42, 0xE9, 0x00}, b)
}

func TestDecodeKeyEvent_RejectsBadFlags(t *testing.T) {
	var ferr *FlagError

	// Press and release both set.
	_, err := decodeKeyEvent([]byte{0xC1, 0x04, 0x00})
	assert.ErrorAs(t, err, &ferr)

	// Neither state bit set.
	_, err = decodeKeyEvent([]byte{0x01, 0x04, 0x00})
	assert.ErrorAs(t, err, &ferr)

	// HID and consumer selectors combined.
	_, err = decodeKeyEvent([]byte{0x83, 0x04, 0x00})
	assert.ErrorAs(t, err, &ferr)

	// Direction combined with HID.
	_, err = decodeKeyEvent([]byte{0x85, 0x04, 0x00})
	assert.ErrorAs(t, err, &ferr)
}

func TestMacroEventCodec(t *testing.T) {
	ev := MacroEvent{
		KeyEvent: KeyEvent{Kind: KeyHid, Code: 0x0004, Pressed: true},
		DelayMs:  0x1234,
	}
	b, err := encodeMacroEvent(ev)
	require.NoError(t, err)
	require.Len(t, b, macroEventSize)

	// Key data is little-endian, the delay big-endian.
	assert.Equal(t, []byte{0x81, 0x04, 0x00, 0x12, 0x34}, b)

	decoded, err := decodeMacroEvent(b)
	require.NoError(t, err)
	assert.Equal(t, ev, decoded)
}

func TestComboCodec_RoundTrip(t *testing.T) {
	combo := KeyCombo{Events: []KeyEvent{
		{Kind: KeyModifier, Code: 0x01, Pressed: true},
		{Kind: KeyHid, Code: 0x06, Pressed: true},
		{Kind: KeyHid, Code: 0x06, Pressed: false},
		{Kind: KeyModifier, Code: 0x01, Pressed: false},
	}}

	raw, err := encodeCombo(combo)
	require.NoError(t, err)
	require.Len(t, raw, comboSize)

	assert.Equal(t, uint8(4), raw[0])
	sumPos := 1 + maxComboEvents*keyEventSize
	assert.Equal(t, checksum(raw[:sumPos], sumInitMacro), raw[sumPos])
	for _, b := range raw[sumPos+1:] {
		assert.Equal(t, uint8(0), b, "padding stays zero")
	}

	decoded, err := decodeCombo(raw)
	require.NoError(t, err)
	assert.Equal(t, combo, decoded)
}

func TestComboCodec_Limits(t *testing.T) {
	var cerr *CountError

	over := KeyCombo{Events: make([]KeyEvent, maxComboEvents+1)}
	_, err := encodeCombo(over)
	assert.ErrorAs(t, err, &cerr)

	ok, err := encodeCombo(KeyCombo{Events: []KeyEvent{
		{Kind: KeyHid, Code: 0x04, Pressed: true},
	}})
	require.NoError(t, err)

	// Corrupting the count must fail the checksum before the count check.
	bad := append([]byte(nil), ok...)
	bad[0] = maxComboEvents + 1
	_, err = decodeCombo(bad)
	var sumErr *ChecksumError
	assert.ErrorAs(t, err, &sumErr)
}

func TestMacroCodec_RoundTrip(t *testing.T) {
	macro := Macro{
		Name: "reload",
		Events: []MacroEvent{
			{KeyEvent: KeyEvent{Kind: KeyHid, Code: 0x15, Pressed: true}, DelayMs: 50},
			{KeyEvent: KeyEvent{Kind: KeyHid, Code: 0x15, Pressed: false}, DelayMs: 0},
		},
	}

	raw, err := encodeMacro(macro)
	require.NoError(t, err)
	require.Len(t, raw, macroSize)

	assert.Equal(t, uint8(6), raw[0])
	assert.Equal(t, "reload", string(raw[1:7]))
	assert.Equal(t, uint8(2), raw[1+maxMacroName])

	sumPos := 1 + maxMacroName + 1 + maxMacroEvents*macroEventSize
	assert.Equal(t, checksum(raw[:sumPos], sumInitMacro), raw[sumPos])

	decoded, err := decodeMacro(raw)
	require.NoError(t, err)
	assert.Equal(t, macro, decoded)
}

func TestMacroCodec_Limits(t *testing.T) {
	var cerr *CountError

	_, err := encodeMacro(Macro{Name: "toolongtoolongtoolongtoolongtoo"})
	assert.ErrorAs(t, err, &cerr)

	_, err = encodeMacro(Macro{Events: make([]MacroEvent, maxMacroEvents+1)})
	assert.ErrorAs(t, err, &cerr)

	raw, err := encodeMacro(Macro{Name: "ok"})
	require.NoError(t, err)

	var sumErr *ChecksumError
	raw[5] ^= 0xFF
	_, err = decodeMacro(raw)
	assert.ErrorAs(t, err, &sumErr)
}
