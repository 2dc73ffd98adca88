package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testProfile builds an in-memory profile covering every named field, with a
// mix of programmed and empty slots.
func testProfile() *Profile {
	p := &Profile{
		ReportRate:          1000,
		DpiCount:            2,
		CurrentDpiIndex:     1,
		LiftOffDistance:     1,
		DebounceMs:          8,
		MotionSync:          true,
		AngleSnapping:       false,
		RippleControl:       true,
		PeakPerformance:     true,
		PeakPerformanceTime: 100,
		PerformanceMode:     false,
		DpiPresets:          []DpiPreset{{X: 800, Y: 800}, {X: 1600, Y: 1600}},
		DpiColors:           []Color{{Red: 255}, {Blue: 255}},
		ChargingColor:       &Color{Green: 255},
		ButtonActions:       make([]*ButtonAction, numButtonSlots),
		Combos:              make([]*KeyCombo, numComboSlots),
		Macros:              make([]*Macro, numMacroSlots),
	}
	p.ButtonActions[0] = &ButtonAction{Kind: ActionLeftClick}
	p.ButtonActions[1] = &ButtonAction{Kind: ActionRightClick}
	p.ButtonActions[4] = &ButtonAction{Kind: ActionFire, FireInterval: 20, FireRepeat: 1}
	p.ButtonActions[5] = &ButtonAction{Kind: ActionMacro, MacroIndex: 2}
	p.Combos[0] = &KeyCombo{Events: []KeyEvent{
		{Kind: KeyModifier, Code: 0x01, Pressed: true},
		{Kind: KeyHid, Code: 0x06, Pressed: true},
	}}
	p.Macros[2] = &Macro{Name: "ping", Events: []MacroEvent{
		{KeyEvent: KeyEvent{Kind: KeyHid, Code: 0x13, Pressed: true}, DelayMs: 30},
		{KeyEvent: KeyEvent{Kind: KeyHid, Code: 0x13, Pressed: false}, DelayMs: 0},
	}}
	return p
}

func TestProfileRoundTrip(t *testing.T) {
	want := testProfile()

	blob, err := profileToBytes(want)
	require.NoError(t, err)
	require.Len(t, blob, profileSize)

	got, err := profileFromBytes(blob)
	require.NoError(t, err)

	got.base = nil
	assert.Equal(t, want, got)
}

func TestProfileToBytes_BadBlobLength(t *testing.T) {
	_, err := profileFromBytes(make([]byte, 100))
	var perr *ProtocolError
	assert.ErrorAs(t, err, &perr)
}

func TestProfileFromBytes_NamesFailingField(t *testing.T) {
	blob, err := profileToBytes(testProfile())
	require.NoError(t, err)

	// Corrupt the lift-off setting's checksum.
	blob[offLiftOff+1] ^= 0xFF
	_, err = profileFromBytes(blob)
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "lift_off_distance", ferr.Field)
	assert.Equal(t, offLiftOff, ferr.Offset)
}

func TestProfileFromBytes_ToleratesUnprogrammedSlots(t *testing.T) {
	blob, err := profileToBytes(testProfile())
	require.NoError(t, err)

	// Break the checksums of a button, the combo, the macro, and the
	// charging color. Those slots must decode as unset, not fail.
	blob[offButtons+3] ^= 0xFF
	blob[offChargingColor+3] ^= 0xFF
	comboSum := comboBase + 1 + maxComboEvents*keyEventSize
	blob[comboSum] ^= 0xFF
	macroSum := macroBase + 2*macroSize + 1 + maxMacroName + 1 + maxMacroEvents*macroEventSize
	blob[macroSum] ^= 0xFF

	p, err := profileFromBytes(blob)
	require.NoError(t, err)
	assert.Nil(t, p.ButtonActions[0])
	assert.Nil(t, p.ChargingColor)
	assert.Nil(t, p.Combos[0])
	assert.Nil(t, p.Macros[2])

	// Re-encoding keeps the broken slots' bytes verbatim.
	out, err := profileToBytes(p)
	require.NoError(t, err)
	assert.Equal(t, blob, out)
}

func TestProfileRoundTrip_PreservesUnknownBytes(t *testing.T) {
	blob, err := profileToBytes(testProfile())
	require.NoError(t, err)

	// Scribble over bytes no named field covers.
	blob[0x00F0] = 0xAA
	blob[0x00F1] = 0x55
	blob[profileSize-1] = 0x7E

	p, err := profileFromBytes(blob)
	require.NoError(t, err)

	out, err := profileToBytes(p)
	require.NoError(t, err)
	assert.Equal(t, blob, out)
}

func TestProfileToBytes_Validation(t *testing.T) {
	var ferr *FieldError

	p := testProfile()
	p.DebounceMs = maxDebounceMs + 1
	_, err := profileToBytes(p)
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "debounce_ms", ferr.Field)

	p = testProfile()
	p.PeakPerformanceTime = 105
	_, err = profileToBytes(p)
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "peak_performance_time", ferr.Field)

	p = testProfile()
	p.DpiCount = 0
	_, err = profileToBytes(p)
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "dpi_count", ferr.Field)

	p = testProfile()
	p.LiftOffDistance = 3
	_, err = profileToBytes(p)
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "lift_off_distance", ferr.Field)
}

func TestMerge_PatchedFieldsOnly(t *testing.T) {
	base, err := profileFromBytes(mustEncode(t, testProfile()))
	require.NoError(t, err)

	rate := uint16(500)
	patch := &PartialProfile{
		ReportRate:    &rate,
		ButtonActions: []*ButtonAction{{Kind: ActionMiddleClick}},
	}
	merged := patch.Merge(*base)

	assert.Equal(t, uint16(500), merged.ReportRate)
	assert.Equal(t, ActionMiddleClick, merged.ButtonActions[0].Kind)

	// Everything else is byte-identical to the base encoding.
	baseBlob := mustEncode(t, base)
	mergedBlob := mustEncode(t, &merged)
	for i := range baseBlob {
		if (i >= offReportRate && i < offReportRate+2) ||
			(i >= offButtons && i < offButtons+buttonSlotSize) {
			continue
		}
		if baseBlob[i] != mergedBlob[i] {
			t.Fatalf("byte 0x%04X changed: 0x%02X -> 0x%02X", i, baseBlob[i], mergedBlob[i])
		}
	}
}

func TestMerge_DoesNotAliasBase(t *testing.T) {
	base := testProfile()
	patch := &PartialProfile{
		Combos: []*KeyCombo{{Events: []KeyEvent{{Kind: KeyHid, Code: 0x05, Pressed: true}}}},
	}
	merged := patch.Merge(*base)

	merged.DpiPresets[0].X = 400
	merged.Combos[0].Events[0].Code = 0x09
	assert.Equal(t, uint16(800), base.DpiPresets[0].X)
	assert.Equal(t, uint16(0x01), base.Combos[0].Events[0].Code)
}

func TestMerge_DpiCountTracksLongerList(t *testing.T) {
	base := testProfile()
	patch := &PartialProfile{
		DpiPresets: []DpiPreset{{X: 400, Y: 400}, {X: 800, Y: 800}, {X: 3200, Y: 3200}},
	}
	merged := patch.Merge(*base)

	assert.Equal(t, uint8(3), merged.DpiCount)
	require.Len(t, merged.DpiPresets, 3)
	assert.Equal(t, uint16(3200), merged.DpiPresets[2].X)
	assert.Len(t, merged.DpiColors, 2)
}

func mustEncode(t *testing.T, p *Profile) []byte {
	t.Helper()
	blob, err := profileToBytes(p)
	require.NoError(t, err)
	return blob
}
