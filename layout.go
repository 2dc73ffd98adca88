package main

import "errors"

// Profile blob layout. Offsets come from USB captures of the Atlantis
// desktop software; bytes not covered by a named field are unconfirmed and
// pass through decode/encode untouched.
const (
	profileSize = 0x1B00 // one full profile blob

	offReportRate    = 0x0000
	offDpiCount      = 0x0002
	offCurrentDpi    = 0x0004
	offLiftOff       = 0x000A
	offDpiPresets    = 0x000C
	offDpiColors     = 0x002C
	offChargingColor = 0x004C
	offButtons       = 0x0060
	offDebounce      = 0x00A9
	offMotionSync    = 0x00AB
	offAngleSnap     = 0x00AF
	offRipple        = 0x00B1
	offPeakPerf      = 0x00B5
	offPeakPerfTime  = 0x00B7
	offPerfMode      = 0x00B9

	comboBase = 0x0100
	macroBase = 0x0300

	dpiSlotSize    = 4 // x, y, reserved, checksum
	colorSlotSize  = 4 // r, g, b, checksum
	buttonSlotSize = 4 // 3 action bytes, checksum

	numDpiSlots    = 8
	numButtonSlots = 16
	numComboSlots  = 16
	numMacroSlots  = 16

	maxDebounceMs = 15
	numProfiles   = 4
)

// profileFromBytes decodes a full profile blob into a Profile. Any field
// failure aborts the decode and names the field and offset, with one
// exception carried over from the desktop software's behavior: button,
// combo, macro, and charging-color slots whose checksum does not validate
// are unprogrammed slots, decoded as unset and preserved verbatim.
func profileFromBytes(blob []byte) (*Profile, error) {
	if len(blob) != profileSize {
		return nil, &ProtocolError{Reason: "profile blob must be 6912 bytes"}
	}

	p := &Profile{base: append([]byte(nil), blob...)}

	scalar := func(off int, name string) (uint8, error) {
		data, err := decodeSetting(blob[off:off+2], name)
		if err != nil {
			return 0, &FieldError{Field: name, Offset: off, Err: err}
		}
		return data[0], nil
	}

	rawRate, err := scalar(offReportRate, "report_rate")
	if err != nil {
		return nil, err
	}
	if p.ReportRate, err = decodeReportRate(rawRate); err != nil {
		return nil, &FieldError{Field: "report_rate", Offset: offReportRate, Err: err}
	}

	if p.DpiCount, err = scalar(offDpiCount, "dpi_count"); err != nil {
		return nil, err
	}
	if p.DpiCount < 1 || p.DpiCount > numDpiSlots {
		return nil, &FieldError{Field: "dpi_count", Offset: offDpiCount,
			Err: &RangeError{Field: "dpi_count", Value: int(p.DpiCount)}}
	}

	if p.CurrentDpiIndex, err = scalar(offCurrentDpi, "current_dpi_index"); err != nil {
		return nil, err
	}
	if p.CurrentDpiIndex >= numDpiSlots {
		return nil, &FieldError{Field: "current_dpi_index", Offset: offCurrentDpi,
			Err: &RangeError{Field: "current_dpi_index", Value: int(p.CurrentDpiIndex)}}
	}

	if p.LiftOffDistance, err = scalar(offLiftOff, "lift_off_distance"); err != nil {
		return nil, err
	}
	if p.LiftOffDistance != 1 && p.LiftOffDistance != 2 {
		return nil, &FieldError{Field: "lift_off_distance", Offset: offLiftOff,
			Err: &RangeError{Field: "lift_off_distance", Value: int(p.LiftOffDistance)}}
	}

	p.DpiPresets = make([]DpiPreset, p.DpiCount)
	for i := range p.DpiPresets {
		off := offDpiPresets + i*dpiSlotSize
		data, err := decodeSetting(blob[off:off+dpiSlotSize], "dpi_preset")
		if err != nil {
			return nil, &FieldError{Field: "dpi_preset", Offset: off, Err: err}
		}
		p.DpiPresets[i] = decodeDpiPreset(data)
	}

	p.DpiColors = make([]Color, p.DpiCount)
	for i := range p.DpiColors {
		off := offDpiColors + i*colorSlotSize
		data, err := decodeSetting(blob[off:off+colorSlotSize], "dpi_color")
		if err != nil {
			return nil, &FieldError{Field: "dpi_color", Offset: off, Err: err}
		}
		p.DpiColors[i] = decodeColor(data)
	}

	if data, err := decodeSetting(blob[offChargingColor:offChargingColor+colorSlotSize], "charging_color"); err == nil {
		color := decodeColor(data)
		p.ChargingColor = &color
	}

	p.ButtonActions = make([]*ButtonAction, numButtonSlots)
	for i := range p.ButtonActions {
		off := offButtons + i*buttonSlotSize
		data, err := decodeSetting(blob[off:off+buttonSlotSize], "button")
		if err != nil {
			continue // unprogrammed slot
		}
		action, err := decodeAction(data)
		if err != nil {
			return nil, &FieldError{Field: "button", Offset: off, Err: err}
		}
		p.ButtonActions[i] = &action
	}

	if p.DebounceMs, err = scalar(offDebounce, "debounce_ms"); err != nil {
		return nil, err
	}
	bools := []struct {
		off  int
		name string
		dst  *bool
	}{
		{offMotionSync, "motion_sync", &p.MotionSync},
		{offAngleSnap, "angle_snapping", &p.AngleSnapping},
		{offRipple, "ripple_control", &p.RippleControl},
		{offPeakPerf, "peak_performance", &p.PeakPerformance},
		{offPerfMode, "performance_mode", &p.PerformanceMode},
	}
	for _, b := range bools {
		raw, err := scalar(b.off, b.name)
		if err != nil {
			return nil, err
		}
		*b.dst = raw != 0
	}
	rawTime, err := scalar(offPeakPerfTime, "peak_performance_time")
	if err != nil {
		return nil, err
	}
	p.PeakPerformanceTime = uint16(rawTime) * 10

	p.Combos = make([]*KeyCombo, numComboSlots)
	for i := range p.Combos {
		off := comboBase + i*comboSize
		combo, err := decodeCombo(blob[off : off+comboSize])
		if err != nil {
			var cerr *ChecksumError
			if errors.As(err, &cerr) {
				continue // unprogrammed slot
			}
			return nil, &FieldError{Field: "combo", Offset: off, Err: err}
		}
		p.Combos[i] = &combo
	}

	p.Macros = make([]*Macro, numMacroSlots)
	for i := range p.Macros {
		off := macroBase + i*macroSize
		macro, err := decodeMacro(blob[off : off+macroSize])
		if err != nil {
			var cerr *ChecksumError
			if errors.As(err, &cerr) {
				continue // unprogrammed slot
			}
			return nil, &FieldError{Field: "macro", Offset: off, Err: err}
		}
		p.Macros[i] = &macro
	}

	return p, nil
}

// profileToBytes encodes a Profile over its backing blob (or zeros for a
// profile built in memory) and returns the full 6,912-byte result. Unset
// slots and unconfirmed ranges keep the backing bytes verbatim.
func profileToBytes(p *Profile) ([]byte, error) {
	out := make([]byte, profileSize)
	copy(out, p.base)

	write := func(off int, data []byte) {
		copy(out[off:], encodeSetting(data))
	}
	fail := func(off int, name string, err error) error {
		return &FieldError{Field: name, Offset: off, Err: err}
	}

	rawRate, err := encodeReportRate(p.ReportRate)
	if err != nil {
		return nil, fail(offReportRate, "report_rate", err)
	}
	write(offReportRate, []byte{rawRate})

	if len(p.DpiPresets) > numDpiSlots {
		return nil, fail(offDpiPresets, "dpis",
			&CountError{Field: "dpis", Value: len(p.DpiPresets), Max: numDpiSlots})
	}
	if len(p.DpiColors) > numDpiSlots {
		return nil, fail(offDpiColors, "dpi_colors",
			&CountError{Field: "dpi_colors", Value: len(p.DpiColors), Max: numDpiSlots})
	}
	if p.DpiCount < 1 || int(p.DpiCount) > numDpiSlots {
		return nil, fail(offDpiCount, "dpi_count",
			&RangeError{Field: "dpi_count", Value: int(p.DpiCount)})
	}
	write(offDpiCount, []byte{p.DpiCount})

	if p.CurrentDpiIndex >= numDpiSlots {
		return nil, fail(offCurrentDpi, "current_dpi_index",
			&RangeError{Field: "current_dpi_index", Value: int(p.CurrentDpiIndex)})
	}
	write(offCurrentDpi, []byte{p.CurrentDpiIndex})

	if p.LiftOffDistance != 1 && p.LiftOffDistance != 2 {
		return nil, fail(offLiftOff, "lift_off_distance",
			&RangeError{Field: "lift_off_distance", Value: int(p.LiftOffDistance)})
	}
	write(offLiftOff, []byte{p.LiftOffDistance})

	for i, preset := range p.DpiPresets {
		off := offDpiPresets + i*dpiSlotSize
		data, err := encodeDpiPreset(preset)
		if err != nil {
			return nil, fail(off, "dpi_preset", err)
		}
		write(off, data)
	}
	for i, color := range p.DpiColors {
		write(offDpiColors+i*colorSlotSize, encodeColor(color))
	}
	if p.ChargingColor != nil {
		write(offChargingColor, encodeColor(*p.ChargingColor))
	}

	if len(p.ButtonActions) > numButtonSlots {
		return nil, fail(offButtons, "buttons",
			&CountError{Field: "buttons", Value: len(p.ButtonActions), Max: numButtonSlots})
	}
	for i, action := range p.ButtonActions {
		if action == nil {
			continue
		}
		off := offButtons + i*buttonSlotSize
		data, err := encodeAction(*action)
		if err != nil {
			return nil, fail(off, "button", err)
		}
		write(off, data)
	}

	if p.DebounceMs > maxDebounceMs {
		return nil, fail(offDebounce, "debounce_ms",
			&RangeError{Field: "debounce_ms", Value: int(p.DebounceMs)})
	}
	write(offDebounce, []byte{p.DebounceMs})
	write(offMotionSync, encodeBool(p.MotionSync))
	write(offAngleSnap, encodeBool(p.AngleSnapping))
	write(offRipple, encodeBool(p.RippleControl))
	write(offPeakPerf, encodeBool(p.PeakPerformance))
	if p.PeakPerformanceTime > 2550 || p.PeakPerformanceTime%10 != 0 {
		return nil, fail(offPeakPerfTime, "peak_performance_time",
			&RangeError{Field: "peak_performance_time", Value: int(p.PeakPerformanceTime)})
	}
	write(offPeakPerfTime, []byte{uint8(p.PeakPerformanceTime / 10)})
	write(offPerfMode, encodeBool(p.PerformanceMode))

	if len(p.Combos) > numComboSlots {
		return nil, fail(comboBase, "combos",
			&CountError{Field: "combos", Value: len(p.Combos), Max: numComboSlots})
	}
	for i, combo := range p.Combos {
		if combo == nil {
			continue
		}
		off := comboBase + i*comboSize
		data, err := encodeCombo(*combo)
		if err != nil {
			return nil, fail(off, "combo", err)
		}
		copy(out[off:], data)
	}

	if len(p.Macros) > numMacroSlots {
		return nil, fail(macroBase, "macros",
			&CountError{Field: "macros", Value: len(p.Macros), Max: numMacroSlots})
	}
	for i, macro := range p.Macros {
		if macro == nil {
			continue
		}
		off := macroBase + i*macroSize
		data, err := encodeMacro(*macro)
		if err != nil {
			return nil, fail(off, "macro", err)
		}
		copy(out[off:], data)
	}

	return out, nil
}
