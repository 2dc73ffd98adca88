package main

// Field codecs for the settings region (0x0000-0x00FF). Every setting there
// is its data bytes followed by a sum-complement checksum seeded with 171.
// Key-combo and macro blocks embed their checksum internally instead; see
// macro.go.

// encodeSetting returns data with its trailing checksum appended.
func encodeSetting(data []byte) []byte {
	return append(append([]byte(nil), data...), checksum(data, sumInitSettings))
}

// decodeSetting validates the trailing checksum of raw and returns the data
// bytes in front of it.
func decodeSetting(raw []byte, context string) ([]byte, error) {
	data, got := raw[:len(raw)-1], raw[len(raw)-1]
	if want := checksum(data, sumInitSettings); want != got {
		return nil, &ChecksumError{Context: context, Want: want, Got: got}
	}
	return data, nil
}

// Report rate is stored as a divisor mask of the 1000Hz base rate.
var reportRateMask = map[uint16]uint8{
	1000: 1,
	500:  2,
	250:  4,
	125:  8,
}

func encodeReportRate(hz uint16) (uint8, error) {
	raw, ok := reportRateMask[hz]
	if !ok {
		return 0, &RangeError{Field: "report_rate", Value: int(hz)}
	}
	return raw, nil
}

func decodeReportRate(raw uint8) (uint16, error) {
	for hz, mask := range reportRateMask {
		if mask == raw {
			return hz, nil
		}
	}
	return 0, &RangeError{Field: "report_rate", Value: int(raw)}
}

// DPI bytes store dpi/50 - 1, so the raw value 0 is the 50 DPI floor rather
// than zero resolution.
func decodeDpi(raw uint8) uint16 {
	return (uint16(raw) + 1) * 50
}

func encodeDpi(dpi uint16) (uint8, error) {
	if dpi < 50 || dpi > 50*256 || dpi%50 != 0 {
		return 0, &RangeError{Field: "dpi", Value: int(dpi)}
	}
	return uint8(dpi/50 - 1), nil
}

// encodeDpiPreset produces the 3 data bytes of a preset: x, y, and a
// reserved byte preserved as zero.
func encodeDpiPreset(p DpiPreset) ([]byte, error) {
	x, err := encodeDpi(p.X)
	if err != nil {
		return nil, err
	}
	y, err := encodeDpi(p.Y)
	if err != nil {
		return nil, err
	}
	return []byte{x, y, 0}, nil
}

func decodeDpiPreset(data []byte) DpiPreset {
	return DpiPreset{X: decodeDpi(data[0]), Y: decodeDpi(data[1])}
}

func encodeColor(c Color) []byte {
	return []byte{c.Red, c.Green, c.Blue}
}

func decodeColor(data []byte) Color {
	return Color{Red: data[0], Green: data[1], Blue: data[2]}
}

func encodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// Button action wire opcodes.
const (
	opDisabled     = 0x00
	opButton       = 0x01
	opDpi          = 0x02
	opScrollX      = 0x03
	opFire         = 0x04
	opCombo        = 0x05
	opMacro        = 0x06
	opPollRateLoop = 0x07
	opDpiLock      = 0x0A
	opScrollY      = 0x0B
)

// Mouse button bit masks for the opButton opcode.
const (
	buttonLeft    = 0x01
	buttonRight   = 0x02
	buttonMiddle  = 0x04
	buttonBack    = 0x08
	buttonForward = 0x10
)

// encodeAction produces the 3 data bytes of a button action.
func encodeAction(a ButtonAction) ([]byte, error) {
	switch a.Kind {
	case ActionDisabled:
		return []byte{opDisabled, 0, 0}, nil
	case ActionLeftClick:
		return []byte{opButton, buttonLeft, 0}, nil
	case ActionRightClick:
		return []byte{opButton, buttonRight, 0}, nil
	case ActionMiddleClick:
		return []byte{opButton, buttonMiddle, 0}, nil
	case ActionBackClick:
		return []byte{opButton, buttonBack, 0}, nil
	case ActionForwardClick:
		return []byte{opButton, buttonForward, 0}, nil
	case ActionDpiLoop:
		return []byte{opDpi, 0x01, 0}, nil
	case ActionDpiUp:
		return []byte{opDpi, 0x02, 0}, nil
	case ActionDpiDown:
		return []byte{opDpi, 0x03, 0}, nil
	case ActionScrollLeft:
		return []byte{opScrollX, 0x01, 0}, nil
	case ActionScrollRight:
		return []byte{opScrollX, 0x02, 0}, nil
	case ActionScrollUp:
		return []byte{opScrollY, 0x01, 0}, nil
	case ActionScrollDown:
		return []byte{opScrollY, 0x02, 0}, nil
	case ActionFire:
		if a.FireInterval < 10 {
			return nil, &RangeError{Field: "fire_interval", Value: int(a.FireInterval)}
		}
		if a.FireRepeat > 3 {
			return nil, &RangeError{Field: "fire_repeat", Value: int(a.FireRepeat)}
		}
		return []byte{opFire, a.FireInterval, a.FireRepeat}, nil
	case ActionCombo:
		return []byte{opCombo, 0, 0}, nil
	case ActionMacro:
		if a.MacroIndex >= numMacroSlots {
			return nil, &RangeError{Field: "macro_index", Value: int(a.MacroIndex)}
		}
		return []byte{opMacro, a.MacroIndex, 0}, nil
	case ActionPollRateLoop:
		return []byte{opPollRateLoop, 0, 0}, nil
	case ActionDpiLock:
		if a.DpiStep < 1 || a.DpiStep > 0x17 {
			return nil, &RangeError{Field: "dpi_step", Value: int(a.DpiStep)}
		}
		return []byte{opDpiLock, a.DpiStep, 0}, nil
	}
	return nil, &RangeError{Field: "action", Value: 0}
}

// decodeAction parses the 3 data bytes of a button action.
func decodeAction(data []byte) (ButtonAction, error) {
	op, arg1, arg2 := data[0], data[1], data[2]

	switch op {
	case opDisabled:
		return ButtonAction{Kind: ActionDisabled}, nil
	case opButton:
		switch arg1 {
		case buttonLeft:
			return ButtonAction{Kind: ActionLeftClick}, nil
		case buttonRight:
			return ButtonAction{Kind: ActionRightClick}, nil
		case buttonMiddle:
			return ButtonAction{Kind: ActionMiddleClick}, nil
		case buttonBack:
			return ButtonAction{Kind: ActionBackClick}, nil
		case buttonForward:
			return ButtonAction{Kind: ActionForwardClick}, nil
		}
		return ButtonAction{}, &RangeError{Field: "button_mask", Value: int(arg1)}
	case opDpi:
		switch arg1 {
		case 0x01:
			return ButtonAction{Kind: ActionDpiLoop}, nil
		case 0x02:
			return ButtonAction{Kind: ActionDpiUp}, nil
		case 0x03:
			return ButtonAction{Kind: ActionDpiDown}, nil
		}
		return ButtonAction{}, &RangeError{Field: "dpi_action", Value: int(arg1)}
	case opScrollX:
		switch arg1 {
		case 0x01:
			return ButtonAction{Kind: ActionScrollLeft}, nil
		case 0x02:
			return ButtonAction{Kind: ActionScrollRight}, nil
		}
		return ButtonAction{}, &RangeError{Field: "scroll_action", Value: int(arg1)}
	case opScrollY:
		switch arg1 {
		case 0x01:
			return ButtonAction{Kind: ActionScrollUp}, nil
		case 0x02:
			return ButtonAction{Kind: ActionScrollDown}, nil
		}
		return ButtonAction{}, &RangeError{Field: "scroll_action", Value: int(arg1)}
	case opFire:
		if arg1 < 10 {
			return ButtonAction{}, &RangeError{Field: "fire_interval", Value: int(arg1)}
		}
		if arg2 > 3 {
			return ButtonAction{}, &RangeError{Field: "fire_repeat", Value: int(arg2)}
		}
		return ButtonAction{Kind: ActionFire, FireInterval: arg1, FireRepeat: arg2}, nil
	case opCombo:
		return ButtonAction{Kind: ActionCombo}, nil
	case opMacro:
		if arg1 >= numMacroSlots {
			return ButtonAction{}, &RangeError{Field: "macro_index", Value: int(arg1)}
		}
		return ButtonAction{Kind: ActionMacro, MacroIndex: arg1}, nil
	case opPollRateLoop:
		return ButtonAction{Kind: ActionPollRateLoop}, nil
	case opDpiLock:
		if arg1 < 1 || arg1 > 0x17 {
			return ButtonAction{}, &RangeError{Field: "dpi_step", Value: int(arg1)}
		}
		return ButtonAction{Kind: ActionDpiLock, DpiStep: arg1}, nil
	}
	return ButtonAction{}, &RangeError{Field: "action_opcode", Value: int(op)}
}
