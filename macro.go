package main

import "encoding/binary"

// Codecs for the key-combo and macro regions. Unlike the settings region,
// these blocks embed their checksum (seeded with 181) at a fixed position
// inside the block instead of trailing a short field.

const (
	keyEventSize   = 3
	macroEventSize = 5

	comboSize      = 32
	maxComboEvents = 6

	macroSize      = 384
	maxMacroEvents = 70
	maxMacroName   = 30
)

// Key event flag bits. The high bits carry press/release, the low bits
// select exactly one interpretation of the 2-byte key data field. Modifier
// masks are the selector-less default.
const (
	keyFlagPress   uint8 = 0x80
	keyFlagRelease uint8 = 0x40

	keySelModifier  uint8 = 0x00
	keySelHid       uint8 = 0x01
	keySelConsumer  uint8 = 0x02
	keySelDirection uint8 = 0x04
)

// encodeKeyEvent produces the 3-byte wire form: flags then little-endian key
// data.
func encodeKeyEvent(ev KeyEvent) ([]byte, error) {
	var flags uint8
	if ev.Pressed {
		flags = keyFlagPress
	} else {
		flags = keyFlagRelease
	}

	switch ev.Kind {
	case KeyModifier:
		flags |= keySelModifier
	case KeyHid:
		flags |= keySelHid
	case KeyConsumer:
		flags |= keySelConsumer
	case KeyDirection:
		flags |= keySelDirection
	default:
		return nil, &FlagError{Context: "key event kind " + string(ev.Kind), Flags: flags}
	}

	out := make([]byte, keyEventSize)
	out[0] = flags
	binary.LittleEndian.PutUint16(out[1:], ev.Code)
	return out, nil
}

// decodeKeyEvent parses a 3-byte key event. The selector bits are defined as
// mutually exclusive; any combination selecting none or more than one
// interpretation is rejected rather than guessed at.
func decodeKeyEvent(data []byte) (KeyEvent, error) {
	flags := data[0]

	ev := KeyEvent{Code: binary.LittleEndian.Uint16(data[1:])}

	switch flags & (keyFlagPress | keyFlagRelease) {
	case keyFlagPress:
		ev.Pressed = true
	case keyFlagRelease:
		ev.Pressed = false
	default:
		return KeyEvent{}, &FlagError{Context: "key event state", Flags: flags}
	}

	switch flags &^ (keyFlagPress | keyFlagRelease) {
	case keySelModifier:
		ev.Kind = KeyModifier
	case keySelHid:
		ev.Kind = KeyHid
	case keySelConsumer:
		ev.Kind = KeyConsumer
	case keySelDirection:
		ev.Kind = KeyDirection
	default:
		return KeyEvent{}, &FlagError{Context: "key event selector", Flags: flags}
	}

	return ev, nil
}

// encodeMacroEvent appends the big-endian delay to the key event bytes. The
// key data is little-endian, the delay big-endian; that asymmetry is the
// wire format, not a codec quirk.
func encodeMacroEvent(ev MacroEvent) ([]byte, error) {
	out, err := encodeKeyEvent(ev.KeyEvent)
	if err != nil {
		return nil, err
	}
	return binary.BigEndian.AppendUint16(out, ev.DelayMs), nil
}

func decodeMacroEvent(data []byte) (MacroEvent, error) {
	key, err := decodeKeyEvent(data[:keyEventSize])
	if err != nil {
		return MacroEvent{}, err
	}
	return MacroEvent{KeyEvent: key, DelayMs: binary.BigEndian.Uint16(data[keyEventSize:])}, nil
}

// encodeCombo produces one 32-byte combo slot: event count, six 3-byte event
// slots (unused ones zero-filled), checksum over everything before it, then
// 12 bytes of padding.
func encodeCombo(c KeyCombo) ([]byte, error) {
	if len(c.Events) > maxComboEvents {
		return nil, &CountError{Field: "combo_events", Value: len(c.Events), Max: maxComboEvents}
	}

	out := make([]byte, comboSize)
	out[0] = uint8(len(c.Events))
	for i, ev := range c.Events {
		b, err := encodeKeyEvent(ev)
		if err != nil {
			return nil, err
		}
		copy(out[1+i*keyEventSize:], b)
	}

	sumPos := 1 + maxComboEvents*keyEventSize
	out[sumPos] = checksum(out[:sumPos], sumInitMacro)
	return out, nil
}

// decodeCombo parses one 32-byte combo slot.
func decodeCombo(raw []byte) (KeyCombo, error) {
	sumPos := 1 + maxComboEvents*keyEventSize
	if want, got := checksum(raw[:sumPos], sumInitMacro), raw[sumPos]; want != got {
		return KeyCombo{}, &ChecksumError{Context: "combo", Want: want, Got: got}
	}

	count := int(raw[0])
	if count > maxComboEvents {
		return KeyCombo{}, &CountError{Field: "combo_events", Value: count, Max: maxComboEvents}
	}

	combo := KeyCombo{Events: make([]KeyEvent, count)}
	for i := 0; i < count; i++ {
		ev, err := decodeKeyEvent(raw[1+i*keyEventSize:])
		if err != nil {
			return KeyCombo{}, err
		}
		combo.Events[i] = ev
	}
	return combo, nil
}

// encodeMacro produces one 384-byte macro slot: name length, 30 name bytes,
// event count, seventy 5-byte event slots (unused ones zero-filled),
// checksum over everything before it, one padding byte.
func encodeMacro(m Macro) ([]byte, error) {
	name := []byte(m.Name)
	if len(name) > maxMacroName {
		return nil, &CountError{Field: "macro_name", Value: len(name), Max: maxMacroName}
	}
	if len(m.Events) > maxMacroEvents {
		return nil, &CountError{Field: "macro_events", Value: len(m.Events), Max: maxMacroEvents}
	}

	out := make([]byte, macroSize)
	out[0] = uint8(len(name))
	copy(out[1:1+maxMacroName], name)

	out[1+maxMacroName] = uint8(len(m.Events))
	eventsPos := 1 + maxMacroName + 1
	for i, ev := range m.Events {
		b, err := encodeMacroEvent(ev)
		if err != nil {
			return nil, err
		}
		copy(out[eventsPos+i*macroEventSize:], b)
	}

	sumPos := eventsPos + maxMacroEvents*macroEventSize
	out[sumPos] = checksum(out[:sumPos], sumInitMacro)
	return out, nil
}

// decodeMacro parses one 384-byte macro slot.
func decodeMacro(raw []byte) (Macro, error) {
	eventsPos := 1 + maxMacroName + 1
	sumPos := eventsPos + maxMacroEvents*macroEventSize
	if want, got := checksum(raw[:sumPos], sumInitMacro), raw[sumPos]; want != got {
		return Macro{}, &ChecksumError{Context: "macro", Want: want, Got: got}
	}

	nameLen := int(raw[0])
	if nameLen > maxMacroName {
		return Macro{}, &CountError{Field: "macro_name", Value: nameLen, Max: maxMacroName}
	}
	count := int(raw[1+maxMacroName])
	if count > maxMacroEvents {
		return Macro{}, &CountError{Field: "macro_events", Value: count, Max: maxMacroEvents}
	}

	macro := Macro{
		Name:   string(raw[1 : 1+nameLen]),
		Events: make([]MacroEvent, count),
	}
	for i := 0; i < count; i++ {
		ev, err := decodeMacroEvent(raw[eventsPos+i*macroEventSize:])
		if err != nil {
			return Macro{}, err
		}
		macro.Events[i] = ev
	}
	return macro, nil
}
