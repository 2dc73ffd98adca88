package main

// Typed configuration model. A Profile is the structured form of the full
// 6,912-byte blob of one on-mouse profile; a PartialProfile is the same
// shape with every field optional, used for merge-based writes. Both
// serialize to YAML for the CLI boundary.

// DpiPreset is one resolution preset. Values are plain DPI (multiples of 50,
// 50 minimum).
type DpiPreset struct {
	X uint16 `yaml:"x"`
	Y uint16 `yaml:"y"`
}

// Color is an RGB LED color.
type Color struct {
	Red   uint8 `yaml:"red"`
	Green uint8 `yaml:"green"`
	Blue  uint8 `yaml:"blue"`
}

// ActionKind names a button action variant.
type ActionKind string

const (
	ActionDisabled     ActionKind = "disabled"
	ActionLeftClick    ActionKind = "left_click"
	ActionRightClick   ActionKind = "right_click"
	ActionMiddleClick  ActionKind = "middle_click"
	ActionBackClick    ActionKind = "back_click"
	ActionForwardClick ActionKind = "forward_click"
	ActionDpiLoop      ActionKind = "dpi_loop"
	ActionDpiUp        ActionKind = "dpi_up"
	ActionDpiDown      ActionKind = "dpi_down"
	ActionDpiLock      ActionKind = "dpi_lock"
	ActionPollRateLoop ActionKind = "poll_rate_loop"
	ActionScrollLeft   ActionKind = "scroll_left"
	ActionScrollRight  ActionKind = "scroll_right"
	ActionScrollUp     ActionKind = "scroll_up"
	ActionScrollDown   ActionKind = "scroll_down"
	ActionFire         ActionKind = "fire"
	ActionCombo        ActionKind = "combo"
	ActionMacro        ActionKind = "macro"
)

// ButtonAction is the mapping of one physical button. The parameter fields
// apply only to the kinds that use them.
type ButtonAction struct {
	Kind ActionKind `yaml:"action"`

	// Fire parameters: interval in ms (10-255) and repeat count (0-3,
	// 0 meaning "while held").
	FireInterval uint8 `yaml:"fire_interval,omitempty"`
	FireRepeat   uint8 `yaml:"fire_repeat,omitempty"`

	// MacroIndex selects the macro slot (0-15) for ActionMacro.
	MacroIndex uint8 `yaml:"macro_index,omitempty"`

	// DpiStep is the locked DPI step (1-23) for ActionDpiLock.
	DpiStep uint8 `yaml:"dpi_step,omitempty"`
}

// KeyKind selects how a key event's 2-byte data field is interpreted. The
// wire format treats these as mutually exclusive.
type KeyKind string

const (
	KeyModifier  KeyKind = "modifier"  // modifier bit mask
	KeyHid       KeyKind = "key"       // USB HID keycode
	KeyConsumer  KeyKind = "consumer"  // HID consumer-control code
	KeyDirection KeyKind = "direction" // pointer button mask
)

// KeyEvent is one key press or release inside a combo or macro.
type KeyEvent struct {
	Kind    KeyKind `yaml:"kind"`
	Code    uint16  `yaml:"code"`
	Pressed bool    `yaml:"pressed"`
}

// MacroEvent is a key event followed by a delay before the next event.
type MacroEvent struct {
	KeyEvent `yaml:",inline"`
	DelayMs  uint16 `yaml:"delay_ms"`
}

// KeyCombo is up to 6 simultaneous-key events bound to a button.
type KeyCombo struct {
	Events []KeyEvent `yaml:"events"`
}

// Macro is a named, ordered sequence of timed key events.
type Macro struct {
	Name   string       `yaml:"name"`
	Events []MacroEvent `yaml:"events"`
}

// Profile is the full structured configuration of one on-mouse profile.
//
// Slot slices (buttons, combos, macros) always have their full slot count;
// a nil entry is a slot the mouse holds no valid data for. The blob the
// profile was decoded from is retained so unconfirmed byte ranges and
// undecodable slots survive a round trip verbatim.
type Profile struct {
	ReportRate          uint16 `yaml:"report_rate"`
	DpiCount            uint8  `yaml:"dpi_count"`
	CurrentDpiIndex     uint8  `yaml:"current_dpi_index"`
	LiftOffDistance     uint8  `yaml:"lift_off_distance"`
	DebounceMs          uint8  `yaml:"debounce_ms"`
	MotionSync          bool   `yaml:"motion_sync"`
	AngleSnapping       bool   `yaml:"angle_snapping"`
	RippleControl       bool   `yaml:"ripple_control"`
	PeakPerformance     bool   `yaml:"peak_performance"`
	PeakPerformanceTime uint16 `yaml:"peak_performance_time"` // ms
	PerformanceMode     bool   `yaml:"performance_mode"`

	DpiPresets []DpiPreset `yaml:"dpis"`
	DpiColors  []Color     `yaml:"dpi_colors"`

	// ChargingColor is nil when the slot holds no valid color; its raw
	// bytes are then preserved through the backing blob.
	ChargingColor *Color `yaml:"charging_color,omitempty"`

	ButtonActions []*ButtonAction `yaml:"buttons"`
	Combos        []*KeyCombo     `yaml:"combos"`
	Macros        []*Macro        `yaml:"macros"`

	// base is the blob this profile was decoded from, zero for profiles
	// built in memory. Encoding overlays the typed fields onto it.
	base []byte
}

// PartialProfile is a profile where every field is optional. Absent fields
// are left untouched by Merge. Slot slices are sparse: a nil entry keeps the
// slot, a non-nil entry replaces it.
type PartialProfile struct {
	ReportRate          *uint16 `yaml:"report_rate,omitempty"`
	CurrentDpiIndex     *uint8  `yaml:"current_dpi_index,omitempty"`
	LiftOffDistance     *uint8  `yaml:"lift_off_distance,omitempty"`
	DebounceMs          *uint8  `yaml:"debounce_ms,omitempty"`
	MotionSync          *bool   `yaml:"motion_sync,omitempty"`
	AngleSnapping       *bool   `yaml:"angle_snapping,omitempty"`
	RippleControl       *bool   `yaml:"ripple_control,omitempty"`
	PeakPerformance     *bool   `yaml:"peak_performance,omitempty"`
	PeakPerformanceTime *uint16 `yaml:"peak_performance_time,omitempty"`
	PerformanceMode     *bool   `yaml:"performance_mode,omitempty"`

	// DpiPresets replaces presets 0..len-1 and sets the DPI count; the
	// count tracks whichever of presets/colors is longer, matching how the
	// desktop software writes them.
	DpiPresets    []DpiPreset `yaml:"dpis,omitempty"`
	DpiColors     []Color     `yaml:"dpi_colors,omitempty"`
	ChargingColor *Color      `yaml:"charging_color,omitempty"`

	ButtonActions []*ButtonAction `yaml:"buttons,omitempty"`
	Combos        []*KeyCombo     `yaml:"combos,omitempty"`
	Macros        []*Macro        `yaml:"macros,omitempty"`
}

// Merge overlays the fields present in patch onto base and returns the
// result. Fields absent from patch keep base's values byte for byte,
// including the unconfirmed regions carried in base's backing blob.
func (patch *PartialProfile) Merge(base Profile) Profile {
	merged := base.clone()

	if patch.ReportRate != nil {
		merged.ReportRate = *patch.ReportRate
	}
	if patch.CurrentDpiIndex != nil {
		merged.CurrentDpiIndex = *patch.CurrentDpiIndex
	}
	if patch.LiftOffDistance != nil {
		merged.LiftOffDistance = *patch.LiftOffDistance
	}
	if patch.DebounceMs != nil {
		merged.DebounceMs = *patch.DebounceMs
	}
	if patch.MotionSync != nil {
		merged.MotionSync = *patch.MotionSync
	}
	if patch.AngleSnapping != nil {
		merged.AngleSnapping = *patch.AngleSnapping
	}
	if patch.RippleControl != nil {
		merged.RippleControl = *patch.RippleControl
	}
	if patch.PeakPerformance != nil {
		merged.PeakPerformance = *patch.PeakPerformance
	}
	if patch.PeakPerformanceTime != nil {
		merged.PeakPerformanceTime = *patch.PeakPerformanceTime
	}
	if patch.PerformanceMode != nil {
		merged.PerformanceMode = *patch.PerformanceMode
	}
	if patch.ChargingColor != nil {
		color := *patch.ChargingColor
		merged.ChargingColor = &color
	}

	if len(patch.DpiPresets) > 0 {
		copy(merged.DpiPresets, patch.DpiPresets)
		if len(patch.DpiPresets) > len(merged.DpiPresets) {
			merged.DpiPresets = append(merged.DpiPresets, patch.DpiPresets[len(merged.DpiPresets):]...)
		}
	}
	if len(patch.DpiColors) > 0 {
		copy(merged.DpiColors, patch.DpiColors)
		if len(patch.DpiColors) > len(merged.DpiColors) {
			merged.DpiColors = append(merged.DpiColors, patch.DpiColors[len(merged.DpiColors):]...)
		}
	}
	if len(patch.DpiPresets) > 0 || len(patch.DpiColors) > 0 {
		merged.DpiCount = uint8(max(len(merged.DpiPresets), len(merged.DpiColors)))
	}

	for i, a := range patch.ButtonActions {
		if a != nil && i < len(merged.ButtonActions) {
			action := *a
			merged.ButtonActions[i] = &action
		}
	}
	for i, c := range patch.Combos {
		if c != nil && i < len(merged.Combos) {
			combo := KeyCombo{Events: append([]KeyEvent(nil), c.Events...)}
			merged.Combos[i] = &combo
		}
	}
	for i, m := range patch.Macros {
		if m != nil && i < len(merged.Macros) {
			macro := Macro{Name: m.Name, Events: append([]MacroEvent(nil), m.Events...)}
			merged.Macros[i] = &macro
		}
	}

	return merged
}

// clone deep-copies a profile so merges never alias the base's slices.
func (p *Profile) clone() Profile {
	out := *p
	out.DpiPresets = append([]DpiPreset(nil), p.DpiPresets...)
	out.DpiColors = append([]Color(nil), p.DpiColors...)
	out.base = append([]byte(nil), p.base...)
	if p.ChargingColor != nil {
		color := *p.ChargingColor
		out.ChargingColor = &color
	}

	out.ButtonActions = make([]*ButtonAction, len(p.ButtonActions))
	for i, a := range p.ButtonActions {
		if a != nil {
			action := *a
			out.ButtonActions[i] = &action
		}
	}
	out.Combos = make([]*KeyCombo, len(p.Combos))
	for i, c := range p.Combos {
		if c != nil {
			combo := KeyCombo{Events: append([]KeyEvent(nil), c.Events...)}
			out.Combos[i] = &combo
		}
	}
	out.Macros = make([]*Macro, len(p.Macros))
	for i, m := range p.Macros {
		if m != nil {
			macro := Macro{Name: m.Name, Events: append([]MacroEvent(nil), m.Events...)}
			out.Macros[i] = &macro
		}
	}
	return out
}
