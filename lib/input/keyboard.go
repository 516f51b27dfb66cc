// Package input has the key and mouse button definitions of the DevTools input domain.
package input

import "unicode"

// Key symbol
type Key rune

// KeyInfo of a key
type KeyInfo struct {
	// Key value, such as "a", "Shift", "\r"
	Key string

	// Code of the physical key, such as "KeyA", "ShiftLeft"
	Code string

	// KeyCode is the windows virtual key code
	KeyCode int

	// Location of the key, 1 for left, 2 for right
	Location int
}

// Named keys
const (
	Backspace Key = '\b'
	Tab       Key = '\t'
	Enter     Key = '\r'
	Escape    Key = '\u001b'
	Space     Key = ' '

	ShiftLeft Key = iota + 0xE000
	ShiftRight
	ControlLeft
	ControlRight
	PageUp
	PageDown
	End
	Home
	ArrowUp
	ArrowDown
	Delete
)

var keyMap = map[Key]KeyInfo{
	Backspace:    {"Backspace", "Backspace", 8, 0},
	Tab:          {"Tab", "Tab", 9, 0},
	Enter:        {"\r", "Enter", 13, 0},
	Escape:       {"Escape", "Escape", 27, 0},
	Space:        {" ", "Space", 32, 0},
	ShiftLeft:    {"Shift", "ShiftLeft", 16, 1},
	ShiftRight:   {"Shift", "ShiftRight", 16, 2},
	ControlLeft:  {"Control", "ControlLeft", 17, 1},
	ControlRight: {"Control", "ControlRight", 17, 2},
	PageUp:       {"PageUp", "PageUp", 33, 0},
	PageDown:     {"PageDown", "PageDown", 34, 0},
	End:          {"End", "End", 35, 0},
	Home:         {"Home", "Home", 36, 0},
	ArrowUp:      {"ArrowUp", "ArrowUp", 38, 0},
	ArrowDown:    {"ArrowDown", "ArrowDown", 40, 0},
	Delete:       {"Delete", "Delete", 46, 0},
}

// Info of the key, letters and digits are derived from the rune
func (k Key) Info() KeyInfo {
	if info, has := keyMap[k]; has {
		return info
	}

	r := rune(k)
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		upper := unicode.ToUpper(r)
		return KeyInfo{Key: string(r), Code: "Key" + string(upper), KeyCode: int(upper)}
	case r >= '0' && r <= '9':
		return KeyInfo{Key: string(r), Code: "Digit" + string(r), KeyCode: int(r)}
	}
	return KeyInfo{Key: string(r)}
}

// Printable returns true if the key inserts text
func (k Key) Printable() bool {
	switch k {
	case Enter, Space:
		return true
	}
	if _, has := keyMap[k]; has {
		return false
	}
	return unicode.IsPrint(rune(k))
}
