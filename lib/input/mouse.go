package input

// MouseButton of the DevTools input domain
type MouseButton string

// Mouse buttons
const (
	MouseNone    MouseButton = "none"
	MouseLeft    MouseButton = "left"
	MouseRight   MouseButton = "right"
	MouseMiddle  MouseButton = "middle"
	MouseBack    MouseButton = "back"
	MouseForward MouseButton = "forward"
)

// MouseKeys is the map for mouse keys
var MouseKeys = map[MouseButton]int{
	MouseLeft:    1,
	MouseRight:   2,
	MouseMiddle:  4,
	MouseBack:    8,
	MouseForward: 16,
}

// EncodeMouseButton into button flag
func EncodeMouseButton(buttons []MouseButton) (MouseButton, int) {
	flag := 0
	for _, btn := range buttons {
		flag |= MouseKeys[btn]
	}
	btn := MouseNone
	if len(buttons) > 0 {
		btn = buttons[0]
	}
	return btn, flag
}
