package autocomplete

import "strings"

// Key identifies a keyboard key the controller reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyArrowUp
	KeyArrowDown
	KeyEnter
	KeyTab
)

var keyNames = map[string]Key{
	"arrowup":   KeyArrowUp,
	"up":        KeyArrowUp,
	"arrowdown": KeyArrowDown,
	"down":      KeyArrowDown,
	"enter":     KeyEnter,
	"tab":       KeyTab,
}

// ParseKey maps a DOM-style key name ("ArrowUp", "Enter", ...) to a Key.
// Unknown names map to KeyOther.
func ParseKey(name string) Key {
	if key, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return key
	}
	return KeyOther
}

func (k Key) String() string {
	switch k {
	case KeyArrowUp:
		return "ArrowUp"
	case KeyArrowDown:
		return "ArrowDown"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	default:
		return "Other"
	}
}
