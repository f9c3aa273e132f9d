package autocomplete

// UIState is the controller's transient interaction state. It is never
// reported to the host.
type UIState struct {
	InputHasFocus       bool `json:"inputHasFocus"`
	SelectionInProgress bool `json:"selectionInProgress"`
	HighlightedIndex    int  `json:"highlightedIndex"`
}

// InitialUIState is the state of a freshly mounted controller.
func InitialUIState() UIState {
	return UIState{HighlightedIndex: NoHighlight}
}

// UIEventKind enumerates the events Reduce understands.
type UIEventKind int

const (
	EventFocus UIEventKind = iota
	EventFinalize
	EventSelectStart
	EventSelectEnd
	EventHighlight
	EventResetHighlight
)

// UIEvent is an input to Reduce. Direction and Count are read only by
// EventHighlight; Count is the number of current predictions.
type UIEvent struct {
	Kind      UIEventKind
	Direction Direction
	Count     int
}

// Reduce returns the state that follows s after e. It has no side effects;
// publishing to the host is the controller's job.
func Reduce(s UIState, e UIEvent) UIState {
	switch e.Kind {
	case EventFocus:
		s.InputHasFocus = true
	case EventFinalize:
		s.InputHasFocus = false
		s.HighlightedIndex = NoHighlight
	case EventSelectStart:
		s.SelectionInProgress = true
	case EventSelectEnd:
		s.SelectionInProgress = false
	case EventHighlight:
		s.HighlightedIndex = ChangeHighlight(s.HighlightedIndex, e.Direction, e.Count)
	case EventResetHighlight:
		s.HighlightedIndex = NoHighlight
	}
	return s
}
