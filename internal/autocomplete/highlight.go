package autocomplete

// Direction is a keyboard navigation direction through the prediction list.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
)

// NoHighlight is the highlight index when no prediction is highlighted.
const NoHighlight = -1

// ChangeHighlight returns the highlight index after moving from current in
// dir through a list of n predictions. Moving up from the first item stays
// there. The result is always within [-1, n-1].
func ChangeHighlight(current int, dir Direction, n int) int {
	index := current
	switch dir {
	case DirectionUp:
		if current != 0 {
			index = current - 1
		}
	case DirectionDown:
		index = current + 1
	}

	if index < 0 {
		return NoHighlight
	}
	if index >= n {
		return n - 1
	}
	return index
}
