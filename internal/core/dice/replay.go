package dice

import "fmt"

// Replay is a Source that returns a fixed sequence of faces in order.
//
// The requested face count is ignored so callers can pin any outcome,
// including ones a real die could not produce. Rolling past the end of the
// sequence panics; a replay that runs dry means the caller expected fewer
// rolls than the evaluation made.
type Replay struct {
	faces []int
	next  int
}

// NewReplay returns a Replay over faces.
func NewReplay(faces ...int) *Replay {
	return &Replay{faces: append([]int(nil), faces...)}
}

// Roll returns the next face in the sequence.
func (r *Replay) Roll(int) int {
	if r.next >= len(r.faces) {
		panic(fmt.Sprintf("dice replay exhausted after %d rolls", len(r.faces)))
	}
	face := r.faces[r.next]
	r.next++
	return face
}

// Remaining reports how many faces have not been rolled yet.
func (r *Replay) Remaining() int {
	return len(r.faces) - r.next
}
