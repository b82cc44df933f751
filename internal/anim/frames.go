// Package anim drives a frame-by-frame animation of the projected worm body
// through a Renderer.
package anim

import (
	"fmt"
	"iter"

	"github.com/banshee-data/wormvis/internal/body"
)

// FrameUpdate is everything that changes from one frame to the next: the two
// boundary polylines and the frame label.
type FrameUpdate struct {
	Index   int
	Total   int
	Label   string
	Dorsal  body.Curve
	Ventral body.Curve
}

// Label returns the title shown on frame i.
func Label(i int) string {
	return fmt.Sprintf("frame   %d", i)
}

// Frames yields one FrameUpdate per timestep of s in increasing index order.
// The sequence is lazy and can be ranged over more than once.
func Frames(s *body.Surface) iter.Seq[FrameUpdate] {
	return func(yield func(FrameUpdate) bool) {
		n := s.Len()
		for i := 0; i < n; i++ {
			u := FrameUpdate{
				Index:   i,
				Total:   n,
				Label:   Label(i),
				Dorsal:  s.Dorsal[i],
				Ventral: s.Ventral[i],
			}
			if !yield(u) {
				return
			}
		}
	}
}
