package geometry

// Rect is an axis-aligned bounding box, used here for the arena's
// playable bounds, adapted from a tile-collision AABB into a plain
// clamp-and-contains helper.
type Rect struct {
	X, Y, Width, Height float32
}

func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Clamp pulls (x, y) back inside the rect, inset by margin on every
// side, leaving points already within bounds untouched.
func (r Rect) Clamp(x, y, margin float32) (float32, float32) {
	switch {
	case x < r.X+margin:
		x = r.X + margin
	case x > r.X+r.Width-margin:
		x = r.X + r.Width - margin
	}
	switch {
	case y < r.Y+margin:
		y = r.Y + margin
	case y > r.Y+r.Height-margin:
		y = r.Y + r.Height - margin
	}
	return x, y
}
