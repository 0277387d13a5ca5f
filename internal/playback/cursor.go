package playback

// Scrub step sizes.
const (
	StepSmall  = 1
	StepMedium = 10
	StepLarge  = 100
)

// Cursor is a clamped position within a timeline.
type Cursor struct {
	tl  *Timeline
	pos int
}

// NewCursor returns a cursor at the first frame.
func NewCursor(tl *Timeline) *Cursor {
	return &Cursor{tl: tl}
}

// Pos returns the current frame index.
func (c *Cursor) Pos() int {
	return c.pos
}

// Max returns the last valid frame index.
func (c *Cursor) Max() int {
	return max(0, c.tl.Len()-1)
}

// Move shifts the cursor by delta frames, clamping to the timeline.
func (c *Cursor) Move(delta int) int {
	return c.Seek(c.pos + delta)
}

// Seek jumps to frame i, clamping to the timeline.
func (c *Cursor) Seek(i int) int {
	c.pos = max(0, min(i, c.Max()))
	return c.pos
}

// AtEnd reports whether the cursor is on the last frame.
func (c *Cursor) AtEnd() bool {
	return c.pos == c.Max()
}

// Frame returns the frame under the cursor.
func (c *Cursor) Frame() Frame {
	f, _ := c.tl.Frame(c.pos)
	return f
}

// IGT returns the in-game time of the current frame.
func (c *Cursor) IGT() IGT {
	return IGTAt(c.pos)
}

// MaxIGT returns the in-game time of the last frame.
func (c *Cursor) MaxIGT() IGT {
	return IGTAt(c.Max())
}
