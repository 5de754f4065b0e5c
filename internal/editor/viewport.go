package editor

// Rows reserved at the bottom of every screen: status line and help line.
const footerRows = 2

// Viewport is the window of form rows shown between the top of the screen
// and the status line.
type Viewport struct {
	Height       int // Terminal rows
	ScrollOffset int // Index of the first element shown
}

// VisibleLines returns how many element rows fit. At the top of the form one
// row is kept as padding above the first element.
func (v *Viewport) VisibleLines() int {
	vis := v.Height - footerRows
	if v.ScrollOffset == 0 && vis > 1 {
		vis--
	}
	return vis
}

// TopPadding is 1 while the form is scrolled to the top.
func (v *Viewport) TopPadding() int {
	if v.ScrollOffset == 0 {
		return 1
	}
	return 0
}

// EnsureVisible scrolls so that element row is on screen.
func (v *Viewport) EnsureVisible(row int) {
	vis := v.VisibleLines()
	if vis <= 0 {
		return
	}
	if row < v.ScrollOffset {
		v.ScrollOffset = row
	}
	if row >= v.ScrollOffset+vis {
		v.ScrollOffset = row - vis + 1
	}
}

// ScreenRow converts an element row to a 1-based screen row.
func (v *Viewport) ScreenRow(row int) int {
	return row - v.ScrollOffset + 1 + v.TopPadding()
}
