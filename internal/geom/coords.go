// Package geom converts between the percentage coordinate space used for
// storing field positions and the absolute coordinate space of a PDF page.
//
// Stored coordinates are percentages of the page width/height with the origin
// at the top-left corner, which is how the placement editor addresses a
// rendered page. PDF drawing operations use points with the origin at the
// bottom-left corner, so the vertical axis is flipped on conversion.
package geom

// Percent is a position expressed as percentages of the page dimensions,
// origin top-left. Both components are expected to lie in [0,100].
type Percent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Absolute is a position in page units (points), origin bottom-left.
type Absolute struct {
	X float64
	Y float64
}

// ToAbsolute converts a percentage position into absolute page coordinates.
// The y axis is flipped: percent 0 is the top edge, absolute 0 the bottom.
func ToAbsolute(p Percent, pageWidth, pageHeight float64) Absolute {
	return Absolute{
		X: p.X / 100 * pageWidth,
		Y: pageHeight - (p.Y / 100 * pageHeight),
	}
}

// ToPercent is the inverse of ToAbsolute.
func ToPercent(a Absolute, pageWidth, pageHeight float64) Percent {
	if pageWidth == 0 || pageHeight == 0 {
		return Percent{}
	}
	return Percent{
		X: a.X / pageWidth * 100,
		Y: (pageHeight - a.Y) / pageHeight * 100,
	}
}

// Clamp restricts a value to the inclusive range [0,100]. The editor applies
// it on every drag update so stored percentages never leave that range.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampPercent clamps both components of a percentage position.
func ClampPercent(p Percent) Percent {
	return Percent{X: Clamp(p.X), Y: Clamp(p.Y)}
}

// ResolveDraw computes the absolute draw position for a stored coordinate,
// tolerating records written before percentages became the canonical unit.
// Values above 100 cannot be percentages, so they are taken as absolute page
// units already in bottom-left orientation and passed through unchanged.
// Legacy absolute values at or below 100 are indistinguishable from
// percentages and will be misread; new records always store percent.
func ResolveDraw(p Percent, pageWidth, pageHeight float64) Absolute {
	a := Absolute{}
	if p.X > 100 {
		a.X = p.X
	} else {
		a.X = p.X / 100 * pageWidth
	}
	if p.Y > 100 {
		a.Y = p.Y
	} else {
		a.Y = pageHeight - (p.Y / 100 * pageHeight)
	}
	return a
}

// ScreenOffset converts a stored percentage into pixel offsets within a
// rendered page box. The math is the same percent-of-box calculation the
// editor uses, without the axis flip: rendered pages share the editor's
// top-left origin.
func ScreenOffset(p Percent, boxWidth, boxHeight float64) (x, y float64) {
	return p.X / 100 * boxWidth, p.Y / 100 * boxHeight
}
