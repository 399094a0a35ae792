// Package format turns captured exchanges into display lines.
package format

import (
	"fmt"
	"math"
)

// DetailLevel controls how verbosely an exchange is rendered.
//
//	1: presence marker only
//	2: timestamp + status
//	3: timestamp + status + method + path (default)
//	4: level 3 plus full header dump
//	5: level 4 plus truncated body previews
//	6: level 4 plus full untruncated bodies
type DetailLevel int

const (
	MinLevel DetailLevel = 1
	MaxLevel DetailLevel = 6
)

// Of clamps n into the valid level range.
func Of(n int) DetailLevel {
	if n < int(MinLevel) {
		return MinLevel
	}
	if n > int(MaxLevel) {
		return MaxLevel
	}
	return DetailLevel(n)
}

// OfFloat floors f to an integer, then clamps.
func OfFloat(f float64) DetailLevel {
	return Of(int(math.Floor(f)))
}

// Inc returns the next level, saturating at MaxLevel. At the top it returns
// the receiver unchanged, so callers can suppress redraws via equality.
func (l DetailLevel) Inc() DetailLevel {
	if l >= MaxLevel {
		return l
	}
	return l + 1
}

// Dec returns the previous level, saturating at MinLevel.
func (l DetailLevel) Dec() DetailLevel {
	if l <= MinLevel {
		return l
	}
	return l - 1
}

// String returns the level as its display form ("L3").
func (l DetailLevel) String() string {
	return fmt.Sprintf("L%d", int(l))
}
