package algebra

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownAxis is returned when an axis tag is not one of x, y or z.
var ErrUnknownAxis = errors.New("unknown axis")

// Axis names one of the three world axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists the axes in component order.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

// ParseAxis reads "x", "y" or "z" (case insensitive).
func ParseAxis(tag string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}

	return 0, errors.Wrapf(ErrUnknownAxis, "%q", tag)
}

// Index returns the vector component index of the axis.
func (a Axis) Index() int {
	return int(a)
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}

	return "unknown"
}
