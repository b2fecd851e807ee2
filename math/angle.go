// SPDX-License-Identifier: GPL-2.0-or-later

package math

import "math"

// AngleMod32 changes an angle to be within 0-360 degrees
func AngleMod32(a float32) float32 {
	return float32(AngleMod(float64(a)))
}

// AngleMod changes an angle to be within 0-360 degrees
func AngleMod(a float64) float64 {
	return a - math.Floor(a/360)*360
}

// Quadrant snaps an angle in degrees to the nearest multiple of 90 degrees
// and returns it as 0, 1, 2 or 3.
func Quadrant(a float32) int {
	q := int(math.Floor(float64(AngleMod32(a))/90+0.5)) % 4
	return q
}
