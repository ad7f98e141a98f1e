package colors

import "math"

// luminanceClusters is how many dominant colors feed the image luminance
// estimate. A handful is enough; the weighted mean washes out small clusters.
const luminanceClusters = 5

// Luminance returns the WCAG relative luminance of the color, in [0, 1].
func (c Color) Luminance() float64 {
	r := srgbToLinear(c.R)
	g := srgbToLinear(c.G)
	b := srgbToLinear(c.B)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// srgbToLinear converts an 8-bit sRGB channel to its linear value.
func srgbToLinear(v uint8) float64 {
	c := float64(v) / 255.0
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// MeanLuminance estimates the overall luminance of an image as the
// pixel-count-weighted mean luminance of its dominant colors.
func MeanLuminance(path string) (float64, error) {
	clusters, err := analyzeClusters(path, luminanceClusters)
	if err != nil {
		return 0, err
	}

	var weighted float64
	var total int
	for _, c := range clusters {
		weighted += c.Color.Luminance() * float64(c.Count)
		total += c.Count
	}

	if total == 0 {
		return 0, nil
	}

	return weighted / float64(total), nil
}
