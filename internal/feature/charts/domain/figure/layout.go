package figure

// Domain is the vertical extent of a panel as fractions of the figure
// height, measured from the bottom (0) to the top (1).
type Domain struct {
	Bottom, Top float64
}

// Domains splits the unit height between panels proportionally to their
// weights, top panel first, leaving spacing between neighbours.
func Domains(weights []float64, spacing float64) []Domain {
	n := len(weights)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Domain{{Bottom: 0, Top: 1}}
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	usable := 1 - spacing*float64(n-1)

	out := make([]Domain, n)
	top := 1.0
	for i, w := range weights {
		h := usable * w / total
		bottom := top - h
		if i == n-1 {
			bottom = 0
		}
		out[i] = Domain{Bottom: bottom, Top: top}
		top = bottom - spacing
	}
	return out
}

// Domains returns the panel domains of the chart using Spacing.
func (c *Chart) Domains() []Domain {
	weights := make([]float64, len(c.Panels))
	for i, p := range c.Panels {
		weights[i] = p.Weight
	}
	return Domains(weights, Spacing)
}
