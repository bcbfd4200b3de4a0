package structs

import "github.com/dariubs/percent"

// ratioOf computes occupied/capacity as a fraction, built on top of
// dariubs/percent the same way the teacher's cluster-capacity accounting
// derives utilization fractions from raw counts (percent.PercentOf returns
// a 0-100 scale value; dividing by 100 recovers the 0-1 ratio this
// component actually needs).
func ratioOf(occupied, capacity int) float64 {
	if capacity <= 0 {
		return 1.0
	}
	return percent.PercentOf(occupied, capacity) / 100
}
