// Package grading holds the letter-grade scale and the point
// arithmetic behind the dashboard aggregates.
package grading

// scale is ordered best to worst. The scale has no D+ or D-.
var scale = []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D", "F"}

var points = map[string]float64{
	"A+": 4.3,
	"A":  4.0,
	"A-": 3.7,
	"B+": 3.3,
	"B":  3.0,
	"B-": 2.7,
	"C+": 2.3,
	"C":  2.0,
	"C-": 1.7,
	"D":  1.0,
	"F":  0.0,
}

// Scale returns the grades in display order.
func Scale() []string {
	out := make([]string, len(scale))
	copy(out, scale)
	return out
}

func Valid(grade string) bool {
	_, ok := points[grade]
	return ok
}

// Points maps a grade to its grade-point value. Unknown grades are
// worth nothing and report !ok.
func Points(grade string) (float64, bool) {
	p, ok := points[grade]
	return p, ok
}

// Average computes the grade-point average over a grade count
// distribution. Unknown grades in the distribution are skipped, an
// empty distribution averages to zero.
func Average(counts map[string]int) float64 {
	var sum float64
	var total int
	for grade, count := range counts {
		if count <= 0 {
			continue
		}
		p, ok := points[grade]
		if !ok {
			continue
		}
		sum += p * float64(count)
		total += count
	}
	if total == 0 {
		return 0
	}
	return sum / float64(total)
}
