package geom

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrPrecondition marks input that breaks the PolyArea contract: a
// boundary that is not counterclockwise, a hole that is not clockwise,
// crossing edges, or a hole outside the boundary. The offset engine does
// not try to recover from these.
var ErrPrecondition = errors.New("polygon precondition violated")

// ValidationSeverity indicates whether a finding blocks processing or is
// informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks processing
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes one finding. Ring is 0 for the boundary and
// i+1 for hole i.
type ValidationError struct {
	Ring     int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Severity, ringName(e.Ring), e.Message)
}

func ringName(i int) string {
	if i == 0 {
		return "boundary"
	}
	return fmt.Sprintf("hole %d", i-1)
}

// Validate checks pa against the PolyArea contract and returns every
// finding. Degenerate rings are reported as warnings: the engines drop
// them silently. This function never mutates pa.
func Validate(pa *PolyArea) []ValidationError {
	var errs []ValidationError
	live := make([]bool, len(pa.Holes)+1)
	for i, ring := range pa.Rings() {
		if w, ok := degenerate(ring, pa.Points); ok {
			errs = append(errs, ValidationError{Ring: i, Message: w, Severity: SeverityWarning})
			continue
		}
		live[i] = true
	}
	errs = append(errs, validateOrientation(pa, live)...)
	errs = append(errs, validateCrossings(pa, live)...)
	errs = append(errs, validateHoles(pa, live)...)
	return errs
}

// Check returns nil when Validate reports no errors, and otherwise the
// first error wrapped around ErrPrecondition.
func (pa *PolyArea) Check() error {
	for _, e := range Validate(pa) {
		if e.Severity == SeverityError {
			return errors.Wrap(ErrPrecondition, e.Error())
		}
	}
	return nil
}

func degenerate(ring []int, pts *Points) (string, bool) {
	if len(ring) <= 2 {
		return fmt.Sprintf("%d vertices", len(ring)), true
	}
	if a := SignedArea(ring, pts); a > -AreaTol && a < AreaTol {
		return fmt.Sprintf("area %g below tolerance", a), true
	}
	return "", false
}

func validateOrientation(pa *PolyArea, live []bool) []ValidationError {
	var errs []ValidationError
	if live[0] && SignedArea(pa.Poly, pa.Points) < 0 {
		errs = append(errs, ValidationError{Ring: 0, Message: "runs clockwise", Severity: SeverityError})
	}
	for i, h := range pa.Holes {
		if live[i+1] && SignedArea(h, pa.Points) > 0 {
			errs = append(errs, ValidationError{Ring: i + 1, Message: "runs counterclockwise", Severity: SeverityError})
		}
	}
	return errs
}

// validateCrossings reports each ring whose edges cross an edge of the
// same or another ring. Rings sharing a vertex are fine.
func validateCrossings(pa *PolyArea, live []bool) []ValidationError {
	rings := pa.Rings()
	owner := make(map[Segment]int)
	var indexed [][]int
	for i, r := range rings {
		if !live[i] {
			continue
		}
		indexed = append(indexed, r)
		for j := range r {
			owner[Segment{r[j], r[(j+1)%len(r)]}] = i
		}
	}
	x := NewSegmentIndex(pa.Points, indexed...)

	var errs []ValidationError
	reported := make(map[[2]int]bool)
	for i, r := range rings {
		if !live[i] {
			continue
		}
		n := len(r)
		for j := range n {
			a, b := r[j], r[(j+1)%n]
			p, q := pa.Points.Pos(a), pa.Points.Pos(b)
			for _, s := range x.Near(p, q) {
				if !SegmentsCross(p, q, pa.Points.Pos(s.A), pa.Points.Pos(s.B)) {
					continue
				}
				k := owner[s]
				key := [2]int{min(i, k), max(i, k)}
				if reported[key] {
					continue
				}
				reported[key] = true
				msg := "crosses itself"
				if k != i {
					msg = "crosses " + ringName(k)
				}
				errs = append(errs, ValidationError{Ring: key[0], Message: msg, Severity: SeverityError})
			}
		}
	}
	return errs
}

// validateHoles checks that every hole has a vertex strictly inside the
// boundary, none outside it, and none inside another hole.
func validateHoles(pa *PolyArea, live []bool) []ValidationError {
	var errs []ValidationError
	if !live[0] {
		return nil
	}
	for i, h := range pa.Holes {
		if !live[i+1] {
			continue
		}
		inside, outside := 0, 0
		for _, v := range h {
			switch PointInside(pa.Points.Pos(v), pa.Poly, pa.Points) {
			case 1:
				inside++
			case -1:
				outside++
			}
		}
		if outside > 0 || inside == 0 {
			errs = append(errs, ValidationError{Ring: i + 1, Message: "not inside the boundary", Severity: SeverityError})
			continue
		}
		for k, other := range pa.Holes {
			if k == i || !live[k+1] {
				continue
			}
			if PointInside(pa.Points.Pos(h[0]), other, pa.Points) == 1 {
				errs = append(errs, ValidationError{
					Ring:     i + 1,
					Message:  "inside " + ringName(k+1),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}
