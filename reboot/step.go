/*
	Package reboot holds toggle instructions for the lattice, reads them from text or JSON
	sources, and drives region trees to count the cells left on for regions of interest.

	A text procedure has one step per line:

		on x=10..12,y=10..12,z=10..12
		off x=9..11,y=9..11,z=9..11

	Blank lines and lines starting with '#' are skipped.
*/
package reboot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/janelia-flyem/lattice/lattice"
)

var axisNames = [3]string{"x", "y", "z"}

// Step is a single toggle instruction.  Later steps take precedence where they overlap
// earlier ones.
type Step struct {
	On      bool
	Extents lattice.Extents3d
}

func (s Step) state() string {
	if s.On {
		return "on"
	}
	return "off"
}

// String returns the step in the text form accepted by ParseStep.
func (s Step) String() string {
	min, max := s.Extents.MinPoint, s.Extents.MaxPoint
	return fmt.Sprintf("%s x=%d..%d,y=%d..%d,z=%d..%d", s.state(),
		min[0], max[0], min[1], max[1], min[2], max[2])
}

// ParseStep parses a line of the form "<on|off> x=<a>..<b>,y=<c>..<d>,z=<e>..<f>".
// Whitespace is allowed around each range and its parts.  Ranges whose start is
// past their end are rejected.
func ParseStep(line string) (Step, error) {
	var step Step
	line = strings.TrimSpace(line)
	sep := strings.IndexFunc(line, unicode.IsSpace)
	if sep < 0 {
		return step, fmt.Errorf("expected state and ranges, got %q", line)
	}
	state, rest := line[:sep], strings.TrimSpace(line[sep:])
	switch state {
	case "on":
		step.On = true
	case "off":
		step.On = false
	default:
		return step, fmt.Errorf("bad state %q, must be 'on' or 'off'", state)
	}

	ranges := strings.Split(rest, ",")
	if len(ranges) != 3 {
		return step, fmt.Errorf("expected 3 axis ranges, got %d in %q", len(ranges), rest)
	}
	var minPt, maxPt lattice.Point3d
	for axis, r := range ranges {
		name, span, found := strings.Cut(r, "=")
		name = strings.TrimSpace(name)
		if !found || name != axisNames[axis] {
			return step, fmt.Errorf("expected range for axis %s, got %q", axisNames[axis], strings.TrimSpace(r))
		}
		lo, hi, found := strings.Cut(span, "..")
		if !found {
			return step, fmt.Errorf("bad range %q for axis %s", strings.TrimSpace(span), name)
		}
		var err error
		if minPt[axis], err = strconv.ParseInt(strings.TrimSpace(lo), 10, 64); err != nil {
			return step, fmt.Errorf("bad start of axis %s range: %v", name, err)
		}
		if maxPt[axis], err = strconv.ParseInt(strings.TrimSpace(hi), 10, 64); err != nil {
			return step, fmt.Errorf("bad end of axis %s range: %v", name, err)
		}
	}
	ext, err := lattice.NewExtents3d(minPt, maxPt)
	if err != nil {
		return step, err
	}
	step.Extents = ext
	return step, nil
}

// Validate returns an error wrapping lattice.ErrInvertedExtents if the step's box
// is empty.
func (s Step) Validate() error {
	_, err := lattice.NewExtents3d(s.Extents.MinPoint, s.Extents.MaxPoint)
	return err
}

// Procedure is an ordered list of toggle instructions.
type Procedure struct {
	Steps []Step
}

// ParseProcedure reads a text procedure.  Errors give the 1-based line number.
func ParseProcedure(r io.Reader) (*Procedure, error) {
	proc := new(Procedure)
	scanner := bufio.NewScanner(r)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		step, err := ParseStep(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNum, err)
		}
		proc.Steps = append(proc.Steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading procedure: %v", err)
	}
	return proc, nil
}

// Validate checks every step, returning an error naming the first with an empty box.
func (p *Procedure) Validate() error {
	for i, step := range p.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// Bounds returns the smallest box containing every step.
func (p *Procedure) Bounds() (lattice.Extents3d, error) {
	if p == nil || len(p.Steps) == 0 {
		return lattice.Extents3d{}, fmt.Errorf("no steps in procedure")
	}
	bounds := p.Steps[0].Extents
	for _, step := range p.Steps[1:] {
		bounds.Extend(step.Extents)
	}
	return bounds, nil
}

// WriteTo writes the procedure in text form.
func (p *Procedure) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, step := range p.Steps {
		n, err := fmt.Fprintln(w, step)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
