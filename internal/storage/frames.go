package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/sim"
)

// FrameColumns is the header of frames.csv.
var FrameColumns = []string{
	"step", "particles", "tracked", "tree_mass",
	"com_x", "com_y", "com_z",
	"momentum_x", "momentum_y", "momentum_z",
	"energy", "nodes", "leaves", "depth",
	"moved", "escaped", "dropped", "reentered", "merged",
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func frameRecord(f sim.Frame) []string {
	itoa := strconv.Itoa
	return []string{
		itoa(f.Step), itoa(f.Particles), itoa(f.Tracked), formatFloat(f.TreeMass),
		formatFloat(f.CenterOfMass[0]), formatFloat(f.CenterOfMass[1]), formatFloat(f.CenterOfMass[2]),
		formatFloat(f.Momentum[0]), formatFloat(f.Momentum[1]), formatFloat(f.Momentum[2]),
		formatFloat(f.Energy), itoa(f.Nodes), itoa(f.Leaves), itoa(f.Depth),
		itoa(f.Moved), itoa(f.Escaped), itoa(f.Dropped), itoa(f.Reentered), itoa(f.Merged),
	}
}

// WriteFrames writes frames as CSV with a header row.
func WriteFrames(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FrameColumns); err != nil {
		return err
	}
	for _, f := range frames {
		if err := cw.Write(frameRecord(f)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadFrames parses CSV written by WriteFrames.
func ReadFrames(r io.Reader) ([]sim.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(FrameColumns)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for i, rec := range records[1:] {
		f, err := parseFrame(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseFrame(rec []string) (sim.Frame, error) {
	var err error
	ints := func(s string) int {
		if err != nil {
			return 0
		}
		var v int
		v, err = strconv.Atoi(s)
		return v
	}
	floats := func(s string) float64 {
		if err != nil {
			return 0
		}
		var v float64
		v, err = strconv.ParseFloat(s, 64)
		return v
	}

	f := sim.Frame{
		Step:         ints(rec[0]),
		Particles:    ints(rec[1]),
		Tracked:      ints(rec[2]),
		TreeMass:     floats(rec[3]),
		CenterOfMass: mgl64.Vec3{floats(rec[4]), floats(rec[5]), floats(rec[6])},
		Momentum:     mgl64.Vec3{floats(rec[7]), floats(rec[8]), floats(rec[9])},
		Energy:       floats(rec[10]),
		Nodes:        ints(rec[11]),
		Leaves:       ints(rec[12]),
		Depth:        ints(rec[13]),
		Moved:        ints(rec[14]),
		Escaped:      ints(rec[15]),
		Dropped:      ints(rec[16]),
		Reentered:    ints(rec[17]),
		Merged:       ints(rec[18]),
	}
	return f, err
}
