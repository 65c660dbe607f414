package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gravsim/internal/sim"
)

// FrameJSON is the exported form of a frame.
type FrameJSON struct {
	Step         int        `json:"step"`
	Particles    int        `json:"particles"`
	Tracked      int        `json:"tracked"`
	TreeMass     float64    `json:"tree_mass"`
	CenterOfMass [3]float64 `json:"center_of_mass"`
	Momentum     [3]float64 `json:"momentum"`
	Energy       float64    `json:"energy"`
	Nodes        int        `json:"nodes"`
	Leaves       int        `json:"leaves"`
	Depth        int        `json:"depth"`
	Moved        int        `json:"moved"`
	Escaped      int        `json:"escaped"`
	Dropped      int        `json:"dropped"`
	Reentered    int        `json:"reentered"`
	Merged       int        `json:"merged"`
}

func toJSON(f sim.Frame) FrameJSON {
	return FrameJSON{
		Step:         f.Step,
		Particles:    f.Particles,
		Tracked:      f.Tracked,
		TreeMass:     f.TreeMass,
		CenterOfMass: f.CenterOfMass,
		Momentum:     f.Momentum,
		Energy:       f.Energy,
		Nodes:        f.Nodes,
		Leaves:       f.Leaves,
		Depth:        f.Depth,
		Moved:        f.Moved,
		Escaped:      f.Escaped,
		Dropped:      f.Dropped,
		Reentered:    f.Reentered,
		Merged:       f.Merged,
	}
}

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Frames []FrameJSON `json:"frames"`
}

// ExportJSON writes a run's metadata and frames as one indented document.
func ExportJSON(w io.Writer, meta RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]FrameJSON, len(frames)),
	}
	for i, f := range frames {
		data.Frames[i] = toJSON(f)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportMetadata writes only the run metadata.
func ExportMetadata(w io.Writer, meta RunMetadata) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(meta)
}
