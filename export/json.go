package export

import (
	"encoding/json"
	"io"

	"github.com/katalvlaran/pulsetrace/waveform"
)

// document is the JSON shape of an exported waveform.
type document struct {
	Time   []float64 `json:"time"`
	Power  []float64 `json:"power"`
	Energy float64   `json:"energy"`
	Meta   Meta      `json:"meta,omitempty"`
}

func writeJSON(w io.Writer, wf waveform.Waveform, meta Meta) error {
	doc := document{
		Time:   wf.Time,
		Power:  wf.Power,
		Energy: wf.Energy(),
		Meta:   meta,
	}
	if doc.Time == nil {
		doc.Time, doc.Power = []float64{}, []float64{}
	}

	return json.NewEncoder(w).Encode(doc)
}
