package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/katalvlaran/pulsetrace/waveform"
)

func writeCSV(w io.Writer, wf waveform.Waveform, _ Meta) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time_s", "power_w"}); err != nil {
		return err
	}
	row := make([]string, 2)
	for i := range wf.Time {
		row[0] = strconv.FormatFloat(wf.Time[i], 'g', -1, 64)
		row[1] = strconv.FormatFloat(wf.Power[i], 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}
