package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/controller"
)

// Sample is one body's state after one step, as written to CSV.
type Sample struct {
	Step       int     `csv:"step"`
	Time       float64 `csv:"time"`
	Body       int     `csv:"body"`
	Mode       string  `csv:"mode"`
	X          float64 `csv:"x"`
	Y          float64 `csv:"y"`
	Z          float64 `csv:"z"`
	VX         float64 `csv:"vx"`
	VY         float64 `csv:"vy"`
	VZ         float64 `csv:"vz"`
	Speed      float64 `csv:"speed"`
	YawRate    float64 `csv:"yaw_rate"`
	Grounded   bool    `csv:"grounded"`
	GroundDist float64 `csv:"ground_distance"`
	Vertical   string  `csv:"vertical"`
	ForceX     float64 `csv:"force_x"`
	ForceY     float64 `csv:"force_y"`
	ForceZ     float64 `csv:"force_z"`
}

func SampleFrom(r controller.Report) Sample {
	p := r.State.Transform.Position
	v := r.State.LinearVelocity
	f := r.Command.Force
	return Sample{
		Step:       r.Step,
		Time:       r.Time,
		Body:       int(r.Body),
		Mode:       r.Mode.String(),
		X:          p.X(),
		Y:          p.Y(),
		Z:          p.Z(),
		VX:         v.X(),
		VY:         v.Y(),
		VZ:         v.Z(),
		Speed:      common.Horizontal(v).Len(),
		YawRate:    r.YawRate,
		Grounded:   r.Ground.Hit,
		GroundDist: r.Ground.Distance,
		Vertical:   r.Command.Vertical.String(),
		ForceX:     f.X(),
		ForceY:     f.Y(),
		ForceZ:     f.Z(),
	}
}

// Recorder is a controller.Observer that streams samples as CSV and keeps
// them for a closing Summary. The first write error stops further output
// and is reported by Err.
type Recorder struct {
	w             io.Writer
	headerWritten bool
	samples       []Sample
	err           error
}

var _ controller.Observer = (*Recorder)(nil)

// NewRecorder writes to w. A nil w only collects samples.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

func (r *Recorder) Observe(rep controller.Report) {
	s := SampleFrom(rep)
	r.samples = append(r.samples, s)
	if r.w == nil || r.err != nil {
		return
	}

	records := []Sample{s}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.w); err != nil {
			r.err = fmt.Errorf("telemetry: write sample: %w", err)
			return
		}
		r.headerWritten = true
		return
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
		r.err = fmt.Errorf("telemetry: write sample: %w", err)
	}
}

func (r *Recorder) Samples() []Sample {
	return append([]Sample(nil), r.samples...)
}

func (r *Recorder) Err() error {
	return r.err
}

// ReadSamples parses CSV written by a Recorder.
func ReadSamples(rd io.Reader) ([]Sample, error) {
	var out []Sample
	if err := gocsv.Unmarshal(rd, &out); err != nil {
		return nil, fmt.Errorf("telemetry: read samples: %w", err)
	}
	return out, nil
}
