package telemetry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary condenses a run of samples for one log line.
type Summary struct {
	Steps         int
	MeanSpeed     float64
	StdSpeed      float64
	MaxSpeed      float64
	GroundedRatio float64
	// MeanRideError is the mean of ground distance minus ride height over
	// grounded samples.
	MeanRideError float64
	MaxYawRate    float64
}

func Summarize(samples []Sample, rideHeight float64) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	speeds := make([]float64, len(samples))
	yaw := make([]float64, len(samples))
	var ride []float64
	for i, s := range samples {
		speeds[i] = s.Speed
		yaw[i] = math.Abs(s.YawRate)
		if s.Grounded {
			ride = append(ride, s.GroundDist-rideHeight)
		}
	}

	mean, std := stat.MeanStdDev(speeds, nil)
	if math.IsNaN(std) {
		std = 0
	}
	sum := Summary{
		Steps:         len(samples),
		MeanSpeed:     mean,
		StdSpeed:      std,
		MaxSpeed:      floats.Max(speeds),
		GroundedRatio: float64(len(ride)) / float64(len(samples)),
		MaxYawRate:    floats.Max(yaw),
	}
	if len(ride) > 0 {
		sum.MeanRideError = stat.Mean(ride, nil)
	}
	return sum
}
