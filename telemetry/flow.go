package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// RespawnCause labels why a particle was respawned.
type RespawnCause string

const (
	CauseNone   RespawnCause = ""
	CauseAge    RespawnCause = "age"
	CauseBounds RespawnCause = "bounds"
	CauseNoData RespawnCause = "no_data"
)

// FlowStats summarizes particle churn over one stats window.
type FlowStats struct {
	WindowEnd      int64   `csv:"window_end"`
	Steps          int     `csv:"steps"`
	Respawns       int     `csv:"respawns"`
	AgeExpiries    int     `csv:"age_expiries"`
	BoundsExits    int     `csv:"bounds_exits"`
	NoDataExpiries int     `csv:"no_data_expiries"`
	MeanSpeed      float64 `csv:"mean_speed"`
	SpeedStdDev    float64 `csv:"speed_std_dev"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s FlowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEnd),
		slog.Int("steps", s.Steps),
		slog.Int("respawns", s.Respawns),
		slog.Int("age_expiries", s.AgeExpiries),
		slog.Int("bounds_exits", s.BoundsExits),
		slog.Int("no_data_expiries", s.NoDataExpiries),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("speed_std_dev", s.SpeedStdDev),
	)
}

// FlowCollector accumulates particle churn between window flushes.
type FlowCollector struct {
	steps          int
	ageExpiries    int
	boundsExits    int
	noDataExpiries int
	speeds         []float64
}

// NewFlowCollector creates an empty collector.
func NewFlowCollector() *FlowCollector {
	return &FlowCollector{
		speeds: make([]float64, 0, 4096),
	}
}

// RecordStep registers one live particle step with its sampled wind speed.
func (c *FlowCollector) RecordStep(speed float64) {
	c.steps++
	c.speeds = append(c.speeds, speed)
}

// RecordRespawn registers one in-place particle replacement.
func (c *FlowCollector) RecordRespawn(cause RespawnCause) {
	switch cause {
	case CauseAge:
		c.ageExpiries++
	case CauseBounds:
		c.boundsExits++
	case CauseNoData:
		c.noDataExpiries++
	}
}

// Flush computes window statistics and resets the collector.
func (c *FlowCollector) Flush(windowEnd int64) FlowStats {
	stats := FlowStats{
		WindowEnd:      windowEnd,
		Steps:          c.steps,
		Respawns:       c.ageExpiries + c.boundsExits + c.noDataExpiries,
		AgeExpiries:    c.ageExpiries,
		BoundsExits:    c.boundsExits,
		NoDataExpiries: c.noDataExpiries,
	}

	if len(c.speeds) > 0 {
		stats.MeanSpeed = stat.Mean(c.speeds, nil)
		if len(c.speeds) > 1 {
			stats.SpeedStdDev = stat.StdDev(c.speeds, nil)
		}
	}

	c.steps = 0
	c.ageExpiries = 0
	c.boundsExits = 0
	c.noDataExpiries = 0
	c.speeds = c.speeds[:0]

	return stats
}
