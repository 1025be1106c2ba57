// fieldserver is a development stand-in for the monitoring backend's
// wind-vectors endpoint. It serves synthetic noise-based wind fields with the
// same request and response shape, so the visualizer can run without a live
// station network.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/ecomonitor/windflow/source"
)

const (
	minGridSize = 5
	maxGridSize = 30
)

type payload struct {
	Parameter string          `json:"parameter"`
	Data      []source.Vector `json:"data"`
	Count     int             `json:"count"`
	Bounds    bounds          `json:"bounds"`
	GridSize  int             `json:"grid_size"`
}

type bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

type handler struct {
	seed     int64
	maxSpeed float64
}

func (h *handler) windVectors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	b := bounds{MinLat: 55.55, MaxLat: 55.95, MinLon: 37.35, MaxLon: 37.85}
	var err error
	if b.MinLat, err = floatParam(q.Get("min_lat"), b.MinLat); err != nil {
		badRequest(w, "invalid min_lat")
		return
	}
	if b.MaxLat, err = floatParam(q.Get("max_lat"), b.MaxLat); err != nil {
		badRequest(w, "invalid max_lat")
		return
	}
	if b.MinLon, err = floatParam(q.Get("min_lon"), b.MinLon); err != nil {
		badRequest(w, "invalid min_lon")
		return
	}
	if b.MaxLon, err = floatParam(q.Get("max_lon"), b.MaxLon); err != nil {
		badRequest(w, "invalid max_lon")
		return
	}
	if b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		badRequest(w, "bounds must satisfy min < max")
		return
	}

	gridSize := 10
	if raw := q.Get("grid_size"); raw != "" {
		gridSize, err = strconv.Atoi(raw)
		if err != nil || gridSize < minGridSize || gridSize > maxGridSize {
			badRequest(w, "grid_size must be an integer between 5 and 30")
			return
		}
	}

	// Same seed every request, so repeated fetches see the same weather
	gen := source.NewSyntheticSource(h.seed, gridSize, h.maxSpeed)
	vectors := gen.Vectors(b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload{
		Parameter: "wind",
		Data:      vectors,
		Count:     len(vectors),
		Bounds:    b,
		GridSize:  gridSize,
	})
}

func floatParam(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func badRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func main() {
	addr := flag.String("addr", ":5000", "Listen address")
	seed := flag.Int64("seed", 0, "Noise seed (0 = time-based)")
	maxSpeed := flag.Float64("max-speed", 15, "Top wind speed in m/s")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	noiseSeed := *seed
	if noiseSeed == 0 {
		noiseSeed = time.Now().UnixNano()
	}

	h := &handler{seed: noiseSeed, maxSpeed: *maxSpeed}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/weather/wind-vectors", h.windVectors)

	slog.Info("field server listening", "addr", *addr, "seed", noiseSeed)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
