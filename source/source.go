// Package source fetches wind vector fields and converts them into
// screen-space field samples.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ecomonitor/windflow/field"
	"github.com/ecomonitor/windflow/view"
)

// ErrNoData is returned when the server answers successfully but reports no
// wind measurements inside the requested bounds.
var ErrNoData = errors.New("no wind data in requested bounds")

// Source provides wind field samples for a view. Implementations must respect
// the context; a fetch is issued once per activation, never per frame.
type Source interface {
	FetchField(ctx context.Context, v *view.View) ([]field.Sample, error)
}

// Vector is one wind measurement as served by the wind-vectors endpoint.
type Vector struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
}

// Payload is the wind-vectors response body.
type Payload struct {
	Parameter string   `json:"parameter"`
	Data      []Vector `json:"data"`
	Count     int      `json:"count"`
}

// HTTPSource fetches wind vectors from the monitoring backend's
// /api/weather/wind-vectors endpoint.
type HTTPSource struct {
	baseURL    string
	gridSize   int
	httpClient *http.Client
}

// NewHTTPSource creates a source against the given endpoint URL.
func NewHTTPSource(baseURL string, gridSize int, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		baseURL:  baseURL,
		gridSize: gridSize,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewHTTPSourceWithClient creates a source with a custom HTTP client.
func NewHTTPSourceWithClient(baseURL string, gridSize int, httpClient *http.Client) *HTTPSource {
	return &HTTPSource{
		baseURL:    baseURL,
		gridSize:   gridSize,
		httpClient: httpClient,
	}
}

// FetchField requests wind vectors for the view's bounds and projects them
// into screen space. Network errors, non-success statuses, and malformed
// payloads all fail the fetch; the caller must not start animating.
func (s *HTTPSource) FetchField(ctx context.Context, v *view.View) ([]field.Sample, error) {
	reqURL, err := s.buildURL(v)
	if err != nil {
		return nil, fmt.Errorf("building request URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching wind vectors: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wind vectors request failed: %s", resp.Status)
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding wind vectors: %w", err)
	}

	samples := ProjectVectors(payload.Data, v)
	if len(samples) == 0 {
		return nil, ErrNoData
	}
	return samples, nil
}

func (s *HTTPSource) buildURL(v *view.View) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("min_lat", formatCoord(v.MinLat))
	q.Set("max_lat", formatCoord(v.MaxLat))
	q.Set("min_lon", formatCoord(v.MinLon))
	q.Set("max_lon", formatCoord(v.MaxLon))
	q.Set("grid_size", strconv.Itoa(s.gridSize))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func formatCoord(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

// ProjectVectors converts geographic wind vectors into screen-space field
// samples. Vectors with unusable values (NaN, negative speed) are dropped;
// directions are normalized to [0, 360).
func ProjectVectors(vectors []Vector, v *view.View) []field.Sample {
	samples := make([]field.Sample, 0, len(vectors))
	for _, vec := range vectors {
		if math.IsNaN(vec.Speed) || math.IsNaN(vec.Direction) || vec.Speed < 0 {
			continue
		}

		x, y := v.Project(vec.Lon, vec.Lat)
		dir := math.Mod(vec.Direction, 360)
		if dir < 0 {
			dir += 360
		}

		samples = append(samples, field.Sample{
			X:         x,
			Y:         y,
			Speed:     vec.Speed,
			Direction: dir,
		})
	}
	return samples
}
