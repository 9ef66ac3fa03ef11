package apibase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type ProbeStatus string

const (
	ProbeOK          ProbeStatus = "ok"
	ProbeTimeout     ProbeStatus = "timeout"
	ProbeUnreachable ProbeStatus = "unreachable"
	ProbeBadStatus   ProbeStatus = "bad_status"
)

// ProbeResult is the outcome of one health-check request against a candidate.
type ProbeResult struct {
	Origin     string        `json:"origin"`
	URL        string        `json:"url"`
	Status     ProbeStatus   `json:"status"`
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency"`
	Error      string        `json:"error,omitempty"`
	CheckedAt  time.Time     `json:"checked_at"`
}

func (p ProbeResult) OK() bool { return p.Status == ProbeOK }

// probe issues a single bounded GET. The request is cancelled once timeout
// elapses, and a timeout is reported like any other failure.
func probe(ctx context.Context, client *http.Client, origin, healthPath string, timeout time.Duration) ProbeResult {
	res := ProbeResult{
		Origin:    origin,
		URL:       HealthURL(origin, healthPath),
		CheckedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		res.Status = ProbeUnreachable
		res.Error = fmt.Sprintf("build request: %v", err)
		return res
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	res.Latency = time.Since(start)
	if err != nil {
		res.Status = ProbeUnreachable
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			res.Status = ProbeTimeout
		}
		res.Error = err.Error()
		return res
	}
	defer resp.Body.Close()
	// Drain a little so the connection can be reused.
	_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)

	res.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Status = ProbeBadStatus
		res.Error = resp.Status
		return res
	}
	res.Status = ProbeOK
	return res
}
