// Package collector pushes completed benchmark results to an external
// collector process over a Unix domain socket, for consumers that want
// to aggregate results across many separate hyperfine invocations.
package collector

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/tavianator/hyperfine/pkg/aggregate"
)

// parameterPair is one ordered parameter key/value, carried over the
// wire since JSON object key order is not guaranteed to round-trip.
type parameterPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Payload is the wire format sent to the collector for one benchmarked
// command.
type Payload struct {
	Command    string          `json:"command"`
	Parameters []parameterPair `json:"parameters"`
	Mean       float64         `json:"mean_seconds"`
	Stddev     *float64        `json:"stddev_seconds,omitempty"`
	Median     float64         `json:"median_seconds"`
	Min        float64         `json:"min_seconds"`
	Max        float64         `json:"max_seconds"`
	User       float64         `json:"user_seconds"`
	System     float64         `json:"system_seconds"`
	RunCount   int             `json:"run_count"`
	Timestamp  int64           `json:"timestamp"`
}

// NewPayload converts an aggregated benchmark result into its wire form.
func NewPayload(result aggregate.BenchmarkResult) Payload {
	parameters := make([]parameterPair, 0, len(result.ParameterOrder))
	for _, key := range result.ParameterOrder {
		parameters = append(parameters, parameterPair{Key: key, Value: result.Parameters[key]})
	}

	return Payload{
		Command:    result.Command,
		Parameters: parameters,
		Mean:       result.Mean,
		Stddev:     result.Stddev,
		Median:     result.Median,
		Min:        result.Min,
		Max:        result.Max,
		User:       result.User,
		System:     result.System,
		RunCount:   len(result.ExitCodes),
		Timestamp:  time.Now().Unix(),
	}
}

// Client handles communication with a collector daemon listening on a
// Unix domain socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new collector client for socketPath.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    100 * time.Millisecond,
	}
}

// DefaultSocketPath returns the default Unix socket path for the
// collector daemon.
func DefaultSocketPath() string {
	return "/tmp/hyperfine-collector.sock"
}

// Send delivers payload to the daemon synchronously.
func (c *Client) Send(payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("collector: failed to marshal payload: %w", err)
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return fmt.Errorf("collector: failed to connect to daemon: %w", err)
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(c.timeout))

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("collector: failed to send payload: %w", err)
	}

	return nil
}

// SendAsync delivers payload to the daemon fire-and-forget, discarding
// any error. Callers that can't afford to block the benchmark loop on
// a slow or absent collector use this instead of Send.
func (c *Client) SendAsync(payload Payload) {
	go func() {
		_ = c.Send(payload)
	}()
}
