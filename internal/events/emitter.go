package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/lottolab/tombola-analytics/internal/engine"
)

// AnalysisEvent is the JSON payload published after each game is analyzed.
type AnalysisEvent struct {
	Type      string `json:"type"`
	Game      string `json:"game"`
	CardSize  int    `json:"card_size"`
	DrumSize  int    `json:"drum_size"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// AnalysisSummary is the Data carried by a completed analysis: the cumulative
// probability of a full card at each draw is the headline series, everything
// else lives in the CSV report.
type AnalysisSummary struct {
	Rows         int       `json:"rows"`
	FullCardByT  []float64 `json:"full_card_by_t"`
	FromCache    bool      `json:"from_cache"`
	ElapsedMicro int64     `json:"elapsed_us"`
}

type Emitter interface {
	EmitAnalysis(game string, params engine.GameParams, summary AnalysisSummary) error
	EmitError(game string, err error) error
	Close()
}

type natsEmitter struct {
	nc            *nats.Conn
	subjectPrefix string
}

// NewEmitter publishes analysis events to NATS under the given subject prefix.
func NewEmitter(nc *nats.Conn, subjectPrefix string) Emitter {
	if subjectPrefix == "" {
		subjectPrefix = "tombola.analysis"
	}
	return &natsEmitter{nc: nc, subjectPrefix: subjectPrefix}
}

func (e *natsEmitter) EmitAnalysis(game string, params engine.GameParams, summary AnalysisSummary) error {
	return e.publish(e.subjectPrefix+".completed", AnalysisEvent{
		Type:      "analysis",
		Game:      game,
		CardSize:  params.CardSize,
		DrumSize:  params.DrumSize,
		Data:      summary,
		Timestamp: time.Now().UTC().Unix(),
	})
}

func (e *natsEmitter) EmitError(game string, err error) error {
	payload := map[string]string{}
	if err != nil {
		payload["message"] = err.Error()
	}
	return e.publish(e.subjectPrefix+".error", AnalysisEvent{
		Type:      "error",
		Game:      game,
		Data:      payload,
		Timestamp: time.Now().UTC().Unix(),
	})
}

func (e *natsEmitter) publish(subject string, event AnalysisEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return e.nc.Publish(subject, data)
}

func (e *natsEmitter) Close() {
	if e.nc != nil {
		_ = e.nc.Drain()
	}
}

// NopEmitter satisfies Emitter when eventing is disabled.
type NopEmitter struct{}

func (NopEmitter) EmitAnalysis(string, engine.GameParams, AnalysisSummary) error { return nil }
func (NopEmitter) EmitError(string, error) error                                 { return nil }
func (NopEmitter) Close()                                                        {}
