package metrics

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/pinsetter/pinsetter/pkg/bowling"
)

const namespace = "pinsetter"

// Rejection reasons used as the "reason" label on throws_rejected_total.
const (
	ReasonInvalidThrow   = "invalid_throw"
	ReasonThrowsExceeded = "throws_exceeded"
	ReasonOther          = "other"
)

// ScoreBuckets are the upper bounds of the final-score histogram.
var ScoreBuckets = []float64{0, 30, 60, 90, 120, 150, 180, 210, 240, 270, 300}

// Recorder accumulates counters and the final-score histogram.
type Recorder struct {
	mu sync.Mutex

	games    uint64
	throws   uint64
	strikes  uint64
	spares   uint64
	rejected map[string]uint64

	scoreCounts []uint64 // non-cumulative, one per ScoreBuckets entry
	scoreSum    float64
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		rejected:    make(map[string]uint64),
		scoreCounts: make([]uint64, len(ScoreBuckets)),
	}
}

// ObserveThrow counts an accepted throw.
func (r *Recorder) ObserveThrow(t bowling.Throw) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.throws++
	switch t {
	case bowling.Strike:
		r.strikes++
	case bowling.Spare:
		r.spares++
	}
}

// ObserveRejected counts a refused throw under the reason matching err.
func (r *Recorder) ObserveRejected(err error) {
	reason := Reason(err)
	r.mu.Lock()
	r.rejected[reason]++
	r.mu.Unlock()
}

// ObserveGame records the final score of a completed game.
func (r *Recorder) ObserveGame(score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games++
	r.scoreSum += float64(score)
	for i, bound := range ScoreBuckets {
		if float64(score) <= bound {
			r.scoreCounts[i]++
			return
		}
	}
}

// Reason maps a bowling error to its rejection label.
func Reason(err error) string {
	switch {
	case errors.Is(err, bowling.ErrInvalidThrow):
		return ReasonInvalidThrow
	case errors.Is(err, bowling.ErrThrowsExceeded):
		return ReasonThrowsExceeded
	default:
		return ReasonOther
	}
}

// Families returns a snapshot of all metrics, sorted by name.
func (r *Recorder) Families() []*dto.MetricFamily {
	r.mu.Lock()
	defer r.mu.Unlock()

	rejected := &dto.MetricFamily{
		Name: proto.String(namespace + "_throws_rejected_total"),
		Help: proto.String("Throws refused by the scoring engine, by reason."),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	reasons := make([]string, 0, len(r.rejected))
	for reason := range r.rejected {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		rejected.Metric = append(rejected.Metric, &dto.Metric{
			Label:   []*dto.LabelPair{{Name: proto.String("reason"), Value: proto.String(reason)}},
			Counter: &dto.Counter{Value: proto.Float64(float64(r.rejected[reason]))},
		})
	}

	families := []*dto.MetricFamily{
		r.scoreHistogram(),
		counter("games_completed_total", "Games bowled through frame 10.", r.games),
		counter("spares_total", "Spares recorded.", r.spares),
		counter("strikes_total", "Strikes recorded.", r.strikes),
		counter("throws_total", "Throws accepted by the scoring engine.", r.throws),
	}
	// A family with no samples is not valid exposition text.
	if len(rejected.Metric) > 0 {
		families = append(families, rejected)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	return families
}

func (r *Recorder) scoreHistogram() *dto.MetricFamily {
	h := &dto.Histogram{
		SampleCount: proto.Uint64(r.games),
		SampleSum:   proto.Float64(r.scoreSum),
	}
	var cumulative uint64
	for i, bound := range ScoreBuckets {
		cumulative += r.scoreCounts[i]
		h.Bucket = append(h.Bucket, &dto.Bucket{
			UpperBound:      proto.Float64(bound),
			CumulativeCount: proto.Uint64(cumulative),
		})
	}
	return &dto.MetricFamily{
		Name:   proto.String(namespace + "_final_score"),
		Help:   proto.String("Final scores of completed games."),
		Type:   dto.MetricType_HISTOGRAM.Enum(),
		Metric: []*dto.Metric{{Histogram: h}},
	}
}

func counter(name, help string, v uint64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name:   proto.String(namespace + "_" + name),
		Help:   proto.String(help),
		Type:   dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{{Counter: &dto.Counter{Value: proto.Float64(float64(v))}}},
	}
}

// Format is the exposition format written by Write and ServeHTTP.
var Format = expfmt.NewFormat(expfmt.TypeTextPlain)

// Write encodes every metric family to w in the Prometheus text format.
func (r *Recorder) Write(w io.Writer) error {
	enc := expfmt.NewEncoder(w, Format)
	for _, mf := range r.Families() {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// ServeHTTP writes the current metrics.
func (r *Recorder) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", string(Format))
	if err := r.Write(w); err != nil {
		slog.Error("metrics: write failed", "err", err)
	}
}
