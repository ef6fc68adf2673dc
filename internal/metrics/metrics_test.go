package metrics

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/pinsetter/pinsetter/pkg/bowling"
)

// parse decodes Prometheus text into metric families, failing on error.
func parse(t *testing.T, r io.Reader) map[string]*dto.MetricFamily {
	t.Helper()
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil {
		t.Fatalf("parse prometheus text: %v", err)
	}
	return mfs
}

// sumFamily adds up all counter values in mf; 0 if mf is nil.
func sumFamily(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		total += m.GetCounter().GetValue()
	}
	return total
}

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()
	for _, th := range []bowling.Throw{bowling.Strike, bowling.Seven, bowling.Spare, bowling.Strike} {
		r.ObserveThrow(th)
	}
	r.ObserveRejected(fmt.Errorf("frame 2: %w", bowling.ErrInvalidThrow))
	r.ObserveRejected(bowling.ErrInvalidThrow)
	r.ObserveRejected(bowling.ErrThrowsExceeded)

	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	mfs := parse(t, &buf)

	tests := []struct {
		name string
		want float64
	}{
		{"pinsetter_throws_total", 4},
		{"pinsetter_strikes_total", 2},
		{"pinsetter_spares_total", 1},
		{"pinsetter_games_completed_total", 0},
		{"pinsetter_throws_rejected_total", 3},
	}
	for _, tc := range tests {
		if got := sumFamily(mfs[tc.name]); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}

	byReason := map[string]float64{}
	for _, m := range mfs["pinsetter_throws_rejected_total"].GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "reason" {
				byReason[lp.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	if byReason[ReasonInvalidThrow] != 2 || byReason[ReasonThrowsExceeded] != 1 {
		t.Errorf("rejections by reason: got %v", byReason)
	}
}

func TestRecorder_NoRejectionsOmitsFamily(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRecorder().Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if strings.Contains(buf.String(), "throws_rejected_total") {
		t.Errorf("empty rejection family written:\n%s", buf.String())
	}
}

func TestRecorder_ScoreHistogram(t *testing.T) {
	r := NewRecorder()
	for _, score := range []int{0, 150, 167, 300} {
		r.ObserveGame(score)
	}

	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	mfs := parse(t, &buf)

	if got := sumFamily(mfs["pinsetter_games_completed_total"]); got != 4 {
		t.Errorf("games_completed_total: got %v, want 4", got)
	}

	mf := mfs["pinsetter_final_score"]
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("final_score family missing or malformed: %v", mf)
	}
	h := mf.GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 4 {
		t.Errorf("sample count: got %d, want 4", h.GetSampleCount())
	}
	if h.GetSampleSum() != 617 {
		t.Errorf("sample sum: got %v, want 617", h.GetSampleSum())
	}

	want := map[float64]uint64{0: 1, 120: 1, 150: 2, 180: 3, 270: 3, 300: 4}
	for _, b := range h.GetBucket() {
		if w, ok := want[b.GetUpperBound()]; ok && b.GetCumulativeCount() != w {
			t.Errorf("bucket le=%v: got %d, want %d", b.GetUpperBound(), b.GetCumulativeCount(), w)
		}
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrapped: %w", bowling.ErrInvalidThrow), ReasonInvalidThrow},
		{bowling.ErrThrowsExceeded, ReasonThrowsExceeded},
		{bowling.ErrPrematureScore, ReasonOther},
	}
	for _, tc := range tests {
		if got := Reason(tc.err); got != tc.want {
			t.Errorf("Reason(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestRecorder_ServeHTTP(t *testing.T) {
	r := NewRecorder()
	r.ObserveThrow(bowling.Strike)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type: got %q", ct)
	}
	mfs := parse(t, rec.Body)
	if got := sumFamily(mfs["pinsetter_strikes_total"]); got != 1 {
		t.Errorf("strikes_total: got %v, want 1", got)
	}
}
