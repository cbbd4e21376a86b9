package telemetry

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/motion-engine/internal/condition"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/motion"
	"github.com/cxd309/motion-engine/internal/spline"
)

// Tests modify global Prometheus metrics and must not run in parallel.

func TestRecordTick(t *testing.T) {
	ticksTotal.Reset()

	RecordTick("stand_up")
	RecordTick("stand_up")
	RecordTick("")

	assert.Equal(t, 2.0, testutil.ToFloat64(ticksTotal.WithLabelValues("stand_up")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ticksTotal.WithLabelValues("unknown")))
}

func TestRecordTransition(t *testing.T) {
	transitionsTotal.Reset()

	RecordTransition("sit", "check_entry", "interpolating")
	RecordTransition("sit", "interpolating", "check_exit")

	assert.Equal(t, 2, testutil.CollectAndCount(transitionsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(transitionsTotal.WithLabelValues("sit", "check_entry", "interpolating")))
}

func TestRecordOutcome(t *testing.T) {
	outcomesTotal.Reset()
	motionDuration.Reset()

	RecordOutcome("sit", "aborted", 1500*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(outcomesTotal.WithLabelValues("sit", "aborted")))
	assert.Equal(t, 1, testutil.CollectAndCount(motionDuration))
}

func TestHandler(t *testing.T) {
	RecordTick("served")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `motion_ticks_total{motion="served"}`)
}

func TestPhaseObserver(t *testing.T) {
	ticksTotal.Reset()
	transitionsTotal.Reset()
	outcomesTotal.Reset()

	seg, err := spline.TryNewWithStart(kinematics.Scalar(0),
		[]spline.Keyframe[kinematics.Scalar]{{Duration: 500 * time.Millisecond, Positions: 1}},
		kinematics.Linear{})
	require.NoError(t, err)
	m, err := motion.New([]motion.ConditionedSegment[kinematics.Scalar]{{Segment: seg}})
	require.NoError(t, err)

	var buf bytes.Buffer
	obs := NewPhaseObserver[kinematics.Scalar]("wave", zerolog.New(&buf).Level(zerolog.DebugLevel), m.Phase())
	for !m.IsFinished() {
		m.AdvanceBy(250*time.Millisecond, condition.Input{})
		obs.Observe(250*time.Millisecond, m.Phase())
	}
	// Ticks after the outcome are ignored.
	obs.Observe(250*time.Millisecond, m.Phase())

	// Interpolating{0,0}, {0,250ms}, {0,500ms}, CheckExit, Finished.
	assert.Equal(t, 5.0, testutil.ToFloat64(ticksTotal.WithLabelValues("wave")))
	assert.Equal(t, 1250*time.Millisecond, obs.Elapsed())
	assert.Equal(t, 1.0, testutil.ToFloat64(transitionsTotal.WithLabelValues("wave", "check_entry", "interpolating")))
	assert.Equal(t, 1.0, testutil.ToFloat64(transitionsTotal.WithLabelValues("wave", "check_exit", "finished")))
	assert.Equal(t, 1.0, testutil.ToFloat64(outcomesTotal.WithLabelValues("wave", "finished")))
	assert.Contains(t, buf.String(), `"message":"motion stopped"`)
	assert.Equal(t, 3, strings.Count(buf.String(), `"message":"phase transition"`))
}
