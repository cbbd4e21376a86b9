package motion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/motion-engine/internal/condition"
	"github.com/cxd309/motion-engine/internal/kinematics"
	"github.com/cxd309/motion-engine/internal/spline"
)

type scalar = kinematics.Scalar

const tick = 250 * time.Millisecond

// gateStub is a discrete condition with a fixed verdict and an optional budget.
type gateStub struct {
	response condition.Response
	budget   condition.Budget
}

func (g gateStub) Evaluate(condition.Input) condition.Response { return g.response }

func (g gateStub) Timeout(elapsed time.Duration) condition.TimeOut { return g.budget.Timeout(elapsed) }

// interruptStub is a continuous condition whose verdict tests can flip.
type interruptStub struct {
	response condition.Response
	calls    int
}

func (i *interruptStub) Evaluate(condition.Input) condition.Response {
	i.calls++
	return i.response
}

func segment(t *testing.T, start scalar, frames ...spline.Keyframe[scalar]) Segment[scalar] {
	t.Helper()
	s, err := spline.TryNewWithStart(start, frames, kinematics.Linear{})
	require.NoError(t, err)
	return s
}

func kf(d time.Duration, p scalar) spline.Keyframe[scalar] {
	return spline.Keyframe[scalar]{Duration: d, Positions: p}
}

func newMachine(t *testing.T, frames ...ConditionedSegment[scalar]) *Machine[scalar] {
	t.Helper()
	m, err := New(frames)
	require.NoError(t, err)
	return m
}

func advance(m *Machine[scalar], ticks int) {
	for range ticks {
		m.AdvanceBy(tick, condition.Input{})
	}
}

func TestNewRejectsEmptyMotion(t *testing.T) {
	t.Parallel()

	_, err := New[scalar](nil)
	require.ErrorIs(t, err, ErrEmptyMotion)

	_, err = New([]ConditionedSegment[scalar]{{}})
	require.Error(t, err)
}

func TestInitialPhase(t *testing.T) {
	t.Parallel()

	m := newMachine(t, ConditionedSegment[scalar]{Segment: segment(t, 0, kf(time.Second, 10))})
	assert.Equal(t, Phase[scalar](CheckEntry{}), m.Phase())
	assert.Equal(t, scalar(0), m.Value())
	assert.False(t, m.IsFinished())
	assert.Equal(t, StatusRunning, m.Status())
}

func TestSingleSegmentWithoutConditions(t *testing.T) {
	t.Parallel()

	m := newMachine(t, ConditionedSegment[scalar]{Segment: segment(t, 0, kf(time.Second, 10))})

	steps := []struct {
		phase Phase[scalar]
		value scalar
	}{
		{Interpolating{FrameIndex: 0, Elapsed: 0}, 0},
		{Interpolating{FrameIndex: 0, Elapsed: 250 * time.Millisecond}, 2.5},
		{Interpolating{FrameIndex: 0, Elapsed: 500 * time.Millisecond}, 5},
		{Interpolating{FrameIndex: 0, Elapsed: 750 * time.Millisecond}, 7.5},
		{Interpolating{FrameIndex: 0, Elapsed: time.Second}, 10},
		{CheckExit{FrameIndex: 0, Elapsed: 0}, 10},
		{Finished{}, 10},
	}

	for i, step := range steps {
		m.AdvanceBy(tick, condition.Input{})
		require.Equal(t, step.phase, m.Phase(), "after tick %d", i+1)
		require.Equal(t, step.value, m.Value(), "after tick %d", i+1)
	}

	assert.True(t, m.IsFinished())
	assert.False(t, m.IsAborted())
	assert.Equal(t, StatusFinished, m.Status())

	advance(m, 3)
	assert.Equal(t, Phase[scalar](Finished{}), m.Phase(), "finished is terminal")
	assert.Equal(t, scalar(10), m.Value())
}

func TestEntryTimeoutAborts(t *testing.T) {
	t.Parallel()

	budget := 2 * time.Second
	m := newMachine(t, ConditionedSegment[scalar]{
		EntryCondition: gateStub{response: condition.Wait, budget: condition.Budget{Limit: &budget}},
		Segment:        segment(t, 3, kf(time.Second, 10)),
	})

	m.AdvanceBy(time.Second, condition.Input{})
	assert.Equal(t, Phase[scalar](CheckEntry{FrameIndex: 0, Elapsed: time.Second}), m.Phase())

	m.AdvanceBy(time.Second, condition.Input{})
	assert.Equal(t, Phase[scalar](CheckEntry{FrameIndex: 0, Elapsed: 2 * time.Second}), m.Phase())

	m.AdvanceBy(time.Second, condition.Input{})
	assert.Equal(t, Phase[scalar](Aborted[scalar]{Position: 3}), m.Phase())
	assert.True(t, m.IsFinished())
	assert.True(t, m.IsAborted())
	assert.Equal(t, scalar(3), m.Value())
}

func TestGatingWaitAccumulatesElapsed(t *testing.T) {
	t.Parallel()

	t.Run("entry", func(t *testing.T) {
		t.Parallel()

		m := newMachine(t, ConditionedSegment[scalar]{
			EntryCondition: gateStub{response: condition.Wait},
			Segment:        segment(t, 0, kf(time.Second, 10)),
		})
		for i := 1; i <= 5; i++ {
			m.AdvanceBy(tick, condition.Input{})
			require.Equal(t, Phase[scalar](CheckEntry{FrameIndex: 0, Elapsed: time.Duration(i) * tick}), m.Phase())
			require.Equal(t, scalar(0), m.Value())
		}
	})

	t.Run("exit", func(t *testing.T) {
		t.Parallel()

		m := newMachine(t, ConditionedSegment[scalar]{
			Segment:       segment(t, 0, kf(tick, 10)),
			ExitCondition: gateStub{response: condition.Wait},
		})
		advance(m, 3)
		require.Equal(t, Phase[scalar](CheckExit{FrameIndex: 0}), m.Phase())

		for i := 1; i <= 5; i++ {
			m.AdvanceBy(tick, condition.Input{})
			require.Equal(t, Phase[scalar](CheckExit{FrameIndex: 0, Elapsed: time.Duration(i) * tick}), m.Phase())
			require.Equal(t, scalar(10), m.Value())
		}
	})
}

func TestExitAbortFreezesEndPosition(t *testing.T) {
	t.Parallel()

	m := newMachine(t, ConditionedSegment[scalar]{
		Segment:       segment(t, 0, kf(tick, 10)),
		ExitCondition: gateStub{response: condition.Abort},
	})
	advance(m, 4)
	assert.Equal(t, Phase[scalar](Aborted[scalar]{Position: 10}), m.Phase())
}

func TestInterruptWaitFreezesWholeTick(t *testing.T) {
	t.Parallel()

	interrupt := &interruptStub{response: condition.Continue}
	m := newMachine(t, ConditionedSegment[scalar]{
		EntryCondition:   gateStub{response: condition.Continue},
		MotionInterrupts: []condition.Continuous{interrupt},
		Segment:          segment(t, 0, kf(time.Second, 10)),
		ExitCondition:    gateStub{response: condition.Wait},
	})

	// Stall in every phase the segment owns: entry check, interpolation, exit check.
	stallFor := func(ticks int) {
		interrupt.response = condition.Wait
		before := m.Phase()
		value := m.Value()
		for range ticks {
			m.AdvanceBy(tick, condition.Input{})
			require.Equal(t, before, m.Phase())
			require.Equal(t, value, m.Value())
		}
		interrupt.response = condition.Continue
	}

	stallFor(3)
	advance(m, 1)
	require.Equal(t, Phase[scalar](Interpolating{}), m.Phase())

	advance(m, 2)
	require.Equal(t, Phase[scalar](Interpolating{Elapsed: 2 * tick}), m.Phase())
	stallFor(4)
	advance(m, 1)
	require.Equal(t, Phase[scalar](Interpolating{Elapsed: 3 * tick}), m.Phase())

	advance(m, 3)
	require.Equal(t, Phase[scalar](CheckExit{Elapsed: tick}), m.Phase())
	stallFor(2)
	advance(m, 1)
	require.Equal(t, Phase[scalar](CheckExit{Elapsed: 2 * tick}), m.Phase())
}

func TestInterruptAbortRecordsPriorValue(t *testing.T) {
	t.Parallel()

	interrupt := &interruptStub{response: condition.Continue}
	m := newMachine(t, ConditionedSegment[scalar]{
		MotionInterrupts: []condition.Continuous{&interruptStub{response: condition.Wait}, interrupt},
		Segment:          segment(t, 0, kf(time.Second, 10)),
	})

	// A Wait interrupt stalls the motion until the other one aborts it.
	advance(m, 2)
	require.Equal(t, Phase[scalar](CheckEntry{}), m.Phase())

	m.frames[0].MotionInterrupts[0] = &interruptStub{response: condition.Continue}
	advance(m, 3)
	require.Equal(t, Phase[scalar](Interpolating{Elapsed: 2 * tick}), m.Phase())
	prior := m.Value()
	require.Equal(t, scalar(5), prior)

	interrupt.response = condition.Abort
	m.AdvanceBy(tick, condition.Input{})
	assert.Equal(t, Phase[scalar](Aborted[scalar]{Position: prior}), m.Phase())
	assert.Equal(t, StatusAborted, m.Status())

	interrupt.response = condition.Continue
	advance(m, 5)
	assert.Equal(t, Phase[scalar](Aborted[scalar]{Position: prior}), m.Phase())
	assert.Equal(t, prior, m.Value())
}

func TestInterruptsEvaluatedOnlyForActiveSegment(t *testing.T) {
	t.Parallel()

	first := &interruptStub{response: condition.Continue}
	second := &interruptStub{response: condition.Continue}
	m := newMachine(t,
		ConditionedSegment[scalar]{MotionInterrupts: []condition.Continuous{first}, Segment: segment(t, 0, kf(tick, 1))},
		ConditionedSegment[scalar]{MotionInterrupts: []condition.Continuous{second}, Segment: segment(t, 1, kf(tick, 2))},
	)

	advance(m, 4) // CheckEntry, Interpolating x2, CheckExit of the first segment
	assert.Equal(t, 4, first.calls)
	assert.Equal(t, 0, second.calls)

	advance(m, 10)
	require.True(t, m.IsFinished())
	assert.Equal(t, 4, second.calls, "interrupts are inert once finished")
}

func TestSequencingVisitsEveryPhaseInOrder(t *testing.T) {
	t.Parallel()

	durations := []time.Duration{500 * time.Millisecond, time.Second, tick}
	frames := make([]ConditionedSegment[scalar], len(durations))
	var total time.Duration
	for i, d := range durations {
		frames[i] = ConditionedSegment[scalar]{Segment: segment(t, scalar(i), kf(d, scalar(i+1)))}
		total += d
	}
	m := newMachine(t, frames...)

	type visit struct {
		name  string
		frame int
	}
	var visits []visit
	record := func() {
		index, _ := FrameIndex[scalar](m.Phase())
		v := visit{m.Phase().Name(), index}
		if len(visits) == 0 || visits[len(visits)-1] != v {
			visits = append(visits, v)
		}
	}

	record()
	var elapsed time.Duration
	for !m.IsFinished() {
		m.AdvanceBy(tick, condition.Input{})
		elapsed += tick
		record()
		require.Less(t, elapsed, time.Minute, "machine never finished")
	}

	want := []visit{}
	for i := range durations {
		want = append(want,
			visit{"check_entry", i},
			visit{"interpolating", i},
			visit{"check_exit", i},
		)
	}
	want = append(want, visit{"finished", 0})

	assert.Equal(t, want, visits)
	assert.Greater(t, elapsed, total)
	assert.Equal(t, StatusFinished, m.Status())
	assert.Equal(t, scalar(3), m.Value())
}

func TestValueIsIdempotent(t *testing.T) {
	t.Parallel()

	m := newMachine(t, ConditionedSegment[scalar]{Segment: segment(t, 0, kf(time.Second, 10))})
	for range 8 {
		assert.Equal(t, m.Value(), m.Value())
		assert.Equal(t, m.Phase(), m.Phase())
		m.AdvanceBy(tick, condition.Input{})
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	t.Run("from finished", func(t *testing.T) {
		t.Parallel()

		m := newMachine(t, ConditionedSegment[scalar]{Segment: segment(t, 0, kf(tick, 10))})
		advance(m, 10)
		require.Equal(t, StatusFinished, m.Status())

		m.Reset()
		assert.Equal(t, Phase[scalar](CheckEntry{}), m.Phase())
		assert.Equal(t, scalar(0), m.Value())
	})

	t.Run("from aborted", func(t *testing.T) {
		t.Parallel()

		m := newMachine(t, ConditionedSegment[scalar]{
			EntryCondition: gateStub{response: condition.Abort},
			Segment:        segment(t, 0, kf(tick, 10)),
		})
		advance(m, 1)
		require.Equal(t, StatusAborted, m.Status())

		m.Reset()
		assert.Equal(t, Phase[scalar](CheckEntry{}), m.Phase())
	})

	t.Run("mid motion", func(t *testing.T) {
		t.Parallel()

		m := newMachine(t, ConditionedSegment[scalar]{Segment: segment(t, 0, kf(time.Second, 10))})
		advance(m, 3)
		m.Reset()
		assert.Equal(t, Phase[scalar](CheckEntry{}), m.Phase())

		// Replays identically.
		advance(m, 3)
		assert.Equal(t, Phase[scalar](Interpolating{Elapsed: 2 * tick}), m.Phase())
	})
}

func TestSetInitialPositions(t *testing.T) {
	t.Parallel()

	m := newMachine(t,
		ConditionedSegment[scalar]{Segment: segment(t, 0, kf(time.Second, 10))},
		ConditionedSegment[scalar]{Segment: segment(t, 10, kf(time.Second, 20))},
	)
	m.SetInitialPositions(4)

	assert.Equal(t, scalar(4), m.Value())
	assert.Equal(t, scalar(4), m.Frame(0).Segment.StartPosition())
	assert.Equal(t, scalar(10), m.Frame(0).Segment.EndPosition())
	assert.Equal(t, scalar(10), m.Frame(1).Segment.StartPosition())

	advance(m, 3)
	assert.Equal(t, scalar(7), m.Value())
}

func TestPhaseHelpers(t *testing.T) {
	t.Parallel()

	index, ok := FrameIndex[scalar](CheckExit{FrameIndex: 2, Elapsed: tick})
	assert.True(t, ok)
	assert.Equal(t, 2, index)
	assert.Equal(t, tick, ElapsedIn[scalar](CheckExit{FrameIndex: 2, Elapsed: tick}))

	_, ok = FrameIndex[scalar](Finished{})
	assert.False(t, ok)
	_, ok = FrameIndex[scalar](Aborted[scalar]{Position: 1})
	assert.False(t, ok)

	assert.Equal(t, "Interpolating{1, 250ms}", Interpolating{FrameIndex: 1, Elapsed: tick}.String())
	assert.Equal(t, "Aborted{2.5}", Aborted[scalar]{Position: 2.5}.String())
	assert.Equal(t, "aborted", StatusAborted.String())

	assert.Equal(t, StatusRunning, StatusOf[scalar](CheckEntry{}))
	assert.Equal(t, StatusFinished, StatusOf[scalar](Finished{}))
	assert.Equal(t, StatusAborted, StatusOf[scalar](Aborted[scalar]{Position: 1}))
	assert.Equal(t, StatusRunning, StatusOf[scalar](Aborted[kinematics.Joints]{}))
}
