package jobs_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"pickingpacking/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type countingKicker struct {
	kicks atomic.Int32
}

func (k *countingKicker) Kick() {
	k.kicks.Add(1)
}

type MockJob struct {
	mock.Mock
}

func (m *MockJob) Name() string {
	return m.Called().String(0)
}

func (m *MockJob) Start() error {
	return m.Called().Error(0)
}

func (m *MockJob) Stop() {
	m.Called()
}

func TestControllerPassJob_KicksOnSchedule(t *testing.T) {
	kicker := &countingKicker{}
	job := jobs.NewControllerPassJob(kicker, "* * * * * *", nil)

	require.NoError(t, job.Start())
	defer job.Stop()

	assert.Eventually(t, func() bool { return kicker.kicks.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestControllerPassJob_InvalidSchedule(t *testing.T) {
	job := jobs.NewControllerPassJob(&countingKicker{}, "every now and then", nil)

	require.Error(t, job.Start())
}

func TestJobManager_StartFailureStopsStartedJobs(t *testing.T) {
	first := new(MockJob)
	first.On("Start").Return(nil).Once()
	first.On("Stop").Once()

	second := new(MockJob)
	second.On("Start").Return(errors.New("bad schedule")).Once()
	second.On("Name").Return("second")

	manager := jobs.NewJobManager(nil, first, second)
	err := manager.StartAll()

	require.ErrorContains(t, err, "failed to start second job")
	first.AssertExpectations(t)
	second.AssertExpectations(t)
	second.AssertNotCalled(t, "Stop")
}

func TestJobManager_StopAllInReverseOrder(t *testing.T) {
	var order []string
	first := new(MockJob)
	first.On("Start").Return(nil)
	first.On("Stop").Run(func(mock.Arguments) { order = append(order, "first") })
	second := new(MockJob)
	second.On("Start").Return(nil)
	second.On("Stop").Run(func(mock.Arguments) { order = append(order, "second") })

	manager := jobs.NewJobManager(nil, first, second)
	require.NoError(t, manager.StartAll())
	manager.StopAll()
	manager.StopAll()

	assert.Equal(t, []string{"second", "first"}, order)
}
