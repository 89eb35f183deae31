package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/autochroma/autochroma/internal/model"
)

func TestMetrics_RunLifecycle(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.JobStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeJobs))

	m.JobFinished(model.JobDone, 2*time.Second, true)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeJobs))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsFinished.WithLabelValues("done")))
}

func TestMetrics_QueuedCancelCountsWithoutGaugeDecrement(t *testing.T) {
	m := New(prometheus.NewRegistry())

	// A job canceled while queued never started.
	m.JobFinished(model.JobCanceled, 0, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsFinished.WithLabelValues("canceled")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeJobs))
}

func TestMetrics_LaunchFailure(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.JobFinished(model.JobError, 0, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsFinished.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeJobs))
}
