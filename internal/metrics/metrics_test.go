package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMirrorInconsistenciesCounter(t *testing.T) {
	before := testutil.ToFloat64(MirrorInconsistencies.WithLabelValues("rename_category"))

	MirrorInconsistencies.WithLabelValues("rename_category").Inc()

	after := testutil.ToFloat64(MirrorInconsistencies.WithLabelValues("rename_category"))
	assert.Equal(t, before+1, after)
}

func TestTrackQuery(t *testing.T) {
	timer := TrackQuery("search")
	assert.NotNil(t, timer)

	d := timer.ObserveDuration()
	assert.GreaterOrEqual(t, d.Nanoseconds(), int64(0))
	assert.Equal(t, 1, testutil.CollectAndCount(QueryDuration))
}
