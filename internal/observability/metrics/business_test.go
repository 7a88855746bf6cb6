package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordListingRead(t *testing.T) {
	before := testutil.ToFloat64(ListingReadsTotal.WithLabelValues("featured", ReadSuccess))
	RecordListingRead("featured", ReadSuccess)
	assert.Equal(t, before+1, testutil.ToFloat64(ListingReadsTotal.WithLabelValues("featured", ReadSuccess)))
}

func TestRecordListingFallback(t *testing.T) {
	fallbacks := testutil.ToFloat64(ListingFallbacksTotal.WithLabelValues("community", "empty"))
	reads := testutil.ToFloat64(ListingReadsTotal.WithLabelValues("community", ReadFallback))

	RecordListingFallback("community", "empty")

	assert.Equal(t, fallbacks+1, testutil.ToFloat64(ListingFallbacksTotal.WithLabelValues("community", "empty")))
	assert.Equal(t, reads+1, testutil.ToFloat64(ListingReadsTotal.WithLabelValues("community", ReadFallback)))
}

func TestRecordWarmupRun(t *testing.T) {
	success := testutil.ToFloat64(WarmupRunsTotal.WithLabelValues("success"))
	failure := testutil.ToFloat64(WarmupRunsTotal.WithLabelValues("failure"))

	RecordWarmupRun(time.Second, nil)
	RecordWarmupRun(time.Second, errors.New("db down"))

	assert.Equal(t, success+1, testutil.ToFloat64(WarmupRunsTotal.WithLabelValues("success")))
	assert.Equal(t, failure+1, testutil.ToFloat64(WarmupRunsTotal.WithLabelValues("failure")))
	assert.Greater(t, testutil.ToFloat64(WarmupLastSuccess), float64(0))
}

func TestRecordWarmupKey(t *testing.T) {
	before := testutil.ToFloat64(WarmupKeysTotal.WithLabelValues("listings:slug", "failure"))
	RecordWarmupKey("listings:slug", errors.New("timeout"))
	assert.Equal(t, before+1, testutil.ToFloat64(WarmupKeysTotal.WithLabelValues("listings:slug", "failure")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/listings/:slug", "200"))
	assert.NotPanics(t, func() {
		RecordHTTPRequest("GET", "/api/listings/:slug", "200", 15*time.Millisecond, 512)
		RecordHTTPRequest("GET", "/api/listings/:slug", "200", 5*time.Millisecond, 0)
	})
	assert.Equal(t, before+2, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/listings/:slug", "200")))
}

func TestRecordDBQuery(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordDBQuery("list_featured", 3*time.Millisecond, nil)
		RecordDBQuery("list_featured", time.Second, errors.New("boom"))
	})
	assert.Equal(t, 2, testutil.CollectAndCount(DBQueryDuration))
}

func TestUpdateDBConnectionStats(t *testing.T) {
	UpdateDBConnectionStats(sql.DBStats{InUse: 3, Idle: 7, WaitCount: 11})

	assert.Equal(t, float64(3), testutil.ToFloat64(DBConnectionsActive))
	assert.Equal(t, float64(7), testutil.ToFloat64(DBConnectionsIdle))
	assert.Equal(t, float64(11), testutil.ToFloat64(DBConnectionWaits))
}
