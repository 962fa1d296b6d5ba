package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSubscriptionEvent(t *testing.T) {
	okBefore := testutil.ToFloat64(SubscriptionEvents.WithLabelValues(EventPaused, "ok"))
	rejectedBefore := testutil.ToFloat64(SubscriptionEvents.WithLabelValues(EventPaused, "rejected"))

	RecordSubscriptionEvent(EventPaused, nil)
	RecordSubscriptionEvent(EventPaused, errors.New("overlap"))
	RecordSubscriptionEvent(EventPaused, errors.New("overlap"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(SubscriptionEvents.WithLabelValues(EventPaused, "ok")))
	assert.Equal(t, rejectedBefore+2, testutil.ToFloat64(SubscriptionEvents.WithLabelValues(EventPaused, "rejected")))
}
