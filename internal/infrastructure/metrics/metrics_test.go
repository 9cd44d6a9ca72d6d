package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordEvent(t *testing.T) {
	before := testutil.ToFloat64(EventsTotal.WithLabelValues("lambda", "attached"))
	RecordEvent("lambda", "attached", 0.2)
	assert.Equal(t, before+1, testutil.ToFloat64(EventsTotal.WithLabelValues("lambda", "attached")))
}

func TestRecordStoreTransaction(t *testing.T) {
	before := testutil.ToFloat64(StoreTransactionsTotal.WithLabelValues("dynamodb", "conflict"))
	RecordStoreTransaction("dynamodb", "conflict", 0.01)
	assert.Equal(t, before+1, testutil.ToFloat64(StoreTransactionsTotal.WithLabelValues("dynamodb", "conflict")))
}
