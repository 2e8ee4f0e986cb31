package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMillisRoundTrip(t *testing.T) {
	ts := time.Date(2024, 5, 2, 10, 30, 15, 123_000_000, time.FixedZone("X", 3600))

	ms := ToMillis(ts)
	back := FromMillis(ms)

	assert.True(t, ts.Equal(back))
	assert.Equal(t, time.UTC, back.Location())
	assert.Equal(t, int64(0), ToMillis(time.Time{}))
	assert.True(t, FromMillis(0).IsZero())
}

func TestMillisPtr(t *testing.T) {
	assert.Nil(t, ToMillisPtr(nil))
	assert.Nil(t, FromMillisPtr(nil))

	ts := NowUTC()
	got := FromMillisPtr(ToMillisPtr(&ts))
	if assert.NotNil(t, got) {
		assert.True(t, ts.Equal(*got))
	}
}
