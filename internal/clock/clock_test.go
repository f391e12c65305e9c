package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("HOTEL", 5*3600)
	in := time.Date(2024, 6, 1, 23, 45, 12, 0, loc)

	got := DateOf(in)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestDateOfComparable(t *testing.T) {
	// Same calendar day expressed in two zones must compare equal.
	a := DateOf(time.Date(2024, 6, 1, 1, 0, 0, 0, time.FixedZone("X", 5*3600)))
	b := DateOf(time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC))
	assert.True(t, a.Equal(b))
}

func TestFixedOffsetToday(t *testing.T) {
	c := NewFixedOffset(5)

	now := c.Now()
	today := c.Today()

	require.Equal(t, DateOf(now), today)
	assert.Zero(t, today.Hour())
}
