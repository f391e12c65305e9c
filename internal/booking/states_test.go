package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusCheckedIn},
		{StatusConfirmed, StatusCancelled},
		{StatusConfirmed, StatusCompleted},
		{StatusCheckedIn, StatusCheckedOut},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s should be allowed", tr[0], tr[1])
	}

	forbidden := [][2]string{
		{StatusPending, StatusCheckedIn},
		{StatusPending, StatusCompleted},
		{StatusCheckedIn, StatusCancelled},
		{StatusCancelled, StatusConfirmed},
		{StatusCompleted, StatusCheckedIn},
		{StatusCheckedOut, StatusCheckedIn},
		{StatusConfirmed, StatusPending},
	}
	for _, tr := range forbidden {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s -> %s should be forbidden", tr[0], tr[1])
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(StatusCancelled))
	assert.True(t, Terminal(StatusCompleted))
	assert.True(t, Terminal(StatusCheckedOut))

	assert.False(t, Terminal(StatusPending))
	assert.False(t, Terminal(StatusConfirmed))
	assert.False(t, Terminal(StatusCheckedIn))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		StatusPending, StatusConfirmed, StatusCancelled,
		StatusCompleted, StatusCheckedIn, StatusCheckedOut,
	} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("Pending"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("archived"))
}
