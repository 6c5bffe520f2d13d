package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ComplaintStatus
		allowed  bool
	}{
		{StatusSubmitted, StatusInProgress, true},
		{StatusSubmitted, StatusCancelled, true},
		{StatusSubmitted, StatusResolved, false},
		{StatusSubmitted, StatusClosed, false},
		{StatusInProgress, StatusAwaitingInfo, true},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusSubmitted, false},
		{StatusAwaitingInfo, StatusInProgress, true},
		{StatusAwaitingInfo, StatusResolved, true},
		{StatusAwaitingInfo, StatusClosed, true},
		{StatusAwaitingInfo, StatusCancelled, true},
		{StatusResolved, StatusClosed, true},
		{StatusResolved, StatusInProgress, false},
		{StatusClosed, StatusInProgress, false},
		{StatusClosed, StatusResolved, false},
		{StatusCancelled, StatusSubmitted, false},
		{StatusCancelled, StatusInProgress, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("AwaitingInfo")
	assert.True(t, ok)
	assert.Equal(t, StatusAwaitingInfo, status)

	_, ok = ParseStatus("awaitinginfo")
	assert.False(t, ok)
	_, ok = ParseStatus("Open")
	assert.False(t, ok)
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusResolved.Terminal())
	assert.True(t, StatusClosed.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusSubmitted.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.False(t, StatusAwaitingInfo.Terminal())
}

func TestPriorityAtLeast(t *testing.T) {
	assert.True(t, PriorityUrgent.AtLeast(PriorityHigh))
	assert.True(t, PriorityHigh.AtLeast(PriorityHigh))
	assert.False(t, PriorityNormal.AtLeast(PriorityHigh))
	assert.False(t, PriorityLow.AtLeast(PriorityNormal))
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleSupervisor))
	assert.True(t, RoleSupervisor.AtLeast(RoleAgent))
	assert.True(t, RoleAgent.AtLeast(RoleAgent))
	assert.False(t, RolePassenger.AtLeast(RoleAgent))
	assert.True(t, RolePassenger.AtLeast(RolePassenger))
}
