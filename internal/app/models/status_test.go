package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatus_CanAdvanceTo(t *testing.T) {
	cases := []struct {
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusInProgress, StatusProcessing, true},
		{StatusProcessing, StatusReady, true},
		{StatusReady, StatusCompleted, true},

		// No skipping.
		{StatusPending, StatusProcessing, false},
		{StatusPending, StatusReady, false},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusReady, false},

		// No backward movement.
		{StatusInProgress, StatusPending, false},
		{StatusReady, StatusProcessing, false},
		{StatusCompleted, StatusReady, false},

		// Rejected is reachable from every non-terminal state.
		{StatusPending, StatusRejected, true},
		{StatusInProgress, StatusRejected, true},
		{StatusProcessing, StatusRejected, true},
		{StatusReady, StatusRejected, true},

		// Terminal states allow nothing.
		{StatusCompleted, StatusRejected, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusRejected, false},
		{StatusCompleted, StatusInProgress, false},

		// Self transitions are never legal.
		{StatusPending, StatusPending, false},
		{StatusProcessing, StatusProcessing, false},
	}

	for _, tc := range cases {
		got := tc.from.CanAdvanceTo(tc.to)
		assert.Equalf(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestRequestStatus_Successor(t *testing.T) {
	succ, ok := StatusPending.Successor()
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, succ)

	succ, ok = StatusReady.Successor()
	assert.True(t, ok)
	assert.Equal(t, StatusCompleted, succ)

	_, ok = StatusCompleted.Successor()
	assert.False(t, ok)

	_, ok = StatusRejected.Successor()
	assert.False(t, ok)
}

func TestParseRequestStatus(t *testing.T) {
	cases := []struct {
		in   string
		want RequestStatus
		ok   bool
	}{
		{"PENDING", StatusPending, true},
		{"pending", StatusPending, true},
		{"In Progress", StatusInProgress, true},
		{"IN_PROGRESS", StatusInProgress, true},
		{"in progress", StatusInProgress, true},
		{" Ready ", StatusReady, true},
		{"Rejected", StatusRejected, true},
		{"Cancelled", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRequestStatus(tc.in)
		assert.Equalf(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equalf(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestRequestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	for _, s := range []RequestStatus{StatusPending, StatusInProgress, StatusProcessing, StatusReady} {
		assert.Falsef(t, s.IsTerminal(), "%s", s)
	}
}

func TestRequest_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	overdue := &Request{Status: StatusInProgress, NeededByDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)}
	assert.True(t, overdue.Overdue(now))

	// Due today is not overdue until the day has passed.
	dueToday := &Request{Status: StatusPending, NeededByDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)}
	assert.False(t, dueToday.Overdue(now))

	future := &Request{Status: StatusPending, NeededByDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)}
	assert.False(t, future.Overdue(now))

	// Terminal requests are never overdue, regardless of the date.
	completed := &Request{Status: StatusCompleted, NeededByDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.False(t, completed.Overdue(now))
	rejected := &Request{Status: StatusRejected, NeededByDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.False(t, rejected.Overdue(now))
}

func TestRequest_IsAssignedTo(t *testing.T) {
	staffID := int64(7)
	r := &Request{AssignedStaffID: &staffID}
	assert.True(t, r.IsAssignedTo(7))
	assert.False(t, r.IsAssignedTo(8))

	unassigned := &Request{}
	assert.False(t, unassigned.IsAssignedTo(7))
}
