package workorder

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	tenantID := uuid.New()
	wo := New(tenantID, "  Replace pump  ", "", "")

	require.Equal(t, tenantID, wo.TenantID())
	require.Equal(t, "Replace pump", wo.Title())
	require.Equal(t, StatusOpen, wo.Status())
	require.Equal(t, PriorityMedium, wo.Priority())
	require.Equal(t, ProgressModeDerived, wo.ProgressMode())
	require.True(t, wo.IsZero())
	require.True(t, wo.IsDerived())
}

func TestWithManualProgress(t *testing.T) {
	tenantID := uuid.New()

	manual := New(tenantID, "Manual", PriorityLow, ProgressModeManual)
	require.Equal(t, 60, manual.WithManualProgress(60).Progress())
	require.Equal(t, 100, manual.WithManualProgress(150).Progress())
	require.Equal(t, 0, manual.WithManualProgress(-5).Progress())

	derived := New(tenantID, "Derived", PriorityLow, ProgressModeDerived)
	require.Equal(t, 0, derived.WithManualProgress(60).Progress())
}

func TestWithProgressSnapshot(t *testing.T) {
	tenantID := uuid.New()
	wo := New(tenantID, "Derived", PriorityLow, ProgressModeDerived)

	now := time.Now()
	counters := TaskCounters{Total: 3, Completed: 3}
	updated := wo.WithProgressSnapshot(counters, 100, &now, &now)

	require.Equal(t, counters, updated.Counters())
	require.Equal(t, 100, updated.Progress())
	require.Equal(t, &now, updated.StartedAt())
	require.Equal(t, &now, updated.CompletedAt())
	// Value receiver: the original is untouched.
	require.Equal(t, 0, wo.Progress())
}

func TestTaskCountersValid(t *testing.T) {
	require.True(t, TaskCounters{}.Valid())
	require.True(t, TaskCounters{Total: 5, Completed: 2, InProgress: 2, Blocked: 1}.Valid())
	require.False(t, TaskCounters{Total: 2, Completed: 2, InProgress: 1}.Valid())
	require.False(t, TaskCounters{Total: 1, Completed: -1}.Valid())
}
