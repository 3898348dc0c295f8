package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newStandard(t *testing.T, d time.Duration) *StandardGrant {
	t.Helper()
	g, err := NewStandardGrant(id.NewGrantID(), id.DoctorID(uuid.New()), id.HospitalID(uuid.New()), id.PatientID(uuid.New()), t0, d)
	require.NoError(t, err)
	return g
}

func TestNewStandardGrant(t *testing.T) {
	t.Run("starts pending with expiry from creation", func(t *testing.T) {
		g := newStandard(t, time.Hour)
		assert.Equal(t, StandardPending, g.Status)
		assert.Equal(t, t0.Add(time.Hour), g.ExpiresAt)
		assert.Nil(t, g.ApprovedAt)
	})

	for _, d := range []time.Duration{0, -time.Minute, 25 * time.Hour} {
		t.Run("rejects duration "+d.String(), func(t *testing.T) {
			_, err := NewStandardGrant(id.NewGrantID(), id.DoctorID(uuid.New()), id.HospitalID(uuid.New()), id.PatientID(uuid.New()), t0, d)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}

	t.Run("accepts exactly 24 hours", func(t *testing.T) {
		g := newStandard(t, MaxStandardDuration)
		assert.Equal(t, t0.Add(24*time.Hour), g.ExpiresAt)
	})
}

func TestStandardGrant_Lifecycle(t *testing.T) {
	g := newStandard(t, time.Hour)

	assert.True(t, g.CanRespond(t0.Add(10*time.Minute)))
	assert.False(t, g.CanRespond(t0.Add(time.Hour)), "expiry boundary is exclusive")
	assert.False(t, g.IsLive(t0.Add(10*time.Minute)), "pending grants never authorize")

	g.Approve(t0.Add(10 * time.Minute))
	require.NotNil(t, g.ApprovedAt)
	assert.Equal(t, t0.Add(10*time.Minute), *g.ApprovedAt)
	assert.True(t, g.IsLive(t0.Add(30*time.Minute)))
	assert.False(t, g.IsLive(t0.Add(70*time.Minute)))
	assert.Equal(t, StandardExpired, g.EffectiveStatus(t0.Add(70*time.Minute)))
	assert.False(t, g.CanRespond(t0.Add(20*time.Minute)))

	g.Revoke(t0.Add(20 * time.Minute))
	assert.Equal(t, StandardRevoked, g.EffectiveStatus(t0.Add(2*time.Hour)))
	assert.False(t, g.CanRevoke(t0.Add(21*time.Minute)))
}

func TestStandardGrant_StalePendingReportsExpired(t *testing.T) {
	g := newStandard(t, time.Hour)
	assert.Equal(t, StandardPending, g.EffectiveStatus(t0.Add(59*time.Minute)))
	assert.Equal(t, StandardExpired, g.EffectiveStatus(t0.Add(61*time.Minute)))
	assert.False(t, g.CanRevoke(t0.Add(61*time.Minute)))
}

func TestNewEmergencyGrant(t *testing.T) {
	doctor, hospital, patient := id.DoctorID(uuid.New()), id.HospitalID(uuid.New()), id.PatientID(uuid.New())

	g, err := NewEmergencyGrant(id.NewEmergencyGrantID(), doctor, hospital, patient, "unconscious, ER", t0, 0)
	require.NoError(t, err)
	assert.Equal(t, EmergencyActive, g.Status)
	assert.Equal(t, t0.Add(24*time.Hour), g.ExpiresAt)
	assert.True(t, g.IsLive(t0))
	assert.Equal(t, EmergencyExpired, g.EffectiveStatus(t0.Add(24*time.Hour)))

	g.Revoke(t0.Add(time.Hour))
	assert.False(t, g.IsLive(t0.Add(time.Hour)))
	assert.False(t, g.CanRevoke(t0.Add(time.Hour)))

	_, err = NewEmergencyGrant(id.NewEmergencyGrantID(), doctor, hospital, patient, "", t0, 0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestParseDecision(t *testing.T) {
	d, err := ParseDecision(" approve ")
	require.NoError(t, err)
	assert.Equal(t, DecisionApprove, d)

	_, err = ParseDecision("MAYBE")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
