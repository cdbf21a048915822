package handlers

import (
	"net/http"
	"testing"
	"time"

	"clinic-scheduling-server/internal/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  *apperrors.Error
		want int
	}{
		{"unauthenticated", apperrors.ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"validation", apperrors.ErrUserWrongRole, http.StatusBadRequest},
		{"conflict", apperrors.ErrAppointmentConflict, http.StatusBadRequest},
		{"primary not found", apperrors.ErrAppointmentNotFound, http.StatusNotFound},
		{"referenced not found", apperrors.ErrReferencedDoctorNotFound, http.StatusBadRequest},
		{"unexpected", apperrors.Unexpected(nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestParseQueryTime(t *testing.T) {
	got, err := parseQueryTime("2025-01-01T10:00:00-03:00", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC), got)

	got, err = parseQueryTime("2025-01-01", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parseQueryTime("2025-01-01", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 23, 59, 59, int(999*time.Millisecond), time.UTC), got)

	_, err = parseQueryTime("01/01/2025", false)
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("6F1C2A3E-1111-4A2B-9C3D-0123456789AB")
	require.NoError(t, err)
	assert.Equal(t, "6f1c2a3e-1111-4a2b-9c3d-0123456789ab", id)

	_, err = parseID("42")
	assert.ErrorIs(t, err, apperrors.ErrInvalidID)
}
