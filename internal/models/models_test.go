package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"1990-05-17"`), &d))
	assert.Equal(t, time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), d.Time)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1990-05-17"`, string(raw))

	assert.Error(t, json.Unmarshal([]byte(`"17/05/1990"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`19900517`), &d))
}

func TestDateScan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{"time", time.Date(1990, 5, 17, 15, 4, 5, 0, time.FixedZone("BRT", -3*60*60))},
		{"bytes", []byte("1990-05-17")},
		{"timestamp text", "1990-05-17 00:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.value))
			assert.Equal(t, "1990-05-17", d.String())
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestUserPasswordAndSanitize(t *testing.T) {
	u := &User{Name: "Ana", Email: "ana@clinic.test", Profile: RoleAdmin}
	require.NoError(t, u.SetPassword("secret123"))
	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))

	raw, err := json.Marshal(u.Sanitize())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.True(t, u.HasRole(RoleSecretaria, RoleAdmin))
	assert.False(t, u.HasRole(RoleMedico))
}

func TestAppointmentStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusAgendada.IsTerminal())
	assert.True(t, StatusRealizada.IsTerminal())
	assert.True(t, StatusCancelada.IsTerminal())
}

func TestBaseModelBeforeCreate(t *testing.T) {
	var b BaseModel
	require.NoError(t, b.BeforeCreate(nil))
	assert.Len(t, b.ID, 36)

	kept := BaseModel{ID: "fixed"}
	require.NoError(t, kept.BeforeCreate(nil))
	assert.Equal(t, "fixed", kept.ID)
}
