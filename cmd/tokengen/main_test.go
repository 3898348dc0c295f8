package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "healthbridge/internal/jwt_token"
	"healthbridge/internal/seeder"
)

func TestRun_DoctorTokenUsesSeededHospital(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"doctor", "--json"}, &out))

	var got tokenOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "DOCTOR", got.Role)

	claims, err := jwttoken.NewJWTService(devSigningKey, defaultIssuer, defaultAudience, defaultTokenTTL).ValidateToken(got.Token)
	require.NoError(t, err)
	assert.Equal(t, seeder.Doctors[0].ID.String(), claims.Subject)
	assert.Equal(t, seeder.Doctors[0].HospitalID.String(), claims.HospitalID)
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(nil, &out))
	assert.Error(t, run([]string{"nurse"}, &out))
	assert.Error(t, run([]string{"patient", "--id", "not-a-uuid"}, &out))
	assert.ErrorContains(t, run([]string{"doctor", "--id", "3f1c0000-0000-0000-0000-000000000009"}, &out), "--hospital-id")
}

func TestRun_Demo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"demo"}, &out))
	assert.Contains(t, out.String(), seeder.Patients[0].HealthUID)
}
