package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"healthbridge/internal/audit"
	"healthbridge/internal/grants/service"
	"healthbridge/internal/grants/store"
	identitystore "healthbridge/internal/identity/store"
	id "healthbridge/pkg/domain"
	"healthbridge/pkg/platform/httputil"
	"healthbridge/pkg/requestcontext"
	"healthbridge/pkg/testutil"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type HandlerSuite struct {
	suite.Suite
	router   chi.Router
	now      time.Time
	doctor   id.DoctorActor
	patient  id.PatientActor
	patient2 id.PatientActor
	hospital id.HospitalActor
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	directory := identitystore.NewInMemory()
	for _, p := range testutil.Patients() {
		s.Require().NoError(directory.SavePatient(context.Background(), p))
	}
	for _, d := range testutil.Doctors() {
		s.Require().NoError(directory.SaveDoctor(context.Background(), d))
	}
	svc := service.New(store.NewInMemory(), directory, audit.NewPublisher(audit.NewInMemoryStore()),
		service.WithLogger(logger),
		service.WithRoster(directory),
	)

	s.now = t0
	s.doctor = id.DoctorActor{ID: testutil.TestIDs.Doctor1, HospitalID: testutil.TestIDs.Hospital1}
	s.patient = id.PatientActor{ID: testutil.TestIDs.Patient1}
	s.patient2 = id.PatientActor{ID: testutil.TestIDs.Patient2}
	s.hospital = id.HospitalActor{ID: testutil.TestIDs.Hospital1}

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	s.router = r
}

// do sends a request as actor at the suite's current time. The actor and
// clock are placed in context the way the auth and requesttime middleware do.
func (s *HandlerSuite) do(actor id.Actor, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	ctx := requestcontext.WithTime(req.Context(), s.now)
	if actor != nil {
		ctx = requestcontext.WithActor(ctx, actor)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req.WithContext(ctx))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *HandlerSuite) createStandard(hours float64) StandardGrantResponse {
	w := s.do(s.doctor, http.MethodPost, "/access/requests", map[string]any{
		"patient_uid":    testutil.HealthUID1,
		"duration_hours": hours,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[StandardGrantResponse](s.T(), w)
}

func (s *HandlerSuite) TestStandardFlow() {
	created := s.createStandard(1)
	s.Equal("PENDING", created.Status)
	s.True(t0.Add(time.Hour).Equal(created.ExpiresAt))

	s.now = t0.Add(10 * time.Minute)
	w := s.do(s.patient, http.MethodPost, "/access/requests/"+created.ID+"/respond", map[string]string{"decision": "approve"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("APPROVED", decode[StandardGrantResponse](s.T(), w).Status)

	s.now = t0.Add(30 * time.Minute)
	w = s.do(s.doctor, http.MethodGet, "/access/check/"+testutil.HealthUID1, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	check := decode[AuthorizationResponse](s.T(), w)
	s.True(check.Allowed)
	s.Equal("STANDARD", check.Via)

	w = s.do(s.doctor, http.MethodGet, "/access/patient/"+testutil.HealthUID1, nil)
	s.Equal(http.StatusOK, w.Code)

	s.now = t0.Add(70 * time.Minute)
	w = s.do(s.doctor, http.MethodGet, "/access/check/"+testutil.HealthUID1, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.False(decode[AuthorizationResponse](s.T(), w).Allowed)

	w = s.do(s.doctor, http.MethodGet, "/access/patient/"+testutil.HealthUID1, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerSuite) TestRespondTwiceIsConflict() {
	created := s.createStandard(1)
	path := "/access/requests/" + created.ID + "/respond"

	w := s.do(s.patient, http.MethodPost, path, map[string]string{"decision": "APPROVE"})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(s.patient, http.MethodPost, path, map[string]string{"decision": "REJECT"})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("invalid_state", decode[httputil.ErrorResponse](s.T(), w).Error)
}

func (s *HandlerSuite) TestOwnershipIsForbidden() {
	created := s.createStandard(1)

	w := s.do(s.patient2, http.MethodPost, "/access/requests/"+created.ID+"/revoke", nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("not_authorized", decode[httputil.ErrorResponse](s.T(), w).Error)
}

func (s *HandlerSuite) TestEmergencyFlow() {
	w := s.do(s.doctor, http.MethodPost, "/access/emergency", map[string]string{
		"patient_uid": testutil.HealthUID1,
		"reason":      "unconscious, ER",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	grant := decode[EmergencyGrantResponse](s.T(), w)
	s.Equal("ACTIVE", grant.Status)
	s.Equal(testutil.TestIDs.Hospital1.String(), grant.HospitalID)

	w = s.do(s.hospital, http.MethodGet, "/hospital/active-access", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(decode[GrantListResponse](s.T(), w).Emergency, 1)

	s.now = t0.Add(time.Hour)
	w = s.do(s.patient, http.MethodPost, "/access/emergency/"+grant.ID+"/revoke", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("REVOKED", decode[EmergencyGrantResponse](s.T(), w).Status)

	w = s.do(s.doctor, http.MethodGet, "/access/check/"+testutil.HealthUID1, nil)
	s.False(decode[AuthorizationResponse](s.T(), w).Allowed)

	w = s.do(s.patient, http.MethodGet, "/audit/me", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(decode[AuditListResponse](s.T(), w).Entries, 2)
}

func (s *HandlerSuite) TestHospitalListingDescribesParties() {
	created := s.createStandard(2)
	w := s.do(s.patient, http.MethodPost, "/access/requests/"+created.ID+"/respond", map[string]string{"decision": "approve"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(s.doctor, http.MethodPost, "/access/emergency", map[string]string{
		"patient_uid": testutil.HealthUID2,
		"reason":      "trauma bay",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(s.hospital, http.MethodGet, "/hospital/active-access", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	list := decode[GrantListResponse](s.T(), w)

	s.Require().Len(list.Standard, 1)
	standard := list.Standard[0]
	s.Equal("CONSENT", standard.Type)
	s.Require().NotNil(standard.Doctor)
	s.Equal("DOC-0000001", standard.Doctor.DoctorUID)
	s.Equal("Dr. Test One", standard.Doctor.Name)
	s.Require().NotNil(standard.Patient)
	s.Equal(testutil.HealthUID1, standard.Patient.HealthUID)

	s.Require().Len(list.Emergency, 1)
	emergency := list.Emergency[0]
	s.Equal("EMERGENCY", emergency.Type)
	s.Require().NotNil(emergency.Doctor)
	s.Equal("Dr. Test One", emergency.Doctor.Name)
	s.Require().NotNil(emergency.Patient)
	s.Equal(testutil.HealthUID2, emergency.Patient.HealthUID)

	raw := w.Body.String()
	s.Contains(raw, `"doctor_uid":"DOC-0000001"`)
	s.Contains(raw, `"health_uid":"HB-TEST0002"`)
}

func (s *HandlerSuite) TestDoctorListingOmitsParties() {
	s.createStandard(1)

	w := s.do(s.doctor, http.MethodGet, "/doctor/accesses", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	list := decode[GrantListResponse](s.T(), w)
	s.Require().Len(list.Standard, 1)
	s.Equal("CONSENT", list.Standard[0].Type)
	s.Nil(list.Standard[0].Doctor)
	s.NotContains(w.Body.String(), `"doctor":`)
}

func (s *HandlerSuite) TestListingsReportEffectiveStatus() {
	s.createStandard(1)

	s.now = t0.Add(2 * time.Hour)
	w := s.do(s.patient, http.MethodGet, "/access/requests", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	list := decode[GrantListResponse](s.T(), w)
	s.Require().Len(list.Standard, 1)
	s.Equal("PENDING", list.Standard[0].Status)
	s.Equal("EXPIRED", list.Standard[0].EffectiveStatus)
	s.NotNil(list.Emergency, "empty lists encode as []")

	w = s.do(s.doctor, http.MethodGet, "/doctor/accesses", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Len(decode[GrantListResponse](s.T(), w).Standard, 1)
}

func (s *HandlerSuite) TestRejections() {
	tests := []struct {
		name   string
		actor  id.Actor
		method string
		path   string
		body   any
		status int
	}{
		{"wrong role", s.patient, http.MethodPost, "/access/requests", map[string]any{"patient_uid": testutil.HealthUID1, "duration_hours": 1}, http.StatusForbidden},
		{"duration too long", s.doctor, http.MethodPost, "/access/requests", map[string]any{"patient_uid": testutil.HealthUID1, "duration_hours": 48}, http.StatusBadRequest},
		{"duration missing", s.doctor, http.MethodPost, "/access/requests", map[string]any{"patient_uid": testutil.HealthUID1}, http.StatusBadRequest},
		{"malformed identifier", s.doctor, http.MethodPost, "/access/requests", map[string]any{"patient_uid": "patient-1", "duration_hours": 1}, http.StatusBadRequest},
		{"unknown patient", s.doctor, http.MethodPost, "/access/requests", map[string]any{"patient_uid": "HB-ZZZZZZZZ", "duration_hours": 1}, http.StatusNotFound},
		{"unknown field", s.doctor, http.MethodPost, "/access/requests", map[string]any{"patient_uid": testutil.HealthUID1, "duration_hours": 1, "extra": true}, http.StatusBadRequest},
		{"blank reason", s.doctor, http.MethodPost, "/access/emergency", map[string]any{"patient_uid": testutil.HealthUID1, "reason": "  "}, http.StatusBadRequest},
		{"bad decision", s.patient, http.MethodPost, "/access/requests/" + id.NewGrantID().String() + "/respond", map[string]any{"decision": "maybe"}, http.StatusBadRequest},
		{"bad grant id", s.patient, http.MethodPost, "/access/requests/not-a-uuid/revoke", nil, http.StatusBadRequest},
		{"unknown grant", s.patient, http.MethodPost, "/access/requests/" + id.NewGrantID().String() + "/revoke", nil, http.StatusNotFound},
		{"hospital listing as doctor", s.doctor, http.MethodGet, "/hospital/active-access", nil, http.StatusForbidden},
		{"no actor", nil, http.MethodGet, "/access/requests", nil, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			w := s.do(tc.actor, tc.method, tc.path, tc.body)
			assert.Equal(s.T(), tc.status, w.Code, w.Body.String())
		})
	}
}
