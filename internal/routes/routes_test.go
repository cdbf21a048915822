package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/metrics"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/repository/repotest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
}

type testServer struct {
	t      *testing.T
	store  *repotest.Store
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := repotest.New()
	cfg := &config.Config{
		Origin:               "http://localhost:5173",
		Environment:          "test",
		JWTSecret:            "test-secret",
		JWTExpirationMinutes: 60,
	}
	router := NewRouter(Dependencies{
		Store:   store,
		Cfg:     cfg,
		Log:     logger.Discard(),
		Metrics: metrics.New(),
	})
	return &testServer{t: t, store: store, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decode(t, w)
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func (s *testServer) signup(name, email string, profile models.Role) map[string]interface{} {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": name, "email": email, "password": "secret123", "profile": profile,
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var user map[string]interface{}
	decodeData(s.t, w, &user)
	return user
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	env := decode(s.t, w)
	require.NotEmpty(s.t, env.Token)
	return env.Token
}

func TestSchedulingFlow(t *testing.T) {
	s := newTestServer(t)

	admin := s.signup("Admin", "admin@clinic.test", models.RoleAdmin)
	assert.Equal(t, "ADMIN", admin["profile"])
	assert.NotContains(t, admin, "password")
	token := s.login("admin@clinic.test")

	medico := s.signup("Dra. Helena", "helena@clinic.test", models.RoleMedico)

	w := s.do(http.MethodPost, "/api/pacientes", token, gin.H{
		"name": "João da Silva", "birthDate": "1985-07-20", "cpf": "12345678901",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var patient models.Patient
	decodeData(t, w, &patient)
	assert.Equal(t, "1985-07-20", patient.BirthDate.String())

	w = s.do(http.MethodPost, "/api/medicos", token, gin.H{
		"userId": medico["id"], "name": "Dra. Helena", "crm": "ABC123", "specialty": "Clínica geral",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var doctor models.Doctor
	decodeData(t, w, &doctor)

	booking := gin.H{
		"patientId":       patient.ID,
		"doctorId":        doctor.ID,
		"dateTime":        "2025-01-01T10:00:00Z",
		"appointmentType": "PRESENCIAL",
		"reason":          "Check-up anual",
	}
	w = s.do(http.MethodPost, "/api/consultas", token, booking)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var appointment models.Appointment
	decodeData(t, w, &appointment)
	assert.Equal(t, models.StatusAgendada, appointment.Status)

	w = s.do(http.MethodPost, "/api/consultas", token, booking)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "Já existe uma consulta")

	w = s.do(http.MethodPut, "/api/consultas/"+appointment.ID+"/cancelar", token, gin.H{"cancelReason": "Imprevisto"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cancelled models.Appointment
	decodeData(t, w, &cancelled)
	assert.Equal(t, models.StatusCancelada, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "Imprevisto", *cancelled.CancelReason)

	w = s.do(http.MethodPut, "/api/consultas/"+appointment.ID+"/cancelar", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "A consulta já está cancelada", decode(t, w).Message)

	w = s.do(http.MethodGet, "/api/consultas/"+appointment.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail models.AppointmentDetail
	decodeData(t, w, &detail)
	require.NotNil(t, detail.PatientName)
	require.NotNil(t, detail.DoctorName)
	assert.Equal(t, "João da Silva", *detail.PatientName)
	assert.Equal(t, "Dra. Helena", *detail.DoctorName)
	assert.Nil(t, detail.SecretaryName)
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.signup("Bia", "bia@clinic.test", models.RoleSecretaria)

	t.Run("duplicate email", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
			"name": "Bia 2", "email": "bia@clinic.test", "password": "secret123", "profile": "SECRETARIA",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "E-mail já cadastrado", decode(t, w).Message)
	})

	t.Run("short password", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
			"name": "Caio", "email": "caio@clinic.test", "password": "123", "profile": "ADMIN",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w).Message, "password")
	})

	t.Run("login failures look the same", func(t *testing.T) {
		wrong := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "bia@clinic.test", "password": "wrong-pass"})
		unknown := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@clinic.test", "password": "secret123"})
		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})

	t.Run("me", func(t *testing.T) {
		token := s.login("bia@clinic.test")
		w := s.do(http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var user map[string]interface{}
		decodeData(t, w, &user)
		assert.Equal(t, "bia@clinic.test", user["email"])
	})
}

func TestAuthorizationGate(t *testing.T) {
	s := newTestServer(t)
	s.signup("Doc", "doc@clinic.test", models.RoleMedico)
	medicoToken := s.login("doc@clinic.test")

	t.Run("missing token", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/pacientes", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token não informado", decode(t, w).Message)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/pacientes", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token inválido", decode(t, w).Message)
	})

	t.Run("any role may read", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/consultas", medicoToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})

	t.Run("only schedulers may write", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/consultas", medicoToken, gin.H{})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = s.do(http.MethodPut, "/api/consultas/"+"00000000-0000-0000-0000-000000000000"+"/cancelar", medicoToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRecordEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.signup("Sec", "sec@clinic.test", models.RoleSecretaria)
	token := s.login("sec@clinic.test")
	secUser := s.signup("Outra", "outra@clinic.test", models.RoleSecretaria)

	t.Run("invalid id", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/pacientes/123", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ID inválido", decode(t, w).Message)
	})

	t.Run("unknown patient", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/pacientes/6f1c2a3e-1111-4a2b-9c3d-0123456789ab", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Paciente não encontrado", decode(t, w).Message)
	})

	t.Run("patient update", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/pacientes", token, gin.H{"name": "Lia", "birthDate": "2000-01-02", "cpf": "98765432100"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var p models.Patient
		decodeData(t, w, &p)

		w = s.do(http.MethodPut, "/api/pacientes/"+p.ID, token, gin.H{"phone": "11988887777"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var updated models.Patient
		decodeData(t, w, &updated)
		assert.Equal(t, "Lia", updated.Name)
		require.NotNil(t, updated.Phone)
		assert.Equal(t, "11988887777", *updated.Phone)

		w = s.do(http.MethodPut, "/api/pacientes/"+p.ID, token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("patient validation", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/pacientes", token, gin.H{"name": "Sem CPF", "birthDate": "2000-01-02", "cpf": "123"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w).Message, "cpf")
	})

	t.Run("doctor with wrong role", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/medicos", token, gin.H{
			"userId": secUser["id"], "name": "X", "crm": "CRM1", "specialty": "Y",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("doctor with unknown user", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/medicos", token, gin.H{
			"userId": "6f1c2a3e-1111-4a2b-9c3d-0123456789ab", "name": "X", "crm": "CRM1", "specialty": "Y",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Usuário informado não existe", decode(t, w).Message)
	})

	t.Run("secretary lifecycle", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/secretaries", token, gin.H{
			"userId": secUser["id"], "fullName": "Outra Pessoa", "registration": "REG-01", "email": "outra@clinic.test",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var sec models.Secretary
		decodeData(t, w, &sec)

		w = s.do(http.MethodPost, "/api/secretaries", token, gin.H{
			"userId": secUser["id"], "fullName": "Outra Pessoa", "registration": "REG-02", "email": "outra@clinic.test",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(http.MethodGet, "/api/secretaries?fullName=PESSOA", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []models.Secretary
		decodeData(t, w, &list)
		require.Len(t, list, 1)
		assert.Equal(t, sec.ID, list[0].ID)

		w = s.do(http.MethodGet, "/api/secretaries/"+sec.ID, token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAppointmentEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.signup("Admin", "admin@clinic.test", models.RoleAdmin)
	token := s.login("admin@clinic.test")
	medico := s.signup("Dr. Rui", "rui@clinic.test", models.RoleMedico)

	w := s.do(http.MethodPost, "/api/pacientes", token, gin.H{"name": "Nina", "birthDate": "1970-10-10", "cpf": "11122233344"})
	require.Equal(t, http.StatusCreated, w.Code)
	var patient models.Patient
	decodeData(t, w, &patient)

	w = s.do(http.MethodPost, "/api/medicos", token, gin.H{"userId": medico["id"], "name": "Dr. Rui", "crm": "CRM-9", "specialty": "Ortopedia"})
	require.Equal(t, http.StatusCreated, w.Code)
	var doctor models.Doctor
	decodeData(t, w, &doctor)

	book := func(at string) models.Appointment {
		t.Helper()
		w := s.do(http.MethodPost, "/api/consultas", token, gin.H{
			"patientId": patient.ID, "doctorId": doctor.ID, "dateTime": at,
			"appointmentType": "TELECONSULTA", "reason": "Dor no joelho",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var a models.Appointment
		decodeData(t, w, &a)
		return a
	}

	first := book("2025-04-02T09:00:00Z")
	second := book("2025-04-01T09:00:00Z")

	t.Run("missing referenced patient", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/consultas", token, gin.H{
			"patientId": "6f1c2a3e-1111-4a2b-9c3d-0123456789ab", "doctorId": doctor.ID,
			"dateTime": "2025-04-03T09:00:00Z", "appointmentType": "PRESENCIAL", "reason": "x",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Paciente não encontrado", decode(t, w).Message)
	})

	t.Run("invalid appointment type", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/consultas", token, gin.H{
			"patientId": patient.ID, "doctorId": doctor.ID,
			"dateTime": "2025-04-03T09:00:00Z", "appointmentType": "DOMICILIAR", "reason": "x",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list is ordered and filtered", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/consultas?doctorId="+doctor.ID, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []models.Appointment
		decodeData(t, w, &list)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)

		w = s.do(http.MethodGet, "/api/consultas?startDate=2025-04-02&endDate=2025-04-02", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		decodeData(t, w, &list)
		require.Len(t, list, 1)
		assert.Equal(t, first.ID, list[0].ID)

		w = s.do(http.MethodGet, "/api/consultas?status=PENDENTE", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(http.MethodGet, "/api/consultas?patientId=abc", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "patientId inválido", decode(t, w).Message)
	})

	t.Run("reschedule", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/consultas/"+first.ID, token, gin.H{"dateTime": "2025-04-01T09:00:00Z"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(http.MethodPut, "/api/consultas/"+first.ID, token, gin.H{"dateTime": "2025-04-05T15:30:00Z"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var updated models.Appointment
		decodeData(t, w, &updated)
		assert.True(t, updated.DateTime.Equal(time.Date(2025, 4, 5, 15, 30, 0, 0, time.UTC)))
		assert.Equal(t, models.StatusAgendada, updated.Status)

		writes := s.store.Writes
		w = s.do(http.MethodPut, "/api/consultas/"+first.ID, token, gin.H{})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, writes, s.store.Writes)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		w := s.do(http.MethodPut, "/api/consultas/6f1c2a3e-1111-4a2b-9c3d-0123456789ab", token, gin.H{"reason": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("completed appointment cannot be cancelled", func(t *testing.T) {
		ctx := context.Background()
		a, err := s.store.Appointments().FindByID(ctx, second.ID)
		require.NoError(t, err)
		a.Status = models.StatusRealizada
		require.NoError(t, s.store.Appointments().Update(ctx, a))

		w := s.do(http.MethodPut, "/api/consultas/"+second.ID+"/cancelar", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Não é possível cancelar uma consulta já realizada", decode(t, w).Message)
	})

	t.Run("reason may be empty but not absent", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/consultas", token, gin.H{
			"patientId": patient.ID, "doctorId": doctor.ID,
			"dateTime": "2025-04-07T09:00:00Z", "appointmentType": "PRESENCIAL",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w).Message, "reason")

		w = s.do(http.MethodPost, "/api/consultas", token, gin.H{
			"patientId": patient.ID, "doctorId": doctor.ID,
			"dateTime": "2025-04-07T09:00:00Z", "appointmentType": "PRESENCIAL", "reason": "",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created models.Appointment
		decodeData(t, w, &created)
		assert.Equal(t, "", created.Reason)

		w = s.do(http.MethodPut, "/api/consultas/"+first.ID, token, gin.H{"reason": ""})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var updated models.Appointment
		decodeData(t, w, &updated)
		assert.Equal(t, "", updated.Reason)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	s.store.PingErr = errors.New("connection refused")
	w = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"DOWN"}`, w.Body.String())

	w = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
}
