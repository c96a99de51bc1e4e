package devapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mogeshaue/Happy-Fox-sub000/core"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/entity"
	"github.com/Mogeshaue/Happy-Fox-sub000/core/role"
	"github.com/Mogeshaue/Happy-Fox-sub000/storage/database/dummy"
)

const secretKey = "s3cr3t"

func setup(t *testing.T) *Server {
	db, err := dummydb.Open(entity.AllTypes, Unique)
	require.NoError(t, err)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	return NewServer(Options{
		SecretKey:      secretKey,
		DisableReqLogs: true,
		DB:             db,
		Validate:       validate,
		Translator:     translator,
	})
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func getToken(t *testing.T, k role.Kind) string {
	token, err := role.GenerateToken(role.NewClaims("test", "1", "fox", k, time.Hour), []byte(secretKey))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data []byte) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func detail(t *testing.T, msg string) []byte {
	return marshalObj(t, map[string]string{"detail": msg})
}

func TestServer_auth(t *testing.T) {
	app := setup(t)
	admin := getToken(t, role.Admin)
	student := getToken(t, role.Student)
	mentor := getToken(t, role.Mentor)
	forbidden := detail(t, "You do not have permission to perform this action.")

	tests := []httpTest{
		{name: "health is public", method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "token required", method: http.MethodGet, path: "/courses", wantCode: http.StatusUnauthorized, wantData: detail(t, "missing or malformed jwt")},
		{name: "invalid token", method: http.MethodGet, path: "/courses", token: "lol", wantCode: http.StatusUnauthorized, wantData: detail(t, "invalid or expired jwt")},
		{name: "unknown type", method: http.MethodGet, path: "/planets", token: admin, wantCode: http.StatusNotFound, wantData: detail(t, "Not found.")},
		{name: "admin reads users", method: http.MethodGet, path: "/users", token: admin, wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{name: "student cannot read users", method: http.MethodGet, path: "/users", token: student, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "student reads courses", method: http.MethodGet, path: "/courses/", token: student, wantCode: http.StatusOK, wantData: []byte(`[]`)},
		{
			name: "student cannot create", method: http.MethodPost, path: "/courses", token: student,
			body: []byte(`{"name": "Intro", "description": "..."}`), wantCode: http.StatusForbidden, wantData: forbidden,
		},
		{name: "mentor cannot delete cohorts", method: http.MethodDelete, path: "/cohorts/1", token: mentor, wantCode: http.StatusForbidden, wantData: forbidden},
		{name: "mentor deletes teams", method: http.MethodDelete, path: "/teams/1", token: mentor, wantCode: http.StatusNotFound, wantData: detail(t, "Not found.")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestServer_entities(t *testing.T) {
	app := setup(t)
	admin := getToken(t, role.Admin)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req, rec := newAuthRequest(method, path, admin, []byte(body))
		app.ServeHTTP(rec, req)
		return rec
	}
	decode := func(rec *httptest.ResponseRecorder) entity.Entity {
		var e entity.Entity
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
		return e
	}

	rec := do(http.MethodPost, "/courses", `{"name": " Math ", "description": "Numbers", "extra": "dropped"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	course := decode(rec)
	assert.Equal(t, "1", course.Get("id"))
	assert.Equal(t, "Math", course.Get("name"))
	assert.NotContains(t, course, "extra")
	_, ok := course.CreatedAt()
	assert.True(t, ok)

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/courses", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name": ["this field is required"], "description": ["this field is required"]}`),
		},
		{
			name: "duplicate", method: http.MethodPost, path: "/courses", body: []byte(`{"name": "Math", "description": "again"}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"name": ["an entry with this name already exists"]}`),
		},
		{name: "bad json", method: http.MethodPost, path: "/courses", body: []byte(`[`), wantCode: http.StatusBadRequest, wantData: detail(t, "JSON parse error.")},
		{
			name: "unknown course", method: http.MethodPost, path: "/cohorts", body: []byte(`{"name": "C1", "course": 2}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"course": ["invalid pk \"2\" - object does not exist"]}`),
		},
		{
			name: "invalid date", method: http.MethodPost, path: "/cohorts", body: []byte(`{"name": "C1", "course": 1, "start_date": "01/02/2024"}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"start_date": ["enter a valid date (YYYY-MM-DD)"]}`),
		},
		{name: "cohort", method: http.MethodPost, path: "/cohorts", body: []byte(`{"name": "C1", "course": 1, "start_date": "2024-01-02"}`), wantCode: http.StatusCreated},
		{name: "retrieve", method: http.MethodGet, path: "/cohorts/1", wantCode: http.StatusOK},
		{name: "retrieve unknown", method: http.MethodGet, path: "/cohorts/9", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, do(tt.method, tt.path, string(tt.body)))
		})
	}

	rec = do(http.MethodPost, "/teams", `{"name": "Alpha", "cohort": "1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(http.MethodPost, "/invitations", `{"email": "fox@test.cd", "team": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	inv := decode(rec)
	assert.Equal(t, false, inv["accepted"])
	assert.Len(t, inv.Get("token"), 36)

	rec = do(http.MethodDelete, "/courses/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(http.MethodGet, "/courses", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}
