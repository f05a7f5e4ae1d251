package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medrec/healthcare-api/internal/application"
	"github.com/medrec/healthcare-api/internal/infrastructure/inmem"
	"github.com/medrec/healthcare-api/internal/interface/middleware"
	"github.com/medrec/healthcare-api/pkg/helpers"
	"github.com/medrec/healthcare-api/pkg/rules"
)

func newAccountEngine() (*gin.Engine, *helpers.JWTManager) {
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	svc := application.NewAccountService(inmem.NewUserRepository(), jwt, nil, testLogger(), nil, false)
	h := NewAccountHandler(svc, testLogger(), "", false)

	engine := gin.New()
	api := engine.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/refresh", h.Refresh)

	auth := api.Group("/", middleware.Auth(nil, jwt))
	auth.POST("/logout", h.Logout)
	auth.GET("/profile", h.Profile)
	return engine, jwt
}

func TestRegisterOverHTTP(t *testing.T) {
	engine, _ := newAccountEngine()

	w, env := doJSON(t, engine, http.MethodPost, "/api/register", map[string]any{
		"username": "margo", "email": "margo@example.com", "password": "orbital-Wrench-9",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if env.Message != "User registered successfully" {
		t.Fatalf("message = %q", env.Message)
	}
	var data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.ID == "" || data.Username != "margo" {
		t.Fatalf("data = %+v", data)
	}
}

func TestRegisterBlankFieldsOverHTTP(t *testing.T) {
	engine, _ := newAccountEngine()

	w, env := doJSON(t, engine, http.MethodPost, "/api/register", map[string]any{
		"username": "", "email": "", "password": "",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	want := map[string][]string{
		"username": {rules.MsgUsernameRequired},
		"email":    {rules.MsgEmailRequired},
		"password": {rules.MsgPasswordRequired},
	}
	if !reflect.DeepEqual(env.fieldErrors(t), want) {
		t.Fatalf("error = %v, want %v", env.fieldErrors(t), want)
	}
}

func TestRegisterDuplicateOverHTTP(t *testing.T) {
	engine, _ := newAccountEngine()

	body := map[string]any{"username": "margo", "email": "margo@example.com", "password": "orbital-Wrench-9"}
	if w, _ := doJSON(t, engine, http.MethodPost, "/api/register", body); w.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", w.Code)
	}
	w, env := doJSON(t, engine, http.MethodPost, "/api/register", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d", w.Code)
	}
	want := map[string][]string{
		"username": {rules.MsgUsernameTaken},
		"email":    {rules.MsgEmailTaken},
	}
	if !reflect.DeepEqual(env.fieldErrors(t), want) {
		t.Fatalf("error = %v, want %v", env.fieldErrors(t), want)
	}
}

func TestLoginSetsCookiesAndProfileWorks(t *testing.T) {
	engine, _ := newAccountEngine()

	if w, _ := doJSON(t, engine, http.MethodPost, "/api/register", map[string]any{
		"username": "margo", "email": "margo@example.com", "password": "orbital-Wrench-9",
	}); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}

	w, _ := doJSON(t, engine, http.MethodPost, "/api/login", map[string]any{
		"email": "margo@example.com", "password": "orbital-Wrench-9",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}

	var access *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "access_token" && ck.Value != "" {
			access = ck
		}
	}
	if access == nil {
		t.Fatal("login did not set an access_token cookie")
	}
	if !access.HttpOnly {
		t.Fatal("access_token cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.AddCookie(access)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var profile struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if profile.Username != "margo" {
		t.Fatalf("profile = %+v", profile)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	engine, _ := newAccountEngine()

	if w, _ := doJSON(t, engine, http.MethodPost, "/api/register", map[string]any{
		"username": "margo", "email": "margo@example.com", "password": "orbital-Wrench-9",
	}); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}

	w, _ := doJSON(t, engine, http.MethodPost, "/api/login", map[string]any{
		"email": "margo@example.com", "password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine, jwt := newAccountEngine()

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no cookie status = %d, want 401", rec.Code)
	}

	// A token signed with the refresh secret must not pass as an access
	// token.
	refresh, _, err := jwt.GenerateRefreshToken("user-1", "sess-1")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: refresh})
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong-secret token status = %d, want 401", rec.Code)
	}
}
