package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/iliyamo/streaming-catalog/internal/utils"
)

const secret = "mw-secret"

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s stubRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], s.err
}

func serve(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/favorites", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	if err != nil {
		t.Fatalf("middleware returned %v", err)
	}
	return rec, c
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	log, _ := test.NewNullLogger()
	tok, err := utils.NewAccessToken(secret, 7, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	rec, c := serve(t, JWTAuth(secret, nil, log), "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if uid, ok := UserID(c); !ok || uid != 7 {
		t.Errorf("UserID = %d, %v", uid, ok)
	}
	jti, exp := TokenID(c)
	if jti != tok.ID || !exp.Equal(tok.Exp.Truncate(time.Second)) {
		t.Errorf("TokenID = %q %v, want %q %v", jti, exp, tok.ID, tok.Exp)
	}
}

func TestJWTAuthSchemeIsCaseInsensitive(t *testing.T) {
	log, _ := test.NewNullLogger()
	tok, _ := utils.NewAccessToken(secret, 7, time.Now())

	for _, scheme := range []string{"bearer ", "BEARER ", "BeArEr "} {
		rec, c := serve(t, JWTAuth(secret, nil, log), scheme+tok.Token)
		if rec.Code != http.StatusOK {
			t.Errorf("%q: status = %d, want 200", scheme, rec.Code)
			continue
		}
		if uid, ok := UserID(c); !ok || uid != 7 {
			t.Errorf("%q: UserID = %d, %v", scheme, uid, ok)
		}
	}
}

func TestJWTAuthRejects(t *testing.T) {
	log, _ := test.NewNullLogger()
	valid, _ := utils.NewAccessToken(secret, 7, time.Now())
	expired, _ := utils.NewAccessToken(secret, 7, time.Now().Add(-48*time.Hour))
	foreign, _ := utils.NewAccessToken("other-secret", 7, time.Now())

	tests := []struct {
		name    string
		header  string
		revoked map[string]bool
	}{
		{"missing header", "", nil},
		{"basic scheme", "Basic dXNlcjpwYXNz", nil},
		{"bare scheme", "Bearer ", nil},
		{"expired", "Bearer " + expired.Token, nil},
		{"wrong secret", "Bearer " + foreign.Token, nil},
		{"garbage", "Bearer not.a.jwt", nil},
		{"revoked", "Bearer " + valid.Token, map[string]bool{valid.ID: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c := serve(t, JWTAuth(secret, stubRevocations{revoked: tt.revoked}, log), tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if _, ok := UserID(c); ok {
				t.Error("identity set on rejected request")
			}
		})
	}
}

func TestJWTAuthRevocationLookupFailsOpen(t *testing.T) {
	log, hook := test.NewNullLogger()
	tok, _ := utils.NewAccessToken(secret, 3, time.Now())

	rec, _ := serve(t, JWTAuth(secret, stubRevocations{err: errors.New("redis down")}, log), "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if e := hook.LastEntry(); e == nil || e.Level != logrus.WarnLevel {
		t.Errorf("expected a warning for the failed lookup, got %+v", e)
	}
}

func TestRequestLoggerAndMetrics(t *testing.T) {
	log, hook := test.NewNullLogger()
	e := echo.New()
	e.Use(Metrics())
	e.Use(RequestLogger(log))
	e.GET("/ok", func(c echo.Context) error {
		SetIdentity(c, 9, "jti", time.Now())
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})

	for _, path := range []string{"/ok", "/boom", "/missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := hook.AllEntries()
	if len(entries) != 3 {
		t.Fatalf("logged %d entries, want 3", len(entries))
	}
	if entries[0].Data["user_id"] != uint64(9) || entries[0].Level != logrus.InfoLevel {
		t.Errorf("ok entry = %+v", entries[0].Data)
	}
	if entries[1].Data["status"] != http.StatusInternalServerError || entries[1].Level != logrus.ErrorLevel {
		t.Errorf("boom entry = %v %+v", entries[1].Level, entries[1].Data)
	}
	if entries[1].Data[logrus.ErrorKey] == nil {
		t.Error("failed request logged without its error")
	}
	if entries[2].Data["status"] != http.StatusNotFound || entries[2].Level != logrus.WarnLevel {
		t.Errorf("missing entry = %v %+v", entries[2].Level, entries[2].Data)
	}
}
