package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dashboard/internal/visibility"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func captureViewer(got *visibility.Viewer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = visibility.FromContext(r.Context())
	})
}

func TestSessionWithValidBearerToken(t *testing.T) {
	token, err := IssueToken(testSecret, "user-42", time.Hour)
	require.NoError(t, err)

	var got visibility.Viewer
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	Session(testSecret)(captureViewer(&got)).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, visibility.Viewer{Authenticated: true, Subject: "user-42"}, got)
}

func TestSessionReadsQueryToken(t *testing.T) {
	token, err := IssueToken(testSecret, "ws-user", time.Hour)
	require.NoError(t, err)

	var got visibility.Viewer
	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	Session(testSecret)(captureViewer(&got)).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, got.Authenticated)
	assert.Equal(t, "ws-user", got.Subject)
}

func TestSessionIgnoresQueryTokenOutsideWebsocket(t *testing.T) {
	token, err := IssueToken(testSecret, "user-42", time.Hour)
	require.NoError(t, err)

	for _, path := range []string{"/notes?token=", "/notes/1?token=", "/ws/x?token="} {
		var got visibility.Viewer
		req := httptest.NewRequest(http.MethodGet, path+token, nil)
		Session(testSecret)(captureViewer(&got)).ServeHTTP(httptest.NewRecorder(), req)
		assert.False(t, got.Authenticated, path)
	}
}

func TestSessionFallsBackToAnonymous(t *testing.T) {
	expired, err := IssueToken(testSecret, "user-1", -time.Minute)
	require.NoError(t, err)
	wrongKey, err := IssueToken("other-secret", "user-1", time.Hour)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"no header": "",
		"garbage":   "Bearer not-a-token",
		"expired":   "Bearer " + expired,
		"wrong key": "Bearer " + wrongKey,
		"alg none":  "Bearer " + noneAlg,
		"basic":     "Basic dXNlcjpwYXNz",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			got := visibility.Viewer{Authenticated: true}
			req := httptest.NewRequest(http.MethodGet, "/notes", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			Session(testSecret)(captureViewer(&got)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, visibility.Anonymous, got)
		})
	}
}

func TestSessionDisabledWithoutSecret(t *testing.T) {
	token, err := IssueToken(testSecret, "user-42", time.Hour)
	require.NoError(t, err)

	got := visibility.Viewer{Authenticated: true}
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	Session("")(captureViewer(&got)).ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, got.Authenticated)
}

func TestIssueTokenRequiresSecret(t *testing.T) {
	_, err := IssueToken("", "user", time.Hour)
	assert.Error(t, err)
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORSMiddleware("https://dash.example.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/notes", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dash.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestRequestIDAndAccessLog(t *testing.T) {
	mux := http.NewServeMux()
	var seen string
	mux.HandleFunc("GET /notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	h := RequestID(AccessLog(mux))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notes/7", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/notes/8", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", seen)
}
