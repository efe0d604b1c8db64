package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dashboard/internal/visibility"
	"dashboard/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// Session resolves the caller's session token into a visibility.Viewer on
// the request context. It never rejects a request: a missing, expired or
// invalid token makes the caller anonymous, and the note service decides
// what an anonymous caller may do. An empty secret disables verification.
func Session(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := visibility.Anonymous
			if tokenString := tokenFromRequest(r); tokenString != "" && secret != "" {
				subject, err := ParseToken(secret, tokenString)
				if err != nil {
					logger.Sugar.Warnf("Ignoring session token: %v", err)
				} else {
					viewer = visibility.Viewer{Authenticated: true, Subject: subject}
				}
			}
			next.ServeHTTP(w, r.WithContext(visibility.WithViewer(r.Context(), viewer)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	// Browsers cannot set headers on websocket handshakes, so only /ws reads
	// the token from the query.
	if r.URL.Path == "/ws" {
		if tokenString := r.URL.Query().Get("token"); tokenString != "" {
			return tokenString
		}
	}
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// ParseToken validates an HMAC-signed token and returns its subject.
func ParseToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods(hmacMethods), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("invalid or expired token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", errors.New("subject claim is missing or invalid")
	}
	return subject, nil
}

// IssueToken signs an HS256 session token for subject, valid for ttl.
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET is not configured")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
