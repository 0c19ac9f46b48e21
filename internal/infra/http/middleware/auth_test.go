package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(tm *TokenManager) http.Handler {
	return Authenticate(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserIDFromContext(r.Context())
		w.Write([]byte(id))
	}))
}

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "ligue-crm")

	token, err := tm.Issue("user-1", time.Hour)
	require.NoError(t, err)

	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenManagerRejectsOtherSecret(t *testing.T) {
	token, err := NewTokenManager("other", "ligue-crm").Issue("user-1", time.Hour)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "ligue-crm").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerRejectsOtherIssuer(t *testing.T) {
	token, err := NewTokenManager("secret", "someone-else").Issue("user-1", time.Hour)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "ligue-crm").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerExpired(t *testing.T) {
	tm := NewTokenManager("secret", "ligue-crm")
	token, err := tm.Issue("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManagerRejectsNoneAlgorithm(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "ligue-crm",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "ligue-crm").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerRejectsEmptySubject(t *testing.T) {
	tm := NewTokenManager("secret", "ligue-crm")
	token, err := tm.Issue("", time.Hour)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate(t *testing.T) {
	tm := NewTokenManager("secret", "ligue-crm")
	valid, err := tm.Issue("user-1", time.Hour)
	require.NoError(t, err)
	expired, err := tm.Issue("user-1", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name     string
		prepare  func(r *http.Request)
		status   int
		wantCode string
		wantBody string
	}{
		{
			name:     "bearer header",
			prepare:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) },
			status:   http.StatusOK,
			wantBody: "user-1",
		},
		{
			name:     "cookie",
			prepare:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: valid}) },
			status:   http.StatusOK,
			wantBody: "user-1",
		},
		{
			name:     "missing",
			prepare:  func(r *http.Request) {},
			status:   http.StatusUnauthorized,
			wantCode: "UNAUTHENTICATED",
		},
		{
			name:     "wrong scheme",
			prepare:  func(r *http.Request) { r.Header.Set("Authorization", "Basic "+valid) },
			status:   http.StatusUnauthorized,
			wantCode: "UNAUTHENTICATED",
		},
		{
			name:     "garbage",
			prepare:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-jwt") },
			status:   http.StatusUnauthorized,
			wantCode: "UNAUTHENTICATED",
		},
		{
			name:     "expired",
			prepare:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) },
			status:   http.StatusUnauthorized,
			wantCode: "TOKEN_EXPIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/meeting", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			protected(tm).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantCode != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body["error"])
			}
		})
	}
}

func TestUserIDFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(req.Context(), ""))
	assert.False(t, ok)
}
