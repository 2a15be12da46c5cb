package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(Config{
		Username: "admin",
		Password: "123456",
		Secret:   "test-secret",
		TokenTTL: time.Hour,
	})
}

func TestService_Login(t *testing.T) {
	type args struct {
		username string
		password string
	}

	type testCase struct {
		name    string
		args    args
		wantErr error
	}

	tests := []testCase{
		{name: "Success", args: args{username: "admin", password: "123456"}},
		{name: "WrongPassword", args: args{username: "admin", password: "654321"}, wantErr: ErrInvalidCredentials},
		{name: "WrongUser", args: args{username: "root", password: "123456"}, wantErr: ErrInvalidCredentials},
		{name: "Empty", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			tok, err := svc.Login(tt.args.username, tt.args.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, tok)

				return
			}

			require.NoError(t, err)

			subject, err := svc.Verify(tok.Value)
			require.NoError(t, err)
			assert.Equal(t, "admin", subject)
		})
	}
}

func TestService_VerifyExpired(t *testing.T) {
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := svc.Issue("admin")
	require.NoError(t, err)

	svc.now = time.Now

	_, err = svc.Verify(tok.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_VerifyWrongSecret(t *testing.T) {
	tok, err := newTestService().Issue("admin")
	require.NoError(t, err)

	other := NewService(Config{Secret: "other", TokenTTL: time.Hour})

	_, err = other.Verify(tok.Value)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	svc := newTestService()
	tok, err := svc.Issue("admin")
	require.NoError(t, err)

	handler := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := Subject(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "admin", subject)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := map[string]struct {
		header string
		want   int
	}{
		"Valid":   {header: "Bearer " + tok.Value, want: http.StatusNoContent},
		"Missing": {want: http.StatusUnauthorized},
		"Garbage": {header: "Bearer nope", want: http.StatusUnauthorized},
		"Scheme":  {header: "Basic " + tok.Value, want: http.StatusUnauthorized},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
