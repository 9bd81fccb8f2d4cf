package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubUserinfo(t *testing.T, status int, body string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	old := userinfoEndpoint
	userinfoEndpoint = srv.URL
	t.Cleanup(func() {
		userinfoEndpoint = old
		srv.Close()
	})
}

func TestFetchGoogleUser(t *testing.T) {
	stubUserinfo(t, http.StatusOK, `{"id":"uid-123","email":"ext@example.com","name":"Ext User"}`)

	info, err := fetchGoogleUser("token")
	require.NoError(t, err)
	assert.Equal(t, "uid-123", info.ID)
	assert.Equal(t, "ext@example.com", info.Email)
	assert.Equal(t, "Ext User", info.Name)
}

func TestFetchGoogleUserRejectsNonOKStatus(t *testing.T) {
	stubUserinfo(t, http.StatusUnauthorized, `{"error":"invalid_token"}`)

	_, err := fetchGoogleUser("expired")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestFetchGoogleUserRejectsIncompleteResponse(t *testing.T) {
	stubUserinfo(t, http.StatusOK, `{"name":"No IDs"}`)

	_, err := fetchGoogleUser("token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id or email")
}
