package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/LgendSourabie/blango/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserByEmail(t *testing.T) {
	_, app, db := newTestServer(t)
	seedBlogFixtures(t, db)

	t.Run("found", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/v1/users/user1@gmail.com", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var user service.UserPayload
		require.NoError(t, json.Unmarshal(body, &user))
		assert.Equal(t, "user1@gmail.com", user.Email)
		assert.Equal(t, "http://example.com/api/v1/users/user1@gmail.com", user.URL)
	})

	t.Run("missing", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/users/ghost@gmail.com", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetUsers(t *testing.T) {
	_, app, db := newTestServer(t)
	seedBlogFixtures(t, db)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/users/", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Results []service.UserPayload `json:"results"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Results, 2)
	assert.Equal(t, "user1@gmail.com", out.Results[0].Email)
	assert.Equal(t, "user2@gmail.com", out.Results[1].Email)
}
