package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aprilian/storymap/internal/common"
)

func newClient(t *testing.T, handler http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second), srv
}

func TestListStories_OK(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/stories", r.URL.Path)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   false,
			"message": "Stories fetched successfully",
			"listStory": []map[string]any{
				{"id": "s1", "name": "Dinda", "description": "a ten char story", "photoUrl": "http://img/s1.jpg", "createdAt": "2024-01-01T00:00:00Z", "lat": -6.2, "lon": 106.8},
				{"id": "s2", "name": "Bram", "description": "no location here", "photoUrl": "http://img/s2.jpg", "createdAt": "2024-01-02T00:00:00Z"},
			},
		})
	}))

	stories, err := client.ListStories(context.Background(), "tok123")
	require.NoError(t, err)
	require.Len(t, stories, 2)

	assert.Equal(t, "s1", stories[0].ID)
	require.True(t, stories[0].HasLocation())
	assert.Equal(t, -6.2, *stories[0].Lat)
	assert.Equal(t, 106.8, *stories[0].Lon)

	assert.False(t, stories[1].HasLocation())
}

func TestListStories_UnauthorizedMapsToSentinel(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": true, "message": "Missing authentication"})
	}))

	_, err := client.ListStories(context.Background(), "expired")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Missing authentication", apiErr.Message)
}

func TestGetStory_OK(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stories/s1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": false,
			"story": map[string]any{"id": "s1", "name": "Dinda", "description": "a ten char story", "photoUrl": "http://img/s1.jpg", "createdAt": "2024-01-01T00:00:00Z"},
		})
	}))

	story, err := client.GetStory(context.Background(), "tok", "s1")
	require.NoError(t, err)
	assert.Equal(t, "Dinda", story.Name)
}

func TestAddStoryGuest_SendsExactMultipartFields(t *testing.T) {
	var gotPath, gotAuth string
	var fields map[string][]string
	var photo []byte
	var photoName string

	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(2<<20))
		fields = r.MultipartForm.Value

		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		photoName = header.Filename
		buf, err := io.ReadAll(file)
		require.NoError(t, err)
		photo = buf

		_ = json.NewEncoder(w).Encode(map[string]any{"error": false, "message": "Story created successfully"})
	}))

	lat, lon := -6.2, 106.8
	payload := make([]byte, 500*1024)
	copy(payload, []byte{0xff, 0xd8, 0xff, 0xe0})

	err := client.AddStoryGuest(context.Background(), NewStory{
		Description: "A lovely walk in the park today",
		PhotoName:   "walk.jpg",
		Photo:       payload,
		Lat:         &lat,
		Lon:         &lon,
	})
	require.NoError(t, err)

	assert.Equal(t, "/stories/guest", gotPath)
	assert.Empty(t, gotAuth, "guest submissions must not carry a token")

	assert.Equal(t, []string{"A lovely walk in the park today"}, fields["description"])
	assert.Equal(t, []string{"-6.2"}, fields["lat"])
	assert.Equal(t, []string{"106.8"}, fields["lon"])
	assert.Len(t, fields, 3, "no extra value fields")

	assert.Equal(t, "walk.jpg", photoName)
	assert.Equal(t, payload, photo)
}

func TestAddStory_AuthenticatedEndpointAndToken(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stories", r.URL.Path)
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"error": false})
	}))

	err := client.AddStory(context.Background(), "tok123", NewStory{
		Description: "A lovely walk in the park today",
		PhotoName:   "walk.jpg",
		Photo:       []byte{0xff, 0xd8, 0xff, 0xe0},
	})
	require.NoError(t, err)
}

func TestAddStory_OmitsLocationWhenAbsent(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(2<<20))
		assert.NotContains(t, r.MultipartForm.Value, "lat")
		assert.NotContains(t, r.MultipartForm.Value, "lon")
		_ = json.NewEncoder(w).Encode(map[string]any{"error": false})
	}))

	err := client.AddStory(context.Background(), "tok", NewStory{
		Description: "A lovely walk in the park today",
		PhotoName:   "walk.jpg",
		Photo:       []byte{1, 2, 3},
	})
	require.NoError(t, err)
}

func TestLogin_OK(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice@example.com", body["email"])
		assert.Equal(t, "secret123", body["password"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":       false,
			"message":     "success",
			"loginResult": map[string]string{"userId": "user-1", "name": "Alice", "token": "tok123"},
		})
	}))

	res, err := client.Login(context.Background(), "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", res.Name)
	assert.Equal(t, "tok123", res.Token)
}

func TestLogin_BadCredentialsSurfacesMessage(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": true, "message": "Invalid password"})
	}))

	_, err := client.Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid password", err.Error())
}

func TestRegister_OK(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": false, "message": "User created"})
	}))

	err := client.Register(context.Background(), "Alice", "alice@example.com", "longenough")
	assert.NoError(t, err)
}

func TestAPIError_GenericMessageWhenBodyHasNone(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))

	_, err := client.ListStories(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
