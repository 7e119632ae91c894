package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.Query().Get("api_key") != "mockKey" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/genre/movie/list":
			assert.Equal(t, "pt-BR", r.URL.Query().Get("language"))
			_ = json.NewEncoder(w).Encode(map[string]any{"genres": []map[string]any{{"id": 28, "name": "Ação"}, {"id": 18, "name": "Drama"}}})
		case "/genre/tv/list":
			_ = json.NewEncoder(w).Encode(map[string]any{"genres": []map[string]any{{"id": 10762, "name": "Kids"}}})
		case "/configuration/primary_translations":
			_ = json.NewEncoder(w).Encode([]string{"en-US", "pt-BR", "pt-PT", "xx-YY"})
		case "/configuration/languages":
			_ = json.NewEncoder(w).Encode([]map[string]string{
				{"iso_639_1": "en", "english_name": "English", "name": "English"},
				{"iso_639_1": "pt", "english_name": "Portuguese", "name": "Português"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func TestGetGenres(t *testing.T) {
	server := newTestServer(t)
	c := &tmdb{httpClient: &http.Client{}, baseURL: server.URL, apiKey: "mockKey"}

	genres, err := c.GetGenres(context.Background(), "pt-BR", "movie")
	require.NoError(t, err)
	assert.Equal(t, []Genre{{ID: 28, Name: "Ação"}, {ID: 18, Name: "Drama"}}, genres)

	genres, err = c.GetGenres(context.Background(), "en-US", "series")
	require.NoError(t, err)
	assert.Equal(t, []Genre{{ID: 10762, Name: "Kids"}}, genres)
}

func TestGetGenres_UnsupportedMediaType(t *testing.T) {
	c := &tmdb{httpClient: &http.Client{}, baseURL: "http://127.0.0.1:0", apiKey: "mockKey"}

	_, err := c.GetGenres(context.Background(), "en-US", "channel")
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
}

func TestGetGenres_InvalidStatus(t *testing.T) {
	server := newTestServer(t)
	c := &tmdb{httpClient: &http.Client{}, baseURL: server.URL, apiKey: "wrongKey"}

	_, err := c.GetGenres(context.Background(), "en-US", "movie")
	assert.ErrorContains(t, err, "invalid status code: 401")
}

func TestGetGenres_ResponseTooLarge(t *testing.T) {
	server := newTestServer(t)
	c := &tmdb{httpClient: &http.Client{}, baseURL: server.URL, apiKey: "mockKey", maxResponseSize: 16}

	_, err := c.GetGenres(context.Background(), "pt-BR", "movie")
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}

func TestGetLanguages(t *testing.T) {
	server := newTestServer(t)
	c := &tmdb{httpClient: &http.Client{}, baseURL: server.URL, apiKey: "mockKey"}

	languages, err := c.GetLanguages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Language{
		{Code: "en-US", Name: "English"},
		{Code: "pt-BR", Name: "Portuguese"},
		{Code: "pt-PT", Name: "Portuguese"},
	}, languages)
}
