package wanikani

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newAPIServer fakes the three WaniKani endpoints the client uses:
// a paginated assignments collection, a subjects lookup, and the user
// resource. requests counts every hit for cache assertions.
func newAPIServer(t *testing.T, requests *atomic.Int64) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization header = %q, expected %q", got, "Bearer test-token")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch r.URL.Path {
		case "/user":
			fmt.Fprint(w, `{"data": {"username": "crabigator", "level": 12}}`)
		case "/assignments":
			if r.URL.Query().Get("page_after_id") == "" {
				next := server.URL + "/assignments?page_after_id=100&subject_types=kanji&unlocked=true"
				fmt.Fprintf(w, `{
					"pages": {"next_url": %q},
					"data": [
						{"data": {"subject_id": 1, "unlocked_at": "2024-01-01T00:00:00Z"}},
						{"data": {"subject_id": 2, "unlocked_at": ""}}
					]
				}`, next)
				return
			}
			fmt.Fprint(w, `{
				"pages": {"next_url": ""},
				"data": [
					{"data": {"subject_id": 3, "unlocked_at": "2024-06-01T00:00:00Z"}}
				]
			}`)
		case "/subjects":
			fmt.Fprint(w, `{
				"pages": {"next_url": ""},
				"data": [
					{"data": {"characters": "日"}},
					{"data": {"characters": "本"}}
				]
			}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server, opts ...Option) *Client {
	t.Helper()

	opts = append(opts,
		WithBaseURL(server.URL),
		WithLogger(discardLogger()),
	)
	client, err := NewClient("test-token", opts...)
	if err != nil {
		t.Fatalf("NewClient() returned unexpected error: %v", err)
	}
	return client
}

func TestNewClient_missingToken(t *testing.T) {
	t.Setenv("WANIKANI_API_TOKEN", "")

	if _, err := NewClient(""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("NewClient(\"\") error = %v, expected ErrMissingToken", err)
	}
}

func TestNewClient_tokenFromEnv(t *testing.T) {
	t.Setenv("WANIKANI_API_TOKEN", "env-token")

	client, err := NewClient("")
	if err != nil {
		t.Fatalf("NewClient() returned unexpected error: %v", err)
	}
	if client.token != "env-token" {
		t.Errorf("token = %q, expected %q", client.token, "env-token")
	}
}

func TestClient_User(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	client := newTestClient(t, newAPIServer(t, &requests))

	user, err := client.User(context.Background())
	if err != nil {
		t.Fatalf("User() returned unexpected error: %v", err)
	}
	if user.Username != "crabigator" {
		t.Errorf("Username = %q, expected %q", user.Username, "crabigator")
	}
	if user.Level != 12 {
		t.Errorf("Level = %d, expected 12", user.Level)
	}
}

func TestClient_LearnedKanji(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	client := newTestClient(t, newAPIServer(t, &requests))

	kanji, err := client.LearnedKanji(context.Background())
	if err != nil {
		t.Fatalf("LearnedKanji() returned unexpected error: %v", err)
	}

	// Pagination followed, locked assignment excluded, result sorted.
	want := []string{"日", "本"}
	if !reflect.DeepEqual(kanji, want) {
		t.Errorf("LearnedKanji() = %v, expected %v", kanji, want)
	}
	// Two assignment pages plus one subjects call.
	if got := requests.Load(); got != 3 {
		t.Errorf("request count = %d, expected 3", got)
	}
}

func TestClient_caching(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	server := newAPIServer(t, &requests)
	cacheDir := t.TempDir()

	first := newTestClient(t, server, WithCacheDir(cacheDir))
	if _, err := first.LearnedKanji(context.Background()); err != nil {
		t.Fatalf("LearnedKanji() returned unexpected error: %v", err)
	}
	after := requests.Load()

	// A fresh client over the same cache dir answers entirely from disk.
	second := newTestClient(t, server, WithCacheDir(cacheDir))
	kanji, err := second.LearnedKanji(context.Background())
	if err != nil {
		t.Fatalf("LearnedKanji() returned unexpected error: %v", err)
	}
	if got := requests.Load(); got != after {
		t.Errorf("request count grew from %d to %d, expected cache hits only", after, got)
	}
	if !reflect.DeepEqual(kanji, []string{"日", "本"}) {
		t.Errorf("LearnedKanji() from cache = %v, expected [日 本]", kanji)
	}
}

func TestClient_SaveLearnedKanji(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	client := newTestClient(t, newAPIServer(t, &requests))
	path := filepath.Join(t.TempDir(), "data", "learned_kanji.json")

	count, err := client.SaveLearnedKanji(context.Background(), path)
	if err != nil {
		t.Fatalf("SaveLearnedKanji() returned unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, expected 2", count)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	var file learnedKanjiFile
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if file.KanjiCount != 2 {
		t.Errorf("kanji_count = %d, expected 2", file.KanjiCount)
	}
	if !reflect.DeepEqual(file.Kanji, []string{"日", "本"}) {
		t.Errorf("kanji = %v, expected [日 本]", file.Kanji)
	}
	if file.UpdatedAt.IsZero() {
		t.Error("updated_at is zero")
	}
}

func TestClient_unexpectedStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server)
	if _, err := client.User(context.Background()); !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("User() error = %v, expected ErrUnexpectedStatus", err)
	}
}

func TestClient_cachePath(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, newAPIServer(t, &atomic.Int64{}), WithCacheDir("/tmp/cache"))

	t.Run("short keys keep a readable name", func(t *testing.T) {
		t.Parallel()

		got := client.cachePath("assignments?unlocked=true")
		want := filepath.Join("/tmp/cache", "assignments_unlocked_true.json")
		if got != want {
			t.Errorf("cachePath() = %q, expected %q", got, want)
		}
	})

	t.Run("long keys are hashed", func(t *testing.T) {
		t.Parallel()

		long := "subjects?ids="
		for i := range 100 {
			long += fmt.Sprintf("%d,", i)
		}
		got := filepath.Base(client.cachePath(long))
		if len(got) > 50 {
			t.Errorf("hashed cache name %q is too long", got)
		}
		if got[:6] != "cache_" {
			t.Errorf("hashed cache name %q lacks the cache_ prefix", got)
		}
	})
}
