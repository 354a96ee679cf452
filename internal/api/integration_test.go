package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"privatetube/internal/auth"
	"privatetube/internal/catalog"
	"privatetube/internal/recommend"
)

// setupIntegration connects to a local database or skips the test.
func setupIntegration(t *testing.T) (*Server, *pgxpool.Pool) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to DB: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("Skipping integration test: cannot ping DB: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := catalog.AutoMigrate(ctx, pool); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	issuer := auth.NewIssuer([]byte("integration-secret"), 15*time.Minute, time.Hour)
	selector := recommend.NewSelector(rand.NewSource(time.Now().UnixNano()))
	return NewServer(pool, issuer, selector), pool
}

func TestIntegration_GrantGatedWatchFlow(t *testing.T) {
	srv, pool := setupIntegration(t)
	ctx := context.Background()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	users := catalog.NewUserRepo(pool)
	playlists := catalog.NewPlaylistRepo(pool)
	videos := catalog.NewVideoRepo(pool)
	grants := catalog.NewGrantRepo(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	viewer, err := users.Create(ctx, "viewer-"+suffix, string(hash), "User")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	outsider, err := users.Create(ctx, "outsider-"+suffix, string(hash), "User")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		_ = users.Delete(ctx, viewer.ID)
		_ = users.Delete(ctx, outsider.ID)
	})

	playlist, err := playlists.Create(ctx, catalog.Playlist{
		Name: "Integration " + suffix, Creator: catalog.OwnedBy(viewer.ID),
	})
	if err != nil {
		t.Fatalf("create playlist: %v", err)
	}
	t.Cleanup(func() { _ = playlists.Delete(ctx, playlist.ID) })

	if err := grants.Grant(ctx, viewer.ID, playlist.ID); err != nil {
		t.Fatalf("grant: %v", err)
	}

	video, err := videos.Create(ctx, catalog.Video{
		Title: "Clip", YouTubeID: "aqz-KE-bpKQ", IsActive: true,
		PlaylistID: playlist.ID, Creator: catalog.OwnedBy(viewer.ID),
	})
	if err != nil {
		t.Fatalf("create video: %v", err)
	}

	login := func(username string) string {
		body := loginBody(t, username, "pw123456")
		req := httptest.NewRequest("POST", "/auth/login", body)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("login %s: %d %s", username, w.Code, w.Body.String())
		}
		var tokens struct {
			AccessToken string `json:"accessToken"`
		}
		if err := json.NewDecoder(w.Body).Decode(&tokens); err != nil {
			t.Fatal(err)
		}
		return tokens.AccessToken
	}

	get := func(token, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		return w
	}

	viewerToken := login(viewer.Username)
	outsiderToken := login(outsider.Username)

	watchPath := fmt.Sprintf("/watch/%d", video.ID)

	if w := get(viewerToken, watchPath); w.Code != http.StatusOK {
		t.Errorf("grantee watch: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := get(outsiderToken, watchPath); w.Code != http.StatusForbidden {
		t.Errorf("outsider watch: expected 403, got %d: %s", w.Code, w.Body.String())
	}

	// The outsider's search must not surface the granted playlist's video.
	w := get(outsiderToken, "/search?query=Clip")
	if w.Code != http.StatusOK {
		t.Fatalf("search: %d", w.Code)
	}
	var searchResp struct {
		Videos []catalog.Video `json:"videos"`
	}
	if err := json.NewDecoder(w.Body).Decode(&searchResp); err != nil {
		t.Fatal(err)
	}
	for _, v := range searchResp.Videos {
		if v.ID == video.ID {
			t.Error("ungranted video leaked into search results")
		}
	}
}

func TestIntegration_PlaylistDeleteCascadesGrants(t *testing.T) {
	_, pool := setupIntegration(t)
	ctx := context.Background()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	users := catalog.NewUserRepo(pool)
	playlists := catalog.NewPlaylistRepo(pool)
	grants := catalog.NewGrantRepo(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	owner, err := users.Create(ctx, "owner-"+suffix, string(hash), "User")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { _ = users.Delete(ctx, owner.ID) })

	playlist, err := playlists.Create(ctx, catalog.Playlist{
		Name: "Cascade " + suffix, Creator: catalog.OwnedBy(owner.ID),
	})
	if err != nil {
		t.Fatalf("create playlist: %v", err)
	}
	if err := grants.Grant(ctx, owner.ID, playlist.ID); err != nil {
		t.Fatalf("grant: %v", err)
	}

	if err := playlists.Delete(ctx, playlist.ID); err != nil {
		t.Fatalf("delete playlist: %v", err)
	}

	set, err := grants.GrantsFor(ctx, owner.ID)
	if err != nil {
		t.Fatalf("grants: %v", err)
	}
	if set.Has(playlist.ID) {
		t.Error("grant survived playlist deletion")
	}
}
