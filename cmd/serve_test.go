package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func getBody(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code, w.Body.String()
}

func TestLiveSiteReload(t *testing.T) {
	cfg := testContent(t)
	live, err := newLiveSite(cfg)
	if err != nil {
		t.Fatalf("newLiveSite: %v", err)
	}
	if code, _ := getBody(t, live, "/we-created/875"); code != http.StatusNotFound {
		t.Fatalf("Acme Rockets served before it was added: %d", code)
	}

	writeFile(t, filepath.Join(cfg.ContentDir, "projects.yaml"), "Acme Rockets:\n  title: Rockets\n")
	if err := live.reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	code, body := getBody(t, live, "/we-created/875")
	if code != http.StatusOK || !strings.Contains(body, "<h1>Rockets</h1>") {
		t.Fatalf("reloaded project not served: %d", code)
	}

	// a broken edit keeps the previous generation
	writeFile(t, filepath.Join(cfg.ContentDir, "projects.yaml"), "Acme Rockets: [broken\n")
	if err := live.reload(); err == nil {
		t.Fatal("reload accepted malformed projects.yaml")
	}
	if code, _ := getBody(t, live, "/we-created/875"); code != http.StatusOK {
		t.Errorf("previous generation dropped after failed reload: %d", code)
	}
}

func TestLiveSiteWatch(t *testing.T) {
	cfg := testContent(t)
	live, err := newLiveSite(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- live.watch(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("watch: %v", err)
		}
	}()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		// rewritten each round in case the watcher was not ready yet
		writeFile(t, filepath.Join(cfg.ContentDir, "projects.yaml"), "Initech:\n  title: Initech\n")
		time.Sleep(reloadDebounce + 300*time.Millisecond)
		if code, _ := getBody(t, live, "/we-created/390"); code == http.StatusOK {
			return
		}
	}
	t.Fatal("watcher did not reload the site after projects.yaml changed")
}
