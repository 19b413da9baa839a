package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kissit/website/internal/config"
	"github.com/kissit/website/internal/site"
	"github.com/kissit/website/internal/web"
)

const (
	reloadDebounce  = 500 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the website",
	Long: `The serve command loads the content directory once and serves the site on
host:port. With debug enabled (and reload left on), it also watches the content
and company logo directories and swaps in a freshly loaded site on changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), appConfig)
	},
}

// liveSite serves the current generation of the site. A generation is
// never modified; reload replaces it as a whole.
type liveSite struct {
	cfg     config.Config
	current atomic.Pointer[web.Server]
}

func newLiveSite(cfg config.Config) (*liveSite, error) {
	l := &liveSite{cfg: cfg}
	if err := l.reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// reload keeps the running generation when loading fails.
func (l *liveSite) reload() error {
	s, err := site.NewLoader(l.cfg).Load()
	if err != nil {
		return err
	}
	srv, err := web.NewServer(l.cfg, s)
	if err != nil {
		return err
	}
	l.current.Store(srv)
	return nil
}

func (l *liveSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.current.Load().ServeHTTP(w, r)
}

// watch reloads the site when files under the content or company logo
// directories change, until ctx is done.
func (l *liveSite) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	pathsToWatch := []string{
		l.cfg.ContentDir,
		filepath.Join(l.cfg.StaticDir, filepath.FromSlash(l.cfg.CompaniesDir)),
	}
	for _, rootPath := range pathsToWatch {
		if _, statErr := os.Stat(rootPath); os.IsNotExist(statErr) {
			log.Printf("directory '%s' not found, not watching", rootPath)
			continue
		}
		err := filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				log.Printf("error walking %s: %v", path, err)
				return nil
			}
			if d.IsDir() {
				if watchErr := watcher.Add(path); watchErr != nil {
					log.Printf("failed to watch %s: %v", path, watchErr)
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("error during initial directory walk for watching %s: %v", rootPath, err)
		}
	}

	var buildTimer *time.Timer
	defer func() {
		if buildTimer != nil {
			buildTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}
			log.Printf("change detected: %s (%s)", event.Name, event.Op.String())
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					log.Printf("error adding new directory %s to watcher: %v", event.Name, err)
				}
			}

			if buildTimer != nil {
				buildTimer.Stop()
			}
			buildTimer = time.AfterFunc(reloadDebounce, func() {
				if err := l.reload(); err != nil {
					log.Printf("reload failed, still serving the previous content: %v", err)
					return
				}
				log.Println("site reloaded")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	live, err := newLiveSite(cfg)
	if err != nil {
		return fmt.Errorf("failed to load site: %w", err)
	}

	if cfg.AutoReload() {
		go func() {
			if err := live.watch(ctx); err != nil {
				log.Printf("auto-reload disabled: %v", err)
			}
		}()
		log.Printf("auto-reload enabled for %s", cfg.ContentDir)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           live,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving on http://%s (debug=%v)", cfg.Addr(), cfg.Debug)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func isDir(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
