// Package watch observa a caixa de entrada e carrega os CSVs que chegam nela
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/call-dashboard/pkg/utils"
)

const DefaultSettleDelay = 500 * time.Millisecond

// FileLoader carrega um CSV do disco como dataset atual
type FileLoader interface {
	LoadFile(ctx context.Context, path string) error
}

// Watcher monitora INBOX_DIR e carrega cada CSV criado ou reescrito
type Watcher struct {
	dir         string
	enabled     bool
	loader      FileLoader
	settleDelay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func New(dir string, enabled bool, loader FileLoader) *Watcher {
	return &Watcher{
		dir:         dir,
		enabled:     enabled,
		loader:      loader,
		settleDelay: DefaultSettleDelay,
		pending:     make(map[string]*time.Timer),
	}
}

// Start registra o diretório no fsnotify e processa eventos até ctx ser cancelado
func (w *Watcher) Start(ctx context.Context) error {
	if !w.enabled {
		logrus.Info("watch: watcher da caixa de entrada desabilitado")
		return nil
	}
	if w.dir == "" {
		return errors.New("watch: inbox directory not configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating fsnotify watcher")
	}

	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "watching %s", w.dir)
	}

	logrus.WithField("inbox_dir", w.dir).Info("watch: observando caixa de entrada")

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				w.stopPending()
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 && utils.IsCSV(evt.Name) {
					w.schedule(ctx, evt.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logrus.WithError(err).Warn("watch: erro do fsnotify")
			}
		}
	}()

	return nil
}

// schedule aguarda o arquivo parar de receber escritas antes de carregá-lo
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settleDelay)
		return
	}

	w.pending[path] = time.AfterFunc(w.settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		w.load(ctx, path)
	})
}

func (w *Watcher) load(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}

	// Rename também é emitido para o nome antigo de um arquivo movido
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return
	}

	if err := w.loader.LoadFile(ctx, path); err != nil {
		logrus.WithError(err).WithField("source", filepath.Base(path)).Error("watch: erro ao carregar CSV")
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
