package renderer

import (
	"fmt"
	"path/filepath"
	"sync"

	"Elk3D/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ShaderWatcher reloads file-backed programs when their sources change.
// fsnotify events only mark programs dirty; Poll performs the reload and must
// be called from the thread that owns the GL context.
type ShaderWatcher struct {
	watcher *fsnotify.Watcher
	mu      sync.Mutex
	byPath  map[string]*ShaderProgram
	dirty   map[*ShaderProgram]struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewShaderWatcher() (*ShaderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create shader watcher: %w", err)
	}
	sw := &ShaderWatcher{
		watcher: w,
		byPath:  make(map[string]*ShaderProgram),
		dirty:   make(map[*ShaderProgram]struct{}),
		done:    make(chan struct{}),
	}
	sw.wg.Add(1)
	go sw.watchLoop()
	return sw, nil
}

// Watch registers a program built by NewShaderProgram
func (sw *ShaderWatcher) Watch(sp *ShaderProgram) error {
	vert, frag := sp.Paths()
	if vert == "" || frag == "" {
		return ErrNotFromFiles
	}

	sw.mu.Lock()
	defer sw.mu.Unlock()

	// Directories are watched because editors often replace files on save
	dirs := map[string]struct{}{filepath.Dir(vert): {}, filepath.Dir(frag): {}}
	for dir := range dirs {
		if err := sw.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	sw.byPath[filepath.Clean(vert)] = sp
	sw.byPath[filepath.Clean(frag)] = sp
	return nil
}

func (sw *ShaderWatcher) watchLoop() {
	defer sw.wg.Done()
	for {
		select {
		case <-sw.done:
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				sw.markDirty(event.Name)
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("Shader watcher error", zap.Error(err))
		}
	}
}

func (sw *ShaderWatcher) markDirty(path string) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sp, ok := sw.byPath[filepath.Clean(path)]; ok {
		sw.dirty[sp] = struct{}{}
		logger.Log.Debug("Shader source changed", zap.String("path", path))
	}
}

// Poll reloads every program whose sources changed since the last call and
// returns how many reloads succeeded.
func (sw *ShaderWatcher) Poll() int {
	sw.mu.Lock()
	pending := make([]*ShaderProgram, 0, len(sw.dirty))
	for sp := range sw.dirty {
		pending = append(pending, sp)
	}
	sw.dirty = make(map[*ShaderProgram]struct{})
	sw.mu.Unlock()

	reloaded := 0
	for _, sp := range pending {
		if err := sp.Reload(); err == nil {
			reloaded++
		}
	}
	return reloaded
}

func (sw *ShaderWatcher) Close() error {
	close(sw.done)
	err := sw.watcher.Close()
	sw.wg.Wait()
	return err
}
