package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/baseline/pkg/detect"
	bserrors "github.com/matzehuels/baseline/pkg/errors"
	"github.com/matzehuels/baseline/pkg/feature"
	"github.com/matzehuels/baseline/pkg/report"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 150 * time.Millisecond

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-scan a file every time it is saved",
		Long: `Watch scans a file, then scans it again whenever it changes. Scans go
through a single-entry cache, so saving without changes costs nothing, and
a slow scan never overwrites the output of a newer one.`,
		Example: `  baseline watch styles.css`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == stdinPath {
				return bserrors.New(bserrors.ErrCodeInvalidPath, "watch needs a file, not stdin")
			}
			lang, err := resolveLanguage(path, language)
			if err != nil {
				return err
			}
			if _, err := readDocument(path, language, nil); err != nil {
				return err
			}

			ctx := cmd.Context()
			eng, err := c.newEngine(ctx, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			w := &watcher{
				path:     path,
				language: lang,
				session:  eng.detector.NewSession(),
				out:      cmd.OutOrStdout(),
				logger:   loggerFromContext(ctx),
				debounce: watchDebounce,
			}
			printInfo("Watching %s (ctrl+c to stop)", path)
			err = w.run(ctx)
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "language of the input (css, javascript, typescript)")
	return cmd
}

// watcher re-detects one file on change.
type watcher struct {
	path     string
	language feature.Language
	session  *detect.Session
	out      io.Writer
	logger   *log.Logger
	debounce time.Duration

	gen atomic.Uint64 // newest scan; older scans do not print
	mu  sync.Mutex    // serializes output
}

// run scans once, then on every debounced change until ctx is done.
func (w *watcher) run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	// Watch the directory: editors that save by rename replace the inode.
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	trigger := func() {
		gen := w.gen.Add(1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.scan(ctx, gen)
		}()
	}
	trigger()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			w.logger.Debug("file changed", "path", w.path, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			trigger()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// scan detects through the session and prints the result unless a newer
// scan has started since.
func (w *watcher) scan(ctx context.Context, gen uint64) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("read failed", "path", w.path, "err", err)
		return
	}
	features := w.session.DetectWithCache(ctx, string(data), w.language)
	if ctx.Err() != nil || gen != w.gen.Load() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen.Load() {
		return
	}
	fmt.Fprintf(w.out, "\n%s %s\n", StyleDim.Render(time.Now().Format("15:04:05")), StyleDim.Render(fmt.Sprintf("scan #%d", gen)))
	renderFeatures(w.out, w.path, features)
	renderSummary(w.out, report.Summarize(features), report.Score(features))
}
