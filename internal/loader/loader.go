// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/modgraph/modgraph/internal/config"
	"github.com/modgraph/modgraph/internal/issue"
	"github.com/modgraph/modgraph/pkg/descriptor"
	"github.com/modgraph/modgraph/pkg/platform"
)

// DefaultCacheSize is the number of decoded descriptor files kept in memory.
const DefaultCacheSize = 4096

type (
	// Loader reads a project into a Store and an override table. It keeps
	// decoded descriptors across calls, so a watch loop only re-decodes
	// files that changed. Loader is safe for concurrent use.
	Loader struct {
		cache   *lru.Cache[cacheKey, *descriptor.File]
		logger  *log.Logger
		environ func() []string
	}

	// Option configures a Loader.
	Option func(*loaderOptions)

	loaderOptions struct {
		cacheSize int
		logger    *log.Logger
		environ   func() []string
	}

	// cacheKey identifies one version of a file.
	cacheKey struct {
		path    string
		size    int64
		modTime int64
	}

	// Result is one loaded project snapshot.
	Result struct {
		// ProjectDir is the absolute project root.
		ProjectDir string
		Store      *descriptor.Store
		// Overrides is nil when the project has no override file.
		Overrides *platform.OverrideTable
		// Files lists the descriptor files, relative to ProjectDir, in store order.
		Files []string
		// OverridesFile is the override file that was read, or "".
		OverridesFile string
		// Cached counts descriptor files served from the decode cache.
		Cached int
	}
)

// WithCacheSize sets the decode cache capacity.
func WithCacheSize(n int) Option {
	return func(o *loaderOptions) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(o *loaderOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEnviron sets the source of process variables for override path
// expansion. Defaults to os.Environ.
func WithEnviron(f func() []string) Option {
	return func(o *loaderOptions) {
		if f != nil {
			o.environ = f
		}
	}
}

// New creates a Loader.
func New(opts ...Option) (*Loader, error) {
	o := loaderOptions{cacheSize: DefaultCacheSize, logger: log.New(io.Discard), environ: os.Environ}
	for _, opt := range opts {
		opt(&o)
	}
	cache, err := lru.New[cacheKey, *descriptor.File](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create descriptor cache: %w", err)
	}
	return &Loader{cache: cache, logger: o.logger, environ: o.environ}, nil
}

// Load discovers and decodes every descriptor under projectDir and loads the
// override table named by cfg. Every descriptor that fails to decode is
// reported; a project with any broken descriptor yields no Store.
func (l *Loader) Load(ctx context.Context, projectDir string, cfg *config.Config) (*Result, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	m, err := NewMatcher(cfg.DescriptorGlobs, cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidGlob, err)
	}
	files, err := Discover(ctx, abs, m)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("discover module descriptors").
			WithResource(abs).
			WithSuggestion("Check that the project directory exists and is readable").
			Wrap(err).
			BuildError()
	}
	l.logger.Debug("discovered descriptors", "dir", abs, "count", len(files))

	res := &Result{ProjectDir: abs, Files: files}
	descs := make([]descriptor.Descriptor, 0, len(files))
	var parseErrs []error
	for _, rel := range files {
		f, cached, err := l.decode(filepath.Join(abs, filepath.FromSlash(rel)))
		if err != nil {
			parseErrs = append(parseErrs, issue.NewErrorContext().
				WithOperation("load module descriptor").
				WithResource(rel).
				WithTopic(issue.DescriptorParseErrorId).
				Wrap(err).
				Build())
			continue
		}
		if cached {
			res.Cached++
		}
		dir := filepath.Dir(filepath.FromSlash(rel))
		descs = append(descs, f.Descriptor(dir, rel))
	}
	if len(parseErrs) > 0 {
		return nil, errors.Join(parseErrs...)
	}

	store, err := descriptor.NewStore(descs...)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("build module store").
			WithResource(abs).
			WithSuggestion("Rename one module or exclude the stray copy").
			WithTopic(issue.DuplicateModuleId).
			Wrap(err).
			BuildError()
	}
	res.Store = store

	if err := l.loadOverrides(res, cfg); err != nil {
		return nil, err
	}
	l.logger.Debug("loaded project", "modules", store.Len(), "cached", res.Cached, "overrides", res.Overrides.Len())
	return res, nil
}

// decode returns the parsed file, reusing the cached result when the file
// size and modification time are unchanged.
func (l *Loader) decode(path string) (*descriptor.File, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	key := cacheKey{path: path, size: info.Size(), modTime: info.ModTime().UnixNano()}
	if f, ok := l.cache.Get(key); ok {
		return f, true, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	f, err := descriptor.Parse(data, path)
	if err != nil {
		return nil, false, err
	}
	l.cache.Add(key, f)
	return f, false, nil
}

// loadOverrides reads the override file, expands variables in its paths and
// indexes the rules. The default file may be absent; a configured one must
// exist.
func (l *Loader) loadOverrides(res *Result, cfg *config.Config) error {
	if cfg.OverridesFile == "" {
		return nil
	}
	path := projectPath(res.ProjectDir, cfg.OverridesFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && cfg.OverridesFile == config.DefaultOverridesFile {
		l.logger.Debug("no override file", "path", path)
		return nil
	}
	if err != nil {
		return overridesError(path, err)
	}

	rules, err := platform.ParseOverrides(data, path)
	if err != nil {
		return overridesError(path, err)
	}

	environ, err := Environ(projectPath(res.ProjectDir, cfg.EnvFile), l.environ())
	if err != nil {
		return overridesError(path, err)
	}
	var expandErrs []error
	for i := range rules {
		expanded, err := ExpandPath(rules[i].Path, environ)
		if err != nil {
			expandErrs = append(expandErrs, fmt.Errorf("%s/%s/%s: %w", rules[i].Platform, rules[i].Module, rules[i].Scope, err))
			continue
		}
		rules[i].Path = expanded
	}
	if len(expandErrs) > 0 {
		return overridesError(path, errors.Join(expandErrs...))
	}

	table, err := platform.NewOverrideTable(rules...)
	if err != nil {
		return overridesError(path, err)
	}
	res.Overrides = table
	res.OverridesFile = path
	return nil
}

func overridesError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load platform overrides").
		WithResource(path).
		WithTopic(issue.InvalidOverridesId).
		Wrap(err).
		BuildError()
}

// projectPath joins a relative configured path to the project root.
func projectPath(projectDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectDir, p)
}
