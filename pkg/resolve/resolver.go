// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/modgraph/modgraph/pkg/descriptor"
	"github.com/modgraph/modgraph/pkg/platform"
)

// ErrNoStore is returned when Resolve is called without a Store.
var ErrNoStore = errors.New("no descriptor store")

type (
	// Resolver runs resolution passes. It holds no state between passes and
	// is safe for concurrent use.
	Resolver struct {
		checker     PathChecker
		projectRoot string
		workers     int
		logger      *log.Logger
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// Input is everything one pass consumes.
	Input struct {
		Store *descriptor.Store
		// Overrides may be nil.
		Overrides *platform.OverrideTable
		Platform  platform.ID
	}

	// ResolvedModule is the final, derived view of one module.
	ResolvedModule struct {
		Name descriptor.ModuleName
		// IncludePaths is own public, own private, then the public paths of
		// every reachable dependency, nearest first, de-duplicated.
		IncludePaths []string
		// PublicIncludePaths is the module's own public directories.
		PublicIncludePaths []string
		// LinkModules is the set of modules whose paths were included,
		// excluding the module itself.
		LinkModules []descriptor.ModuleName
		PCHUsage    descriptor.PCHUsage
		// Cyclic is true when the module lies on a dependency cycle. Its
		// include set is then limited to its own paths and it links nothing.
		Cyclic bool
		// Warnings are the diagnostics that concern this module.
		Warnings []Diagnostic
	}

	// Plan is the result of one resolution pass.
	Plan struct {
		Platform platform.ID
		// Modules follows store order.
		Modules []ResolvedModule
		// BuildOrder lists acyclic modules with dependencies first.
		BuildOrder  []descriptor.ModuleName
		Graph       *DependencyGraph
		Diagnostics *Report
	}
)

// WithPathChecker sets the directory existence check. Defaults to OSPathChecker.
func WithPathChecker(c PathChecker) Option {
	return func(r *Resolver) {
		r.checker = c
	}
}

// WithProjectRoot sets the directory that relative override paths and
// relative module roots are joined to. Defaults to the working directory.
func WithProjectRoot(root string) Option {
	return func(r *Resolver) {
		r.projectRoot = filepath.Clean(root)
	}
}

// WithWorkers bounds the number of modules resolved in parallel. Values
// below 1 are ignored.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger for phase-level debug output.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		checker: OSPathChecker{},
		workers: runtime.GOMAXPROCS(0),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs one pass. It returns an error only for unusable input (no
// Store, malformed platform); every problem inside the descriptors is
// reported in Plan.Diagnostics and the plan covers every module.
func (r *Resolver) Resolve(in Input) (*Plan, error) {
	if in.Store == nil {
		return nil, ErrNoStore
	}
	if ok, errs := in.Platform.IsValid(); !ok {
		return nil, fmt.Errorf("resolve: %w", errors.Join(errs...))
	}

	root, err := filepath.Abs(r.projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	start := time.Now()
	descs := in.Store.Descriptors()
	r.logger.Debug("resolution started", "platform", in.Platform, "modules", len(descs), "overrides", in.Overrides.Len())

	modPaths, pathDiags := r.resolveAllPaths(descs, in, root)
	pathDiags = append(pathDiags, detectConflicts(descs, modPaths)...)
	r.logger.Debug("paths resolved", "diagnostics", len(pathDiags))

	graph := BuildGraph(in.Store)
	r.logger.Debug("graph built", "cycles", len(graph.cycles), "diagnostics", len(graph.diags))

	byName := make(map[descriptor.ModuleName]ModulePaths, len(descs))
	for i, d := range descs {
		byName[d.Name] = modPaths[i]
	}
	vis := newVisibility(graph, byName)
	modules := make([]ResolvedModule, len(descs))
	for i, d := range descs {
		modules[i] = vis.resolve(d)
	}

	report := newReport(in.Store, slices.Concat(pathDiags, graph.diags, vis.diags))
	for i := range modules {
		m := &modules[i]
		m.Warnings = report.ForModule(m.Name)
		if m.Cyclic {
			for _, d := range graph.cycleDiagnostics(m.Name) {
				if d.Module != m.Name {
					m.Warnings = append(m.Warnings, d)
				}
			}
		}
	}

	plan := &Plan{
		Platform:    in.Platform,
		Modules:     modules,
		BuildOrder:  graph.BuildOrder(),
		Graph:       graph,
		Diagnostics: report,
	}
	r.logger.Debug("resolution finished",
		"errors", report.Count(SeverityError),
		"warnings", report.Count(SeverityWarning),
		"elapsed", time.Since(start))
	return plan, nil
}

// Module returns the resolved module with the given name.
func (p *Plan) Module(name descriptor.ModuleName) (ResolvedModule, bool) {
	for _, m := range p.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return ResolvedModule{}, false
}
