// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/modgraph/modgraph/pkg/descriptor"
	"github.com/modgraph/modgraph/pkg/platform"
)

type (
	// ScopePath is one declared scope mapped to its absolute directory.
	ScopePath struct {
		Scope      descriptor.ScopeID
		Visibility descriptor.Visibility
		Path       string
		// Overridden is true when a platform override rule supplied Path.
		Overridden bool
	}

	// ModulePaths is the output of the path resolver for one module.
	ModulePaths struct {
		Public  []ScopePath
		Private []ScopePath
	}

	pathResult struct {
		paths ModulePaths
		// checks lists the scopes whose directory still has to be tested.
		checks []ScopePath
		diags  []Diagnostic
	}
)

// PublicPaths returns the public directories in declaration order.
func (m ModulePaths) PublicPaths() []string { return pathsOf(m.Public) }

// PrivatePaths returns the private directories in declaration order.
func (m ModulePaths) PrivatePaths() []string { return pathsOf(m.Private) }

func pathsOf(sp []ScopePath) []string {
	out := make([]string, len(sp))
	for i, p := range sp {
		out[i] = p.Path
	}
	return out
}

// ResolvePaths maps every scope of d to an absolute directory for platform p.
// An exact (p, module, scope) override wins; relative override paths are
// joined to projectRoot. Otherwise the scope is joined to the module root.
// Declaration order is preserved and nothing is de-duplicated. The function
// performs no I/O, so paths are absolute only when projectRoot is.
func ResolvePaths(d descriptor.Descriptor, p platform.ID, overrides *platform.OverrideTable, projectRoot string) ModulePaths {
	return resolveModulePaths(d, p, overrides, projectRoot).paths
}

func resolveModulePaths(d descriptor.Descriptor, p platform.ID, overrides *platform.OverrideTable, projectRoot string) pathResult {
	root := d.Root
	if !filepath.IsAbs(root) && projectRoot != "" {
		root = filepath.Join(projectRoot, root)
	}

	var res pathResult
	for _, s := range d.Scopes {
		sp := ScopePath{Scope: s.ID, Visibility: s.Visibility}

		if rule, ok := overrides.Lookup(p, d.Name, s.ID); ok {
			sp.Overridden = true
			sp.Path = filepath.FromSlash(rule.Path)
			if !filepath.IsAbs(sp.Path) {
				sp.Path = filepath.Join(projectRoot, sp.Path)
			}
			sp.Path = filepath.Clean(sp.Path)
			res.checks = append(res.checks, sp)
		} else {
			sp.Path = filepath.Join(root, filepath.FromSlash(string(s.ID)))
			if seg, reserved := platform.ReservedSegment(string(s.ID)); reserved && p.IsWindows() {
				res.diags = append(res.diags, Diagnostic{
					Module:   d.Name,
					Kind:     KindMissingDirectory,
					Severity: SeverityError,
					Stage:    StagePaths,
					Scope:    s.ID,
					Path:     sp.Path,
					Detail:   fmt.Sprintf("scope %q cannot exist on %s: %q is a reserved device name; add a platform override", s.ID, p, seg),
				})
			} else {
				res.checks = append(res.checks, sp)
			}
		}

		switch s.Visibility {
		case descriptor.Public:
			res.paths.Public = append(res.paths.Public, sp)
		case descriptor.Private:
			res.paths.Private = append(res.paths.Private, sp)
		}
	}
	return res
}

// resolveAllPaths runs the path resolver for every module in parallel, then
// checks each distinct directory once and records MissingDirectory
// diagnostics. Results are indexed by store position.
func (r *Resolver) resolveAllPaths(descs []descriptor.Descriptor, in Input, projectRoot string) ([]ModulePaths, []Diagnostic) {
	results := make([]pathResult, len(descs))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, d := range descs {
		g.Go(func() error {
			results[i] = resolveModulePaths(d, in.Platform, in.Overrides, projectRoot)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	exists := r.checkDirs(results)

	paths := make([]ModulePaths, len(descs))
	var diags []Diagnostic
	for i, res := range results {
		paths[i] = res.paths
		diags = append(diags, res.diags...)
		for _, sp := range res.checks {
			if exists[sp.Path] {
				continue
			}
			detail := fmt.Sprintf("%s scope %q resolves to %s, which does not exist", sp.Visibility, sp.Scope, sp.Path)
			if sp.Overridden {
				detail = fmt.Sprintf("platform override for %s scope %q points to %s, which does not exist", sp.Visibility, sp.Scope, sp.Path)
			}
			diags = append(diags, Diagnostic{
				Module:   descs[i].Name,
				Kind:     KindMissingDirectory,
				Severity: SeverityError,
				Stage:    StagePaths,
				Scope:    sp.Scope,
				Path:     sp.Path,
				Detail:   detail,
			})
		}
	}
	return paths, diags
}

// checkDirs tests every distinct pending directory once, in parallel.
func (r *Resolver) checkDirs(results []pathResult) map[string]bool {
	var unique []string
	seen := make(map[string]bool)
	for _, res := range results {
		for _, sp := range res.checks {
			if !seen[sp.Path] {
				seen[sp.Path] = true
				unique = append(unique, sp.Path)
			}
		}
	}

	var (
		mu     sync.Mutex
		exists = make(map[string]bool, len(unique))
		g      errgroup.Group
	)
	g.SetLimit(r.workers)
	for _, dir := range unique {
		g.Go(func() error {
			ok := r.checker.Exists(dir)
			mu.Lock()
			exists[dir] = ok
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return exists
}

// detectConflicts reports every include directory claimed by more than one
// module, on each module after the first claimant in store order.
func detectConflicts(descs []descriptor.Descriptor, paths []ModulePaths) []Diagnostic {
	owner := make(map[string]descriptor.ModuleName)
	var diags []Diagnostic
	for i, d := range descs {
		reported := make(map[string]bool)
		for _, sp := range slices.Concat(paths[i].Public, paths[i].Private) {
			first, claimed := owner[sp.Path]
			if !claimed {
				owner[sp.Path] = d.Name
				continue
			}
			if first == d.Name || reported[sp.Path] {
				continue
			}
			reported[sp.Path] = true
			diags = append(diags, Diagnostic{
				Module:   d.Name,
				Kind:     KindPathConflict,
				Severity: SeverityWarning,
				Stage:    StagePaths,
				Scope:    sp.Scope,
				Path:     sp.Path,
				Related:  first,
				Detail:   fmt.Sprintf("include directory %s of scope %q is also claimed by module %q", sp.Path, sp.Scope, first),
			})
		}
	}
	return diags
}
