// SPDX-License-Identifier: MPL-2.0

package render

import (
	"github.com/modgraph/modgraph/pkg/descriptor"
	"github.com/modgraph/modgraph/pkg/resolve"
)

type (
	// Document is the serializable form of a plan shared by the JSON, YAML,
	// and TOML encoders.
	Document struct {
		Platform    string          `json:"platform" yaml:"platform" toml:"platform"`
		Summary     Summary         `json:"summary" yaml:"summary" toml:"summary"`
		BuildOrder  []string        `json:"build_order" yaml:"build_order" toml:"build_order"`
		Modules     []ModuleDoc     `json:"modules" yaml:"modules" toml:"modules"`
		Diagnostics []DiagnosticDoc `json:"diagnostics" yaml:"diagnostics" toml:"diagnostics"`
	}

	// Summary counts modules and diagnostics.
	Summary struct {
		Modules  int `json:"modules" yaml:"modules" toml:"modules"`
		Cyclic   int `json:"cyclic" yaml:"cyclic" toml:"cyclic"`
		Errors   int `json:"errors" yaml:"errors" toml:"errors"`
		Warnings int `json:"warnings" yaml:"warnings" toml:"warnings"`
	}

	// ModuleDoc is one resolved module.
	ModuleDoc struct {
		Name               string   `json:"name" yaml:"name" toml:"name"`
		IncludePaths       []string `json:"include_paths" yaml:"include_paths" toml:"include_paths"`
		PublicIncludePaths []string `json:"public_include_paths" yaml:"public_include_paths" toml:"public_include_paths"`
		LinkModules        []string `json:"link_modules" yaml:"link_modules" toml:"link_modules"`
		PCHUsage           string   `json:"pch_usage,omitempty" yaml:"pch_usage,omitempty" toml:"pch_usage,omitempty"`
		Cyclic             bool     `json:"cyclic,omitempty" yaml:"cyclic,omitempty" toml:"cyclic,omitempty"`
	}

	// DiagnosticDoc is one diagnostic.
	DiagnosticDoc struct {
		Module   string   `json:"module" yaml:"module" toml:"module"`
		Kind     string   `json:"kind" yaml:"kind" toml:"kind"`
		Severity string   `json:"severity" yaml:"severity" toml:"severity"`
		Stage    string   `json:"stage" yaml:"stage" toml:"stage"`
		Detail   string   `json:"detail" yaml:"detail" toml:"detail"`
		Scope    string   `json:"scope,omitempty" yaml:"scope,omitempty" toml:"scope,omitempty"`
		Path     string   `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
		Related  string   `json:"related,omitempty" yaml:"related,omitempty" toml:"related,omitempty"`
		Cycle    []string `json:"cycle,omitempty" yaml:"cycle,omitempty" toml:"cycle,omitempty"`
	}
)

// NewDocument converts a plan. Empty lists are kept as empty, not null.
func NewDocument(plan *resolve.Plan) Document {
	doc := Document{
		Platform:    string(plan.Platform),
		BuildOrder:  names(plan.BuildOrder),
		Modules:     make([]ModuleDoc, 0, len(plan.Modules)),
		Diagnostics: make([]DiagnosticDoc, 0, plan.Diagnostics.Len()),
		Summary: Summary{
			Modules:  len(plan.Modules),
			Errors:   plan.Diagnostics.Count(resolve.SeverityError),
			Warnings: plan.Diagnostics.Count(resolve.SeverityWarning),
		},
	}

	for _, m := range plan.Modules {
		if m.Cyclic {
			doc.Summary.Cyclic++
		}
		doc.Modules = append(doc.Modules, ModuleDoc{
			Name:               string(m.Name),
			IncludePaths:       nonNil(m.IncludePaths),
			PublicIncludePaths: nonNil(m.PublicIncludePaths),
			LinkModules:        names(m.LinkModules),
			PCHUsage:           string(m.PCHUsage),
			Cyclic:             m.Cyclic,
		})
	}

	for _, d := range plan.Diagnostics.All() {
		dd := DiagnosticDoc{
			Module:   string(d.Module),
			Kind:     string(d.Kind),
			Severity: string(d.Severity),
			Stage:    d.Stage.String(),
			Detail:   d.Detail,
			Scope:    string(d.Scope),
			Path:     d.Path,
			Related:  string(d.Related),
		}
		if len(d.Cycle) > 0 {
			dd.Cycle = names(d.Cycle)
		}
		doc.Diagnostics = append(doc.Diagnostics, dd)
	}
	return doc
}

func names(in []descriptor.ModuleName) []string {
	out := make([]string, len(in))
	for i, n := range in {
		out[i] = string(n)
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
