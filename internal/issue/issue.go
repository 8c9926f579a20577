// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	xslices "golang.org/x/exp/slices"

	"github.com/modgraph/modgraph/pkg/resolve"
)

// Issue identifiers. Values start at 1 so the zero Id is never valid.
const (
	MissingDirectoryId Id = iota + 1
	UnknownModuleId
	CyclicDependencyId
	PathConflictId
	DescriptorParseErrorId
	DuplicateModuleId
	InvalidOverridesId
	ConfigLoadFailedId
	InvalidPlatformId
)

type (
	// Id identifies one catalog entry.
	Id int

	// MarkdownMsg is the help text of an issue.
	MarkdownMsg string

	// Issue is one catalog entry: a slug usable on the command line and
	// Markdown guidance.
	Issue struct {
		id      Id
		slug    string
		title   string
		mdMsg   MarkdownMsg
		related []Id
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id { return i.id }

// Slug returns the command-line name, e.g. "unknown_module".
func (i *Issue) Slug() string { return i.slug }

// Title returns the heading of the issue.
func (i *Issue) Title() string { return i.title }

// MarkdownMsg returns the raw help text.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// Related returns the identifiers of related issues.
func (i *Issue) Related() []Id { return xslices.Clone(i.related) }

// Markdown returns the full document: title, body, and related slugs.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", i.title)
	sb.WriteString(string(i.mdMsg))
	if len(i.related) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, id := range i.related {
			if r := Get(id); r != nil {
				fmt.Fprintf(&sb, "- `modgraph explain %s`\n", r.slug)
			}
		}
	}
	return sb.String()
}

// Render renders the issue for a terminal using the named glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	issues = map[Id]*Issue{
		MissingDirectoryId: {
			id:    MissingDirectoryId,
			slug:  string(resolve.KindMissingDirectory),
			title: "Missing include directory",
			mdMsg: `
A declared scope resolved to a directory that does not exist. The path still
appears in the module's include list so the plan stays complete, but the
compiler will not find headers there.

## How scope paths are resolved
1. An override rule for exactly (platform, module, scope) wins.
2. Otherwise the scope is joined to the module root. The scope ` + "`.`" + ` is the
   root itself.

On Windows targets a scope segment named after a device (` + "`CON`, `AUX`, `NUL`" + `,
...) can never exist and is reported here too.

## Things you can try
- Create the directory, or remove the scope from the descriptor.
- If the headers live elsewhere on this platform, add an override:
~~~cue
overrides: Win64: [
	{module: "Audio", scope: "Public", path: "Audio/Platform/Windows/Public"},
]
~~~`,
			related: []Id{InvalidOverridesId, PathConflictId},
		},
		UnknownModuleId: {
			id:    UnknownModuleId,
			slug:  string(resolve.KindUnknownModule),
			title: "Unknown module",
			mdMsg: `
A descriptor depends on a module name that no descriptor declares. The edge is
ignored and the module resolves with its remaining dependencies.

Module names are case-sensitive: ` + "`Core`" + ` and ` + "`core`" + ` are different modules.

## Things you can try
- Check the spelling in ` + "`public_deps`" + ` / ` + "`private_deps`" + `.
- Make sure the dependency's descriptor matches ` + "`descriptor_globs`" + ` and is
  not excluded in your configuration.
- List what was discovered:
~~~
$ modgraph graph
~~~`,
			related: []Id{DescriptorParseErrorId},
		},
		CyclicDependencyId: {
			id:    CyclicDependencyId,
			slug:  string(resolve.KindCyclicDependency),
			title: "Cyclic dependency",
			mdMsg: `
Modules depend on each other in a loop, e.g. ` + "`A -> B -> A`" + `, or a module lists
itself as a dependency (` + "`A -> A`" + `).

Every module on the cycle is marked cyclic: it keeps only its own include
paths and links nothing. Modules that depend on a cyclic module still see its
public paths and link against it, but resolution does not continue through
it; they get a warning of this kind.

## Things you can try
- Move the shared declarations into a new module both sides depend on.
- Turn one direction into a forward declaration and drop the edge.`,
		},
		PathConflictId: {
			id:    PathConflictId,
			slug:  string(resolve.KindPathConflict),
			title: "Path conflict",
			mdMsg: `
Two modules resolved a scope to the same directory. This is a warning: both
modules keep the path, but headers in it are now owned twice, which usually
means a copy-pasted descriptor or an override pointing at the wrong module.

The first module in discovery order is treated as the owner; every later
claimant is reported.`,
			related: []Id{MissingDirectoryId},
		},
		DescriptorParseErrorId: {
			id:    DescriptorParseErrorId,
			slug:  "descriptor_parse_error",
			title: "Invalid module descriptor",
			mdMsg: `
A descriptor file could not be decoded or failed validation.

## Supported formats
- ` + "`*.module.cue`" + `
- ` + "`*.module.toml`" + `
- ` + "`*.module.yaml`" + ` / ` + "`*.module.yml`" + `

## Example
~~~cue
name:           "Player"
public_scopes:  ["Public"]
private_scopes: ["Private"]
public_deps:    ["Core"]
private_deps:   ["Audio"]
pch_usage:      "explicit_or_shared"
~~~

Scope names are relative to the module directory and may not escape it.
Unknown fields are rejected.`,
			related: []Id{DuplicateModuleId},
		},
		DuplicateModuleId: {
			id:    DuplicateModuleId,
			slug:  "duplicate_module",
			title: "Duplicate module name",
			mdMsg: `
Two descriptor files declare the same module name. Names must be unique across
the project, so resolution cannot start.

## Things you can try
- Rename one of the modules.
- Exclude the stray copy with ` + "`exclude`" + ` in ` + "`modgraph.cue`" + `.`,
		},
		InvalidOverridesId: {
			id:    InvalidOverridesId,
			slug:  "invalid_overrides",
			title: "Invalid platform overrides",
			mdMsg: `
The platform override file could not be loaded. Each rule needs a module, a
scope and a path, and a (platform, module, scope) triple may appear only once.

Paths may reference environment variables (` + "`$SDK_ROOT`, `${SDK_ROOT}`" + `). Values
come from the environment first, then from the project ` + "`.env`" + ` file; an
undefined variable is an error.

## Example
~~~cue
overrides: {
	Win64: [
		{module: "Audio", scope: "Public", path: "Audio/Platform/Windows/Public"},
	]
	Android: [
		{module: "Input", scope: "Private", path: "${NDK_ROOT}/sources/input"},
	]
}
~~~`,
			related: []Id{MissingDirectoryId, InvalidPlatformId},
		},
		ConfigLoadFailedId: {
			id:    ConfigLoadFailedId,
			slug:  "config_load_failed",
			title: "Configuration error",
			mdMsg: `
The modgraph configuration could not be loaded.

## Lookup order
1. ` + "`--config <file>`" + `
2. ` + "`<project>/modgraph.cue`" + `
3. ` + "`$XDG_CONFIG_HOME/modgraph/config.cue`" + `

Environment variables prefixed with ` + "`MODGRAPH_`" + ` override file values.

## Example
~~~cue
platform:         "Win64"
descriptor_globs: ["**/*.module.cue", "**/*.module.toml"]
exclude:          ["ThirdParty/**"]
workers:          8
output: format:   "text"
~~~`,
		},
		InvalidPlatformId: {
			id:    InvalidPlatformId,
			slug:  "invalid_platform",
			title: "Invalid platform",
			mdMsg: `
Platform identifiers start with a letter and contain only letters, digits and
underscores. Known platforms (` + "`Win64`, `Mac`, `Linux`, `LinuxArm64`, `Android`, `IOS`" + `)
match case-insensitively; any other well-formed name is accepted as a custom
target.`,
		},
	}
)

// Get returns the issue with the given identifier, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Values returns every issue ordered by identifier.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, len(ids))
	for i, id := range ids {
		out[i] = issues[id]
	}
	return out
}

// Lookup finds an issue by slug. Diagnostic kinds are accepted in any
// spelling resolve.ParseKind understands.
func Lookup(name string) (*Issue, bool) {
	if k, err := resolve.ParseKind(name); err == nil {
		name = string(k)
	}
	name = strings.ToLower(strings.TrimSpace(name))
	all := Values()
	if idx := xslices.IndexFunc(all, func(i *Issue) bool { return i.slug == name }); idx >= 0 {
		return all[idx], true
	}
	return nil, false
}

// ForKind returns the issue describing a diagnostic kind.
func ForKind(k resolve.Kind) *Issue {
	i, _ := Lookup(string(k))
	return i
}

// Slugs returns every issue slug ordered by identifier.
func Slugs() []string {
	all := Values()
	out := make([]string, len(all))
	for i, is := range all {
		out[i] = is.slug
	}
	return out
}
