// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "load overrides"}, "failed to load overrides"},
		{
			"with resource",
			&ActionableError{Operation: "load overrides", Resource: "modgraph.overrides.cue"},
			"failed to load overrides: modgraph.overrides.cue",
		},
		{
			"with cause",
			&ActionableError{Operation: "load overrides", Resource: "o.cue", Cause: errors.New("boom")},
			"failed to load overrides: o.cue: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("build module store").WithResource("Core").Wrap(sentinel).BuildError()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is does not see the cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("permission denied")
	err := NewErrorContext().
		WithOperation("read descriptor").
		WithResource("Core/Core.module.cue").
		WithSuggestion("Check file permissions").
		WithSuggestion("Run with --verbose").
		Wrap(fmtWrap(inner)).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "  • Check file permissions") || !strings.Contains(short, "  • Run with --verbose") {
		t.Errorf("Format(false) missing suggestions:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("Format(false) must not include the chain:\n%s", short)
	}

	long := err.Format(true)
	if !strings.Contains(long, "Error chain:") || !strings.Contains(long, "2. permission denied") {
		t.Errorf("Format(true) missing chain:\n%s", long)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation must return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want untyped nil", err)
	}

	ctx := NewErrorContext().WithOperation("parse").WithSuggestion("a")
	first := ctx.Build()
	ctx.WithSuggestion("b")
	if len(first.Suggestions) != 1 {
		t.Errorf("built error shares suggestions with its builder: %v", first.Suggestions)
	}
}

type wrapped struct{ cause error }

func (w *wrapped) Error() string { return "open: " + w.cause.Error() }
func (w *wrapped) Unwrap() error { return w.cause }

func fmtWrap(err error) error { return &wrapped{cause: err} }

func TestActionableError_Topic(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("load platform overrides").
		WithResource("modgraph.overrides.cue").
		WithSuggestion("Check the platform keys").
		WithTopic(InvalidOverridesId).
		Wrap(errors.New("duplicate rule")).
		Build()

	want := []string{
		"Check the platform keys",
		"Run 'modgraph explain invalid_overrides' for details",
	}
	if got := err.Hints(); !slices.Equal(got, want) {
		t.Errorf("Hints() = %q, want %q", got, want)
	}
	if !strings.HasSuffix(err.Format(false), "  • "+want[1]) {
		t.Errorf("Format(false) does not end with the explain hint:\n%s", err.Format(false))
	}

	is, ok := TopicOf(fmt.Errorf("load: %w", err))
	if !ok || is.Id() != InvalidOverridesId {
		t.Errorf("TopicOf() = %v, %v, want invalid_overrides", is, ok)
	}
	if _, ok := TopicOf(errors.New("plain")); ok {
		t.Error("TopicOf(plain error) reported a topic")
	}
	noTopic := NewErrorContext().WithOperation("discover module descriptors").Build()
	if len(noTopic.Hints()) != 0 {
		t.Errorf("Hints() without topic = %q, want none", noTopic.Hints())
	}
	if _, ok := TopicOf(noTopic); ok {
		t.Error("TopicOf() reported a topic for an error without one")
	}
}
