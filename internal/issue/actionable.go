// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError is a load or setup failure reported to a modgraph user:
	// which step of the pipeline failed (discovery, descriptor decoding,
	// override loading, configuration), on which file, and what to do next.
	// Topic links the error to a catalog entry, so the rendered hints always
	// end with the matching 'modgraph explain' command.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load module descriptor").
	//		WithResource("Engine/Engine.module.cue").
	//		WithTopic(issue.DescriptorParseErrorId).
	//		Wrap(cause).
	//		Build()
	ActionableError struct {
		// Operation is a pipeline step, e.g. "load platform overrides".
		Operation string
		// Resource is a descriptor, override file, config file or project
		// directory. Optional.
		Resource string
		// Suggestions are hints specific to this failure.
		Suggestions []string
		// Topic is the catalog entry explaining the failure. Zero means none.
		Topic Id
		Cause error
	}

	// ErrorContext builds an ActionableError step by step.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns "failed to <operation>: <resource>: <cause>".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Hints returns the suggestions followed by the explain command of Topic.
func (e *ActionableError) Hints() []string {
	hints := append([]string(nil), e.Suggestions...)
	if is := Get(e.Topic); is != nil {
		hints = append(hints, fmt.Sprintf("Run 'modgraph explain %s' for details", is.Slug()))
	}
	return hints
}

// Format renders the error and its hints as a bullet list. Verbose output
// appends the numbered cause chain.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if hints := e.Hints(); len(hints) > 0 {
		msg.WriteString("\n")
		for _, h := range hints {
			msg.WriteString("\n  • ")
			msg.WriteString(h)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}
	return msg.String()
}

// TopicOf returns the catalog entry linked to the first ActionableError in
// err's chain.
func TopicOf(err error) (*Issue, bool) {
	var ae *ActionableError
	if !errors.As(err, &ae) {
		return nil, false
	}
	is := Get(ae.Topic)
	return is, is != nil
}

// WithOperation sets the failed pipeline step.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource sets the file or directory involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends hints.
func (c *ErrorContext) WithSuggestion(sugs ...string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, sugs...)
	return c
}

// WithTopic links the error to a catalog entry.
func (c *ErrorContext) WithTopic(id Id) *ErrorContext {
	c.err.Topic = id
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns a copy of the error, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = append([]string(nil), c.err.Suggestions...)
	return &ae
}

// BuildError is Build returned as an error, keeping a nil result untyped.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
