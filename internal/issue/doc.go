// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and the help catalog behind
// `modgraph explain`.
//
// ActionableError carries what was attempted, on which resource, and what the
// user can do about it. Issue holds Markdown guidance for every diagnostic
// kind and every infrastructure failure, rendered to the terminal with
// glamour.
package issue
