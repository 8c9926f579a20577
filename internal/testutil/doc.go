// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixture helpers for tests that need a project on
// disk: writing descriptor trees (WriteProject, MustWriteFile) and generating
// large layered projects for determinism tests and benchmarks
// (GenerateProject).
package testutil
