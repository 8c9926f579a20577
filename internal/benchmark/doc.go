// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the hot paths of a resolution pass:
//   - CUE descriptor decoding
//   - project loading, cold and with a warm decode cache
//   - path, graph and visibility resolution over a layered project
//
// They also serve as the workload for PGO profiles:
//
//	go test -run=^$ -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
