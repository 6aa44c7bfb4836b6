// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides a buffered slog handler for
// asserting on log output in tests.
package shared
