// Package shared is the home of helpers used across packages.
//
// Its testutil subpackage builds LinkedIn export workbooks in memory and
// captures slog output for assertions.
package shared
