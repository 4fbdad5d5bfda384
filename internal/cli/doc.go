// Package cli renders command results for terminal consumption.
//
// Every listing supports four output formats: a kubectl-style plain table
// (the default), a wide table with extra columns, JSON, and YAML. Table
// output is built for copy/paste and for piping into grep, awk, and cut;
// JSON and YAML are built for scripting. The --no-headers table variant
// drops the header row and the trailing summary line so each output line
// is one record.
//
// The package also carries the small interactive pieces the commands
// share: the yes/no confirmation prompt and the colored status prefixes
// for success, warning, and error lines.
package cli
