// Package cli implements the pingstrip command-line interface.
//
// Each Cobra command is a thin shell over an exported function taking an
// options struct (Watch, Run, Probe, Init), so the behavior can be exercised
// without going through flag parsing.
//
// # Command Structure
//
//	pingstrip               - Same as "pingstrip watch"
//	pingstrip watch         - Full-screen strip viewer
//	pingstrip run           - Headless sampling: log lines, PNG file, HTTP server
//	pingstrip probe         - One or more probes, then a summary
//	pingstrip init          - Create .pingstrip.yaml
//	pingstrip doctor        - Check config, ping command or SSH host, and target
//	pingstrip version       - Print version information
//	pingstrip completion    - Shell completion scripts
//
// # Configuration
//
// Every command except init, doctor and version loads config the same way: the
// --config path or the first .pingstrip.yaml found (see config.Find), then
// PINGSTRIP_* environment variables, then the global flags --target,
// --interval, --strategy and --samples. The result is validated before any
// probe runs; warnings go to stderr.
package cli
