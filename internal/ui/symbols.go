package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Probe answered
	SymbolFail    = "✗" // Probe failed
	SymbolPending = "○" // No result yet
	SymbolWarning = "⚠" // Non-fatal problem
	SymbolArrow   = "→" // Pointer to a follow-up, e.g. a written file
)
