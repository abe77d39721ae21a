package entities

import "fmt"

// WarningCode classifies an advisory warning raised while planning
type WarningCode int

const (
	// InvalidConversionRatio marks a ratio or per-portion requirement that is not positive.
	// The affected item is planned with zero capacity.
	InvalidConversionRatio WarningCode = iota
	// StockUnderflow marks a request that exceeded the remaining stock and was clamped
	StockUnderflow
	// LookupFailure marks a reference to an id missing from the catalog snapshot
	LookupFailure
	// InconsistentState marks allocation state that no longer matches the session
	InconsistentState
)

// String method for WarningCode enum
func (c WarningCode) String() string {
	switch c {
	case InvalidConversionRatio:
		return "InvalidConversionRatio"
	case StockUnderflow:
		return "StockUnderflow"
	case LookupFailure:
		return "LookupFailure"
	case InconsistentState:
		return "InconsistentState"
	default:
		return "Unknown"
	}
}

// MarshalText renders the code by name in JSON and CSV output
func (c WarningCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Warning is an advisory message attached to a planning result.
// The engine never fails an edit; it reports what it corrected instead.
type Warning struct {
	Code    WarningCode
	ItemID  string
	Message string
}

// NewWarning builds a Warning with a formatted message
func NewWarning(code WarningCode, itemID string, format string, args ...any) Warning {
	return Warning{
		Code:    code,
		ItemID:  itemID,
		Message: fmt.Sprintf(format, args...),
	}
}

func (w Warning) String() string {
	if w.ItemID == "" {
		return fmt.Sprintf("%s: %s", w.Code, w.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", w.Code, w.ItemID, w.Message)
}

// HasWarning reports whether warnings contains at least one entry with code
func HasWarning(warnings []Warning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
