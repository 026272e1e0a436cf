package shared

// ErrInvalidTimeframe indicates an unrecognized timeframe keyword
type ErrInvalidTimeframe struct {
	Value string
}

func (e ErrInvalidTimeframe) Error() string {
	return "invalid timeframe: " + e.Value
}

// Is implements the errors.Is interface for ErrInvalidTimeframe
func (e ErrInvalidTimeframe) Is(target error) bool {
	t, ok := target.(ErrInvalidTimeframe)
	if !ok {
		return false
	}
	// An empty target Value matches any ErrInvalidTimeframe
	if t.Value == "" {
		return true
	}
	return e.Value == t.Value
}
