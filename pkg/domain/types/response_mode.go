package types

// ResponseMode selects how a workflow result is presented.
type ResponseMode int

const (
	// ResponseModeDocument renders a full HTML document.
	ResponseModeDocument ResponseMode = iota
	// ResponseModeRecord serializes a structured record for API-style callers.
	ResponseModeRecord
)

func (m ResponseMode) String() string {
	switch m {
	case ResponseModeDocument:
		return "document"
	case ResponseModeRecord:
		return "record"
	default:
		return "unknown"
	}
}
