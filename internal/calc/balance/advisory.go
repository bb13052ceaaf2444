package balance

import "fmt"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Advisory is an annotation returned next to a successful result. It never
// aborts a calculation.
type Advisory struct {
	Type    Severity `json:"type"`
	Title   string   `json:"title,omitempty"`
	Message string   `json:"message"`
}

func Note(sev Severity, format string, args ...any) Advisory {
	return Advisory{Type: sev, Message: fmt.Sprintf(format, args...)}
}

func Titled(sev Severity, title, format string, args ...any) Advisory {
	return Advisory{Type: sev, Title: title, Message: fmt.Sprintf(format, args...)}
}

// Element is a tracked chemical element, spelled the way it appears in JSON keys.
type Element string

const (
	Sb Element = "sb"
	Na Element = "na"
	As Element = "as"
	Mo Element = "mo"
	Cu Element = "cu"
	Fe Element = "fe"
	Si Element = "si"
	Au Element = "au"
	Pb Element = "pb"
)
