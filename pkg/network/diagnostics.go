package network

import "fmt"

// DiagKind classifies a non-fatal problem found during analysis.
type DiagKind string

const (
	// DiagUnknownComponent: a component type has no wiring rule; it gets no
	// node and does not take part in the graph.
	DiagUnknownComponent DiagKind = "unknown-component"

	// DiagUnresolvedPurpose: no parent of a multi-ingredient assembler could
	// be assigned its missing ingredients. Those parents grant no flow for
	// the missing items.
	DiagUnresolvedPurpose DiagKind = "unresolved-purpose"
)

// Diagnostic is a warning surfaced to the caller. Diagnostics never abort a
// run.
type Diagnostic struct {
	Kind      DiagKind `json:"kind"`
	Component string   `json:"component"` // component ID
	Message   string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Component, d.Message)
}

// Diagnostics returns the warnings accumulated so far, in discovery order.
func (n *Network) Diagnostics() []Diagnostic { return n.diags }

// diagnose records a diagnostic once per kind and component.
func (n *Network) diagnose(kind DiagKind, component, format string, args ...any) {
	key := string(kind) + "\x00" + component
	if n.diagSeen[key] {
		return
	}
	if n.diagSeen == nil {
		n.diagSeen = make(map[string]bool)
	}
	n.diagSeen[key] = true
	n.diags = append(n.diags, Diagnostic{Kind: kind, Component: component, Message: fmt.Sprintf(format, args...)})
}
