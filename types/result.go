package types

// ExitReason is the reason the viewer exited.
type ExitReason string

// Exit reasons. Values are part of the wire contract.
const (
	// ExitClosedByUser means the user closed the window.
	ExitClosedByUser ExitReason = "closed_by_user"
	// ExitTimedOut means the viewer auto-closed after
	// EnvironmentOptions.TimeoutSeconds elapsed.
	ExitTimedOut ExitReason = "timed_out"
	// ExitError means the viewer encountered an internal error, described
	// in ViewerExitStatus.Message.
	ExitError ExitReason = "error"
)

// ViewerExitStatus is the result artifact written by the viewer before it
// exits. Produced at most once per request.
type ViewerExitStatus struct {
	// ID must match the originating request's ID. A mismatch indicates
	// cross-talk between concurrent requests.
	ID string `json:"id"`

	// Reason is why the viewer exited.
	Reason ExitReason `json:"reason"`

	// Message carries detail for ExitError.
	Message string `json:"message,omitempty"`

	// ViewerVersion is the protocol version of the producing viewer binary.
	// "0.0.0" identifies legacy binaries that predate version reporting.
	ViewerVersion string `json:"viewer_version"`
}
