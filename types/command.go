package types

// CommandType discriminates live-update command variants.
type CommandType string

// CommandRefresh replaces the displayed content in place.
const CommandRefresh CommandType = "refresh"

// ViewerCommand is a live-update instruction written by the caller to the
// command artifact. The file is replaced atomically on each send, so a
// consumer never observes a partially written command.
type ViewerCommand struct {
	Type CommandType `json:"type"`

	// Seq is the strictly increasing sequence number allocated by the
	// sending handle. The viewer echoes it in the response; it is the sole
	// correlation mechanism between a command and its acknowledgement.
	Seq uint64 `json:"seq"`

	// Content is the replacement content for refresh commands.
	Content ViewerContent `json:"content"`
}

// ViewerCommandResponse is the viewer's acknowledgement of a command,
// written to the command-response artifact.
type ViewerCommandResponse struct {
	// Seq echoes the sequence number of the command being acknowledged.
	Seq uint64 `json:"seq"`

	// Success reports whether the command was applied.
	Success bool `json:"success"`

	// Error carries detail when Success is false.
	Error string `json:"error,omitempty"`
}
