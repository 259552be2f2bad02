// Package types defines the wire protocol exchanged between the htmlview
// library and the viewer application. Every type in this package crosses
// the process boundary as a JSON artifact inside the per-request working
// area, so field names and tags are contract, not implementation detail.
//
//nolint:revive // types is a common Go package naming convention
package types

// Artifact file names inside the working area. The request and result
// artifacts are written once; the command and response artifacts are
// overwritten in place on each send.
const (
	RequestFileName         = "request.json"
	ResultFileName          = "result.json"
	CommandFileName         = "commands.json"
	CommandResponseFileName = "command_responses.json"
)

// ContentType discriminates the ViewerContent variants.
type ContentType string

// Content variants. The discriminator values are part of the wire contract.
const (
	ContentInlineHTML ContentType = "inline_html"
	ContentLocalFile  ContentType = "local_file"
	ContentAppDir     ContentType = "app_dir"
	ContentRemoteURL  ContentType = "remote_url"
)

// ViewerContent describes what the viewer should display. Exactly one
// variant is populated, selected by Type.
type ViewerContent struct {
	// Type selects the variant.
	Type ContentType `json:"type"`

	// HTML is the inline markup (inline_html only).
	HTML string `json:"html,omitempty"`
	// BaseDir resolves relative asset paths in inline HTML (inline_html only).
	BaseDir string `json:"base_dir,omitempty"`

	// Path is the HTML file to display (local_file only).
	Path string `json:"path,omitempty"`

	// Root is the application directory (app_dir only).
	Root string `json:"root,omitempty"`
	// Entry is the entry file relative to Root, defaulting to "index.html"
	// (app_dir only).
	Entry string `json:"entry,omitempty"`

	// URL is the remote address to load (remote_url only).
	URL string `json:"url,omitempty"`
}

// InlineHTML returns content displaying an inline markup string.
func InlineHTML(html string) ViewerContent {
	return ViewerContent{Type: ContentInlineHTML, HTML: html}
}

// InlineHTMLWithBase returns inline content whose relative asset paths
// resolve against baseDir.
func InlineHTMLWithBase(html, baseDir string) ViewerContent {
	return ViewerContent{Type: ContentInlineHTML, HTML: html, BaseDir: baseDir}
}

// LocalFile returns content displaying a single local HTML file.
func LocalFile(path string) ViewerContent {
	return ViewerContent{Type: ContentLocalFile, Path: path}
}

// AppDir returns content displaying a static HTML application directory.
// An empty entry means "index.html".
func AppDir(root, entry string) ViewerContent {
	return ViewerContent{Type: ContentAppDir, Root: root, Entry: entry}
}

// RemoteURL returns content displaying a remote URL. The caller must also
// enable BehaviourOptions.AllowRemoteContent for the viewer to accept it.
func RemoteURL(url string) ViewerContent {
	return ViewerContent{Type: ContentRemoteURL, URL: url}
}

// Target returns a short human-readable description of the content,
// suitable for logs and session history.
func (c ViewerContent) Target() string {
	switch c.Type {
	case ContentLocalFile:
		return c.Path
	case ContentAppDir:
		return c.Root
	case ContentRemoteURL:
		return c.URL
	default:
		return "(inline)"
	}
}

// WindowOptions configures the viewer window. The core passes these through
// unchanged; interpretation is entirely up to the viewer application.
type WindowOptions struct {
	Title           string         `json:"title,omitempty"`
	Width           int            `json:"width,omitempty"`
	Height          int            `json:"height,omitempty"`
	X               *int           `json:"x,omitempty"`
	Y               *int           `json:"y,omitempty"`
	Resizable       bool           `json:"resizable"`
	Maximised       bool           `json:"maximised"`
	Fullscreen      bool           `json:"fullscreen"`
	Decorations     bool           `json:"decorations"`
	Transparent     bool           `json:"transparent"`
	AlwaysOnTop     bool           `json:"always_on_top"`
	Theme           string         `json:"theme,omitempty"`
	BackgroundColor string         `json:"background_color,omitempty"`
	Toolbar         ToolbarOptions `json:"toolbar"`
}

// DefaultWindowOptions returns the standard 1024x768 resizable decorated
// window.
func DefaultWindowOptions() WindowOptions {
	return WindowOptions{
		Title:       "HTML Viewer",
		Width:       1024,
		Height:      768,
		Resizable:   true,
		Decorations: true,
	}
}

// ToolbarOptions configures the viewer's optional custom toolbar.
type ToolbarOptions struct {
	Show            bool            `json:"show"`
	TitleText       string          `json:"title_text,omitempty"`
	BackgroundColor string          `json:"background_color,omitempty"`
	TextColor       string          `json:"text_color,omitempty"`
	Buttons         []ToolbarButton `json:"buttons,omitempty"`
}

// ToolbarButton is a single button in the custom toolbar.
type ToolbarButton struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// BehaviourOptions holds security and behaviour switches. Secure defaults
// are the zero value: no external navigation, no devtools, no remote
// content, no notifications.
type BehaviourOptions struct {
	AllowExternalNavigation bool     `json:"allow_external_navigation"`
	AllowedDomains          []string `json:"allowed_domains,omitempty"`
	EnableDevtools          bool     `json:"enable_devtools"`
	AllowRemoteContent      bool     `json:"allow_remote_content"`
	AllowNotifications      bool     `json:"allow_notifications"`
}

// DialogOptions controls which native dialogs the viewer may open.
type DialogOptions struct {
	AllowFileDialogs    bool `json:"allow_file_dialogs"`
	AllowMessageDialogs bool `json:"allow_message_dialogs"`
}

// EnvironmentOptions holds runtime configuration for the viewer process.
type EnvironmentOptions struct {
	// WorkingDir resolves relative paths on the viewer side.
	WorkingDir string `json:"working_dir,omitempty"`
	// TimeoutSeconds auto-closes the viewer after the given duration.
	// Zero means no timeout.
	TimeoutSeconds uint64 `json:"timeout_seconds,omitempty"`
}

// ViewerRequest is the request artifact written by the launcher and
// consumed by the viewer application. Immutable once written.
type ViewerRequest struct {
	// ID uniquely identifies this viewer instance. The result artifact
	// must echo it back.
	ID string `json:"id"`

	Content     ViewerContent      `json:"content"`
	Window      WindowOptions      `json:"window"`
	Behaviour   BehaviourOptions   `json:"behaviour"`
	Environment EnvironmentOptions `json:"environment"`
	Dialog      DialogOptions      `json:"dialog"`

	// CommandPath names the command artifact the viewer should watch for
	// live-update commands. Empty when the caller did not opt in.
	CommandPath string `json:"command_path,omitempty"`
}
