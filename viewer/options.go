package viewer

import "github.com/jmg049/htmlview/types"

// WaitMode determines whether Open blocks until the viewer exits or
// returns a live handle immediately.
type WaitMode int

const (
	// Blocking waits for the viewer to exit and returns its exit status.
	Blocking WaitMode = iota
	// NonBlocking returns a Handle to the running viewer.
	NonBlocking
)

// ViewerOptions configures a viewer session. The window, behaviour,
// environment and dialog blocks are passed through to the viewer
// unchanged.
type ViewerOptions struct {
	// ID presets the session identity. Leave empty to have Open generate
	// a fresh UUID.
	ID string

	Content     types.ViewerContent
	Window      types.WindowOptions
	Behaviour   types.BehaviourOptions
	Environment types.EnvironmentOptions
	Dialog      types.DialogOptions

	// Wait selects blocking or non-blocking completion handling.
	Wait WaitMode

	// EnableRefresh opts in to the live-update command channel. Only
	// meaningful with NonBlocking; a blocking session has no caller left
	// to issue commands.
	EnableRefresh bool
}

func defaultOptions(content types.ViewerContent) ViewerOptions {
	return ViewerOptions{
		Content: content,
		Window:  types.DefaultWindowOptions(),
		Wait:    Blocking,
	}
}

// InlineHTML returns options displaying an inline markup string with
// secure defaults: 1024x768 resizable window, no external navigation,
// no devtools, no remote content, blocking.
func InlineHTML(html string) ViewerOptions {
	return defaultOptions(types.InlineHTML(html))
}

// LocalFile returns options displaying a single local HTML file.
func LocalFile(path string) ViewerOptions {
	return defaultOptions(types.LocalFile(path))
}

// AppDir returns options displaying a static HTML application directory.
// An empty entry means "index.html".
func AppDir(root, entry string) ViewerOptions {
	return defaultOptions(types.AppDir(root, entry))
}

// RemoteURL returns options displaying a remote URL. Remote content
// loading is enabled in the behaviour block, everything else keeps the
// secure defaults.
func RemoteURL(url string) ViewerOptions {
	opts := defaultOptions(types.RemoteURL(url))
	opts.Behaviour.AllowRemoteContent = true
	return opts
}
