package types //nolint:revive // types is a valid package name

import (
	"encoding/json"
	"reflect"
	"regexp"
	"testing"
)

func TestVersion_Format(t *testing.T) {
	semverRegex := regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	if !semverRegex.MatchString(Version) {
		t.Errorf("Version %q is not a valid semver", Version)
	}
}

func TestProtocolVersion_MatchesVersion(t *testing.T) {
	if ProtocolVersion != Version {
		t.Errorf("ProtocolVersion %q != Version %q (lockstep versioning violated)", ProtocolVersion, Version)
	}
}

func TestViewerRequest_RoundTrip(t *testing.T) {
	x := 40
	y := 60
	req := ViewerRequest{
		ID:      "4b2f1f6e-8a9e-4c36-9f2a-1d4bfae0c001",
		Content: InlineHTMLWithBase("<h1>hi</h1>", "/srv/assets"),
		Window: WindowOptions{
			Title:       "report",
			Width:       800,
			Height:      600,
			X:           &x,
			Y:           &y,
			Resizable:   true,
			Decorations: true,
			Toolbar: ToolbarOptions{
				Show:      true,
				TitleText: "Report",
				Buttons:   []ToolbarButton{{ID: "save", Label: "Save", Icon: "disk"}},
			},
		},
		Behaviour: BehaviourOptions{
			EnableDevtools: true,
			AllowedDomains: []string{"example.com"},
		},
		Environment: EnvironmentOptions{WorkingDir: "/tmp", TimeoutSeconds: 30},
		Dialog:      DialogOptions{AllowMessageDialogs: true},
		CommandPath: "/tmp/htmlview_x/commands.json",
	}

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded ViewerRequest
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(req, decoded) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, req)
	}
}

func TestViewerRequest_ContentDiscriminator(t *testing.T) {
	tests := []struct {
		name    string
		content ViewerContent
		want    string
	}{
		{"inline", InlineHTML("<p>x</p>"), "inline_html"},
		{"file", LocalFile("/srv/index.html"), "local_file"},
		{"dir", AppDir("/srv/app", "main.html"), "app_dir"},
		{"url", RemoteURL("https://example.com"), "remote_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.content)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var raw map[string]any
			if err := json.Unmarshal(data, &raw); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := raw["type"]; got != tt.want {
				t.Errorf("type = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestViewerExitStatus_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		status ViewerExitStatus
	}{
		{"closed", ViewerExitStatus{ID: "a", Reason: ExitClosedByUser, ViewerVersion: "0.3.0"}},
		{"timed out", ViewerExitStatus{ID: "b", Reason: ExitTimedOut, ViewerVersion: "0.3.1"}},
		{"error", ViewerExitStatus{ID: "c", Reason: ExitError, Message: "render failed", ViewerVersion: "0.3.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.status)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var decoded ViewerExitStatus
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if decoded != tt.status {
				t.Errorf("round trip mismatch: got %+v, want %+v", decoded, tt.status)
			}
		})
	}
}

func TestViewerCommand_RoundTrip(t *testing.T) {
	cmd := ViewerCommand{Type: CommandRefresh, Seq: 7, Content: LocalFile("/srv/v2.html")}

	data, err := json.Marshal(cmd)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded ViewerCommand
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != cmd {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, cmd)
	}

	resp := ViewerCommandResponse{Seq: 7, Success: false, Error: "no such file"}
	data, err = json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var decodedResp ViewerCommandResponse
	if err := json.Unmarshal(data, &decodedResp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if decodedResp != resp {
		t.Errorf("response round trip mismatch: got %+v, want %+v", decodedResp, resp)
	}
}

func TestViewerContent_Target(t *testing.T) {
	tests := []struct {
		content ViewerContent
		want    string
	}{
		{InlineHTML("<p>x</p>"), "(inline)"},
		{LocalFile("/srv/index.html"), "/srv/index.html"},
		{AppDir("/srv/app", ""), "/srv/app"},
		{RemoteURL("https://example.com"), "https://example.com"},
	}
	for _, tt := range tests {
		if got := tt.content.Target(); got != tt.want {
			t.Errorf("Target(%s) = %q, want %q", tt.content.Type, got, tt.want)
		}
	}
}
