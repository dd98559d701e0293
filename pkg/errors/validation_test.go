package errors

import "testing"

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "billing", wantErr: false},
		{name: "scoped", id: "svc/billing", wantErr: false},
		{name: "dotted", id: "billing.v2", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "traversal", id: "../etc/passwd", wantErr: true},
		{name: "double slash", id: "a//b", wantErr: true},
		{name: "backslash", id: `a\b`, wantErr: true},
		{name: "control char", id: "a\x01b", wantErr: true},
		{name: "null byte", id: "a\x00b", wantErr: true},
		{name: "too long", id: string(make([]byte, 300)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidNode) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidNode)
			}
		})
	}
}

func TestValidateManifestFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{name: "simple", filename: "graph.toml", wantErr: false},
		{name: "empty", filename: "", wantErr: true},
		{name: "path", filename: "dir/graph.toml", wantErr: true},
		{name: "hidden", filename: ".graph.toml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestFilename(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateManifestFilename(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			}
		})
	}
}
