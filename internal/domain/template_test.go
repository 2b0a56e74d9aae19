package domain

import (
	"strings"
	"testing"
)

func TestCreateBlankSnippet(t *testing.T) {
	tests := []struct {
		name       string
		caps       Capabilities
		wantScript string
		wantLib    string
	}{
		{"generic", Capabilities{}, `console.log("Hello world");`, "# NPM CDN references"},
		{"host api", Capabilities{Office: true, APINamespace: "Excel"}, "Excel.run(function(context)", "Office.js CDN reference"},
		{"addin with host api", Capabilities{Office: true, APINamespace: "Word", Addin: true, HostAPISupported: true}, "Word.run(", "Office.js"},
		{"old addin client", Capabilities{Office: true, APINamespace: "Excel", Addin: true}, "getSelectedDataAsync", "Office.js"},
		{"office without namespace", Capabilities{Office: true}, "getSelectedDataAsync", "Office.js"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CreateBlankSnippet(tt.caps)
			if s.Name() != DefaultName {
				t.Fatalf("want default name, got %q", s.Name())
			}
			if !strings.Contains(s.Script, tt.wantScript) {
				t.Fatalf("script %q does not contain %q", s.Script, tt.wantScript)
			}
			if !strings.Contains(s.Libraries, tt.wantLib) {
				t.Fatalf("libraries missing %q", tt.wantLib)
			}
			if s.ID != "" {
				t.Fatalf("template must not carry an id")
			}
		})
	}
}

func TestCreateBlankSnippet_GenericHasNoOfficeReference(t *testing.T) {
	s := CreateBlankSnippet(Capabilities{})
	if strings.Contains(s.Libraries, "Office.js") {
		t.Fatalf("generic template should not reference Office.js")
	}
}

func TestLookupHost(t *testing.T) {
	if h := LookupHost(" Excel "); h.HostName != "Excel" || !h.Capabilities.Office {
		t.Fatalf("unexpected host: %+v", h)
	}
	if h := LookupHost(""); h.Key != "web" {
		t.Fatalf("empty key should map to web, got %+v", h)
	}
	h := LookupHost("custom")
	if h.Capabilities.Office || h.Namespace() != "custom_snippets" {
		t.Fatalf("unexpected custom host: %+v", h)
	}
}
