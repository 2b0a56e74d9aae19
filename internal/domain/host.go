package domain

import "strings"

// Capabilities describes what the host can run. It replaces live detection so
// template selection stays a pure function.
type Capabilities struct {
	// Office is set when running inside an Office host.
	Office bool `json:"office"`
	// APINamespace is the host-specific API object, e.g. "Excel". Empty for
	// hosts without one.
	APINamespace string `json:"api_namespace,omitempty"`
	// Addin is set when running as an installed add-in.
	Addin bool `json:"addin"`
	// HostAPISupported reports whether the add-in client supports the
	// APINamespace requirement set.
	HostAPISupported bool `json:"host_api_supported"`
}

// HostContext identifies an execution context.
type HostContext struct {
	Key          string       `json:"key"`
	HostName     string       `json:"host_name"`
	Capabilities Capabilities `json:"capabilities"`
}

// Namespace is the storage partition for the context's snippets.
func (h HostContext) Namespace() string {
	return h.Key + "_snippets"
}

var knownHosts = map[string]HostContext{
	"web": {Key: "web", HostName: "Web"},
	"excel": {Key: "excel", HostName: "Excel", Capabilities: Capabilities{
		Office: true, APINamespace: "Excel", HostAPISupported: true,
	}},
	"word": {Key: "word", HostName: "Word", Capabilities: Capabilities{
		Office: true, APINamespace: "Word", HostAPISupported: true,
	}},
	"powerpoint": {Key: "powerpoint", HostName: "PowerPoint", Capabilities: Capabilities{
		Office: true,
	}},
	"project": {Key: "project", HostName: "Project", Capabilities: Capabilities{
		Office: true,
	}},
}

// LookupHost resolves a host key such as "excel". Unknown keys map to a
// generic non-Office context named after the key.
func LookupHost(key string) HostContext {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		key = "web"
	}
	if h, ok := knownHosts[key]; ok {
		return h
	}
	return HostContext{Key: key, HostName: key}
}
