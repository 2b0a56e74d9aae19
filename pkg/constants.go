// Package pkg provides shared types and constants for the Scriptlab API.
package pkg

// API path constants.
const (
	// BasePath is the root path for the API.
	BasePath = "/api/v1"

	SnippetsPath  = "/snippets"
	SnippetPath   = SnippetsPath + "/:id"
	DuplicatePath = SnippetPath + "/duplicate"
	PlaylistPath  = "/playlist"

	HealthCheckPath = "/ping"
	LivenessPath    = "/livez"
	ReadinessPath   = "/readyz"
)
