package domain

// TimeFormat is the standard format for time serialization.
const TimeFormat = "2006-01-02T15:04:05Z"

// UpdateSnippetRequestDTO represents the expected request body for saving a snippet.
// Omitted fields keep their stored value.
type UpdateSnippetRequestDTO struct {
	Name      *string `json:"name" binding:"omitempty,max=256"`
	Script    *string `json:"script" binding:"omitempty,max=1048576"`
	Libraries *string `json:"libraries" binding:"omitempty,max=65536"`
}

// SnippetResponseDTO represents the response for a single snippet.
type SnippetResponseDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Script    string `json:"script"`
	Libraries string `json:"libraries"`
	Hash      string `json:"hash"`
	Dirty     bool   `json:"dirty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ListSnippetsResponseDTO represents the response for listing snippets.
type ListSnippetsResponseDTO struct {
	Namespace string               `json:"namespace"`
	Items     []SnippetListItemDTO `json:"items"`
}

// SnippetListItemDTO represents a snippet in a list response.
type SnippetListItemDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// NewSnippetResponse renders s for the API.
func NewSnippetResponse(s Snippet) SnippetResponseDTO {
	resp := SnippetResponseDTO{
		ID:        s.ID,
		Name:      s.Name(),
		Script:    s.Script,
		Libraries: s.Libraries,
		Hash:      s.Hash(),
		Dirty:     s.IsDirty(),
	}
	if !s.CreatedAt.IsZero() {
		resp.CreatedAt = s.CreatedAt.UTC().Format(TimeFormat)
	}
	return resp
}

// DeleteResponseDTO reports the outcome of a delete.
type DeleteResponseDTO struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

