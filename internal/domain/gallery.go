package domain

// Gallery is the remote catalog of sample snippets for a host.
type Gallery struct {
	Groups []GalleryGroup `json:"groups"`
}

// GalleryGroup is a named set of samples.
type GalleryGroup struct {
	Name  string        `json:"name"`
	Items []GalleryItem `json:"items"`
}

// GalleryItem points at a sample stored as a gist.
type GalleryItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	GistID      string `json:"gistId"`
}
