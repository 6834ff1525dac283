package domain

// Track is catalog metadata for one song as returned by a provider. An empty
// PreviewURL means the provider exposes no preview clip for the track; batch
// callers skip such tracks instead of failing.
type Track struct {
	ID         string
	Title      string
	Artist     string
	Album      string // optional
	PreviewURL string
}
