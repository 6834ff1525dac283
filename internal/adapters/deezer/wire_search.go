package deezer

// Wire types mirror the Deezer search payload. Track IDs are numeric on the
// wire and mapped to strings in the domain.

type searchPage struct {
	Data  []deezerTrack `json:"data"`
	Total int           `json:"total"`
	Next  string        `json:"next"`
	Error *deezerError  `json:"error"`
}

type deezerError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type deezerTrack struct {
	ID      int64        `json:"id"`
	Title   string       `json:"title"`
	Preview string       `json:"preview"`
	Artist  deezerArtist `json:"artist"`
	Album   deezerAlbum  `json:"album"`
}

type deezerArtist struct {
	Name string `json:"name"`
}

type deezerAlbum struct {
	Title string `json:"title"`
}
