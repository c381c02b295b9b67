package model

// CreateShortLinkRequest представляет тело запроса POST /api/shortenedUrls.
type CreateShortLinkRequest struct {
	URL string `json:"url"`
}
