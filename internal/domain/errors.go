package domain

import "errors"

var (
	// ErrMissingAPIKey is returned before any request is made when no key is configured.
	ErrMissingAPIKey = errors.New("API key is not set")

	// ErrPlaceNotFound is returned by a geocoder when the search has no match.
	ErrPlaceNotFound = errors.New("location not found")
)

// RecommendationFailedMessage is shown in place of a caption when a request fails.
const RecommendationFailedMessage = "Failed to get recommendation."

// MissingAPIKeyMessage is shown when no API key is configured.
const MissingAPIKeyMessage = "API key is not set."

// UserMessage maps an error to the text shown in place of a caption.
func UserMessage(err error) string {
	if errors.Is(err, ErrMissingAPIKey) {
		return MissingAPIKeyMessage
	}
	return RecommendationFailedMessage
}
