package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendPlaceSchema(t *testing.T) {
	tool, err := RecommendPlace()
	require.NoError(t, err)

	assert.Equal(t, "recommendPlace", tool.Name)
	assert.Equal(t, "object", tool.Parameters["type"])
	assert.NotContains(t, tool.Parameters, "$schema")
	assert.ElementsMatch(t, []any{"location", "caption"}, tool.Parameters["required"])

	props, ok := tool.Parameters["properties"].(map[string]any)
	require.True(t, ok)
	location, ok := props["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", location["type"])
	assert.Equal(t, "Give a specific place, including country name.", location["description"])
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, MissingAPIKeyMessage, UserMessage(fmt.Errorf("config: %w", ErrMissingAPIKey)))
	assert.Equal(t, RecommendationFailedMessage, UserMessage(errors.New("boom")))
}

func TestRecommendationMapURL(t *testing.T) {
	r := Recommendation{Found: true, Point: orb.Point{106.9177, 47.9186}}
	assert.Equal(t, "https://www.openstreetmap.org/?mlat=47.91860&mlon=106.91770#map=10/47.91860/106.91770", r.MapURL(10))
	assert.Empty(t, Recommendation{}.MapURL(10))
}
