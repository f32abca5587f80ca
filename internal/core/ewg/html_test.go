package ewg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><body>
<div class="search-results">
  <div class="product-tile featured">
    <span class="product-score">6</span>
    <ul>
      <li class="concern">Allergies/immunotoxicity</li>
      <li class="concern"> Endocrine disruption </li>
    </ul>
    <p class="ingredient-function">Preservative</p>
    <p class="ingredient-use">Lotions</p>
  </div>
  <div class="product-tile">
    <span class="product-score">1</span>
  </div>
</div>
</body></html>`

func TestParseListingHTML(t *testing.T) {
	listing, ok := parseListingHTML(listingPage)
	require.True(t, ok)
	assert.Equal(t, "6", listing.ScoreText)
	assert.Equal(t, "Allergies/immunotoxicity, Endocrine disruption", listing.Concerns)
	assert.Equal(t, "Preservative", listing.Function)
	assert.Equal(t, "Lotions", listing.Use)
}

func TestParseListingHTML_ScoreFallbacks(t *testing.T) {
	listing, ok := parseListingHTML(`<div class="ingredient-tile"><div data-score="4"></div></div>`)
	require.True(t, ok)
	assert.Equal(t, "4", listing.ScoreText)

	listing, ok = parseListingHTML(`<div class="ingredient-tile"><img src="x.png" alt="Low hazard"></div>`)
	require.True(t, ok)
	assert.Equal(t, "Low hazard", listing.ScoreText)
}

func TestParseListingHTML_NoListing(t *testing.T) {
	_, ok := parseListingHTML(`<html><body><p>No results</p></body></html>`)
	assert.False(t, ok)
}
