package label

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingredient-safety/internal/core/cache"
	"ingredient-safety/internal/core/ocr"
	"ingredient-safety/internal/core/safety"
	"ingredient-safety/internal/infrastructure/config"
	"ingredient-safety/internal/pkg/common"
)

type fakeImages struct {
	err error
}

func (f fakeImages) ProcessImage(ctx context.Context, imageData string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "data:image/jpeg;base64,processed", nil
}

type fakeExtractor struct {
	enabled bool
	text    string
	err     error
	got     string
	calls   int
}

func (f *fakeExtractor) Enabled() bool { return f.enabled }

func (f *fakeExtractor) ExtractText(ctx context.Context, imageData string) (string, error) {
	f.got = imageData
	f.calls++
	return f.text, f.err
}

func newAnalyzer(t *testing.T) *safety.Analyzer {
	t.Helper()
	catalog, err := safety.LoadCatalog("", safety.DefaultFuzzyThreshold)
	require.NoError(t, err)
	rules, err := safety.LoadRules("")
	require.NoError(t, err)
	return safety.NewAnalyzer(catalog, rules, nil, 2)
}

func TestScan(t *testing.T) {
	extractor := &fakeExtractor{enabled: true, text: "INGREDIENTS: Aqua (Water), Glycerin 2%, Methylparaben"}
	s := NewService(fakeImages{}, extractor, newAnalyzer(t), nil)

	resp, err := s.Scan(context.Background(), "data:image/png;base64,AAAA")
	require.NoError(t, err)

	assert.Equal(t, "data:image/jpeg;base64,processed", extractor.got)
	assert.Equal(t, "Aqua, Glycerin, Methylparaben", resp.CleanedText)
	require.Len(t, resp.Ingredients, 3)
	assert.Equal(t, "Methylparaben", resp.Ingredients[2].Name)
	assert.Equal(t, 3, resp.Summary.Total)
	assert.Equal(t, "Methylparaben", resp.Summary.HighestConcern)
}

func TestScan_Errors(t *testing.T) {
	badImage := common.ErrInvalidImageFormat.Wrap(errors.New("bad"))

	tests := []struct {
		name      string
		images    fakeImages
		extractor ocr.Extractor
		image     string
		status    int
	}{
		{"empty image", fakeImages{}, &fakeExtractor{enabled: true}, " ", http.StatusBadRequest},
		{"ocr disabled", fakeImages{}, &fakeExtractor{enabled: false}, "x", http.StatusServiceUnavailable},
		{"no extractor", fakeImages{}, nil, "x", http.StatusServiceUnavailable},
		{"invalid image", fakeImages{err: badImage}, &fakeExtractor{enabled: true}, "x", http.StatusBadRequest},
		{"ocr failure", fakeImages{}, &fakeExtractor{enabled: true, err: errors.New("upstream 500")}, "x", http.StatusBadGateway},
		{"ocr timeout", fakeImages{}, &fakeExtractor{enabled: true, err: context.DeadlineExceeded}, "x", http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewService(tt.images, tt.extractor, newAnalyzer(t), nil)
			_, err := s.Scan(context.Background(), tt.image)
			require.Error(t, err)
			assert.Equal(t, tt.status, common.AsCustomError(err).Status)
		})
	}
}

func TestScan_CachesExtractedText(t *testing.T) {
	store := cache.NewMemoryStore(config.CacheConfig{MaxSize: 10, TTL: time.Hour})
	defer store.Close()

	extractor := &fakeExtractor{enabled: true, text: "Water, Glycerin"}
	s := NewService(fakeImages{}, extractor, newAnalyzer(t), store)

	for i := 0; i < 3; i++ {
		resp, err := s.Scan(context.Background(), "data:image/png;base64,AAAA")
		require.NoError(t, err)
		assert.Len(t, resp.Ingredients, 2)
	}
	assert.Equal(t, 1, extractor.calls)
}
