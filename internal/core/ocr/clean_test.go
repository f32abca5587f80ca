package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "full label",
			raw: "Brand X Daily Moisturizer\n" +
				"INGREDIENTS: Aqua (Water), Glycerin 5%, • Niacinamide\n" +
				"1. Phenoxyethanol; Parfum*. www.brandx.com 123456789\n" +
				"Directions: apply daily.",
			want: "Aqua, Glycerin, Niacinamide, Phenoxyethanol, Parfum",
		},
		{
			name: "no header keeps everything",
			raw:  "Water, Glycerin, Retinol",
			want: "Water, Glycerin, Retinol",
		},
		{
			name: "boilerplate phrases",
			raw:  "Ingredients: Water, Zinc Oxide [nano], May contain: CI 77491. For external use only. Made in France",
			want: "Water, Zinc Oxide, CI 77491",
		},
		{
			name: "nested parentheses",
			raw:  "Tocopherol (Vitamin E (natural)), Aloe Barbadensis Leaf Juice",
			want: "Tocopherol, Aloe Barbadensis Leaf Juice",
		},
		{
			name: "full width separators",
			raw:  "成分表 Ingredients：Water，Glycerin、Dimethicone",
			want: "Water, Glycerin, Dimethicone",
		},
		{
			name: "empty",
			raw:  "  \n ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.raw))
		})
	}
}
