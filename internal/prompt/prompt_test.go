package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildFullCart(t *testing.T) {
	got := Build(Detail{
		Flowers: []Flower{{Name: "Red Rose", Quantity: 2}, {Name: "Tulip", Quantity: 1}},
		Papers:  []string{"Kraft paper"},
		Ribbons: []string{"Satin ribbon"},
	})
	require.Equal(t,
		"As a wonderful florist create a bouquet containing exactly 2 red rose, 1 tulip. "+
			"Wrapped in kraft paper. Decorated with satin ribbon. "+
			"High quality, photorealistic, studio lighting, white background, elegant composition.",
		got)
}

func TestBuildLowercasesEveryName(t *testing.T) {
	got := Build(Detail{
		Flowers: []Flower{{Name: "ROSE", Quantity: 1}},
		Papers:  []string{" Kraft ", "Silk"},
		Ribbons: []string{"SATIN"},
	})
	require.Contains(t, got, "Wrapped in kraft, silk. ")
	require.Contains(t, got, "Decorated with satin. ")
	require.NotContains(t, got, "ROSE")
}

func TestBuildOmitsEmptyClauses(t *testing.T) {
	got := Build(Detail{Flowers: []Flower{{Name: "Lily", Quantity: 3}}, Papers: []string{"  "}})
	require.NotContains(t, got, "Wrapped in")
	require.NotContains(t, got, "Decorated with")
	require.Contains(t, got, "exactly 3 lily. ")
}

func TestBuildEmptyCartIsStillASentence(t *testing.T) {
	got := Build(Detail{})
	require.True(t, strings.HasPrefix(got, "As a wonderful florist"))
	require.True(t, strings.HasSuffix(got, "elegant composition."))
}

func TestBuildIsDeterministic(t *testing.T) {
	d := Detail{Flowers: []Flower{{Name: "Rose", Quantity: 1}}, Ribbons: []string{"Lace"}}
	require.Equal(t, Build(d), Build(d))
}
