package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromCentsMarshalsTwoPlaces(t *testing.T) {
	out, err := json.Marshal(map[string]Amount{"total": FromCents(2100), "price": FromCents(550)})
	require.NoError(t, err)
	require.JSONEq(t, `{"total":21.00,"price":5.50}`, string(out))
	require.Contains(t, string(out), "21.00")
}

func TestAmountRoundTripCents(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`21.005`), &a))
	require.EqualValues(t, 2101, a.Cents())

	require.NoError(t, json.Unmarshal([]byte(`"3.5"`), &a))
	require.EqualValues(t, 350, a.Cents())

	require.Error(t, json.Unmarshal([]byte(`"abc"`), &a))
}

func TestParseCents(t *testing.T) {
	cents, err := ParseCents("5.50")
	require.NoError(t, err)
	require.EqualValues(t, 550, cents)

	_, err = ParseCents("five")
	require.Error(t, err)
}
