package money

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{"49.50", 4950, false},
		{"49.5", 4950, false},
		{"20", 2000, false},
		{"-5", -500, false},
		{"0.01", 1, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1.234", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "49.50", Money(4950).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-1.25", Money(-125).String())
	assert.Equal(t, "0.00", Zero.String())
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name string
		in   *big.Rat
		want Money
	}{
		{"exact", big.NewRat(4950, 100), 4950},
		{"half up", big.NewRat(1005, 1000), 101},
		{"below half", big.NewRat(1004, 1000), 100},
		{"negative half", big.NewRat(-1005, 1000), -101},
		{"one third", big.NewRat(1, 3), 33},
		{"two thirds", big.NewRat(2, 3), 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round(tt.in))
		})
	}
}

func TestSubFloor(t *testing.T) {
	assert.Equal(t, Money(500), Money(1500).SubFloor(1000))
	assert.Equal(t, Zero, Money(500).SubFloor(1000))
}

func TestJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Price Money `json:"price"`
	}{Price: 4950})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":49.50}`, string(b))

	var in struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12.5,"b":"7.25"}`), &in))
	assert.Equal(t, Money(1250), in.A)
	assert.Equal(t, Money(725), in.B)
}
