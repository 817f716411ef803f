package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func card(code string) Card {
	c, err := ParseCard(code)
	if err != nil {
		panic(err)
	}
	return c
}

func hand(codes ...string) Hand {
	h := make(Hand, 0, len(codes))
	for _, code := range codes {
		h = append(h, card(code))
	}
	return h
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name  string
		hand  Hand
		value int
	}{
		{"ten and queen", hand("TH", "QD"), 20},
		{"ace king natural", hand("AH", "KD"), 21},
		{"two aces and nine", hand("AH", "AD", "9C"), 21},
		{"three aces and nine", hand("AH", "AD", "AC", "9S"), 12},
		{"soft seventeen", hand("AH", "6D"), 17},
		{"hard after demotion", hand("AH", "9D", "5C"), 15},
		{"bust with no aces", hand("KH", "QD", "5C"), 25},
		{"minimal bust total", hand("AH", "KD", "QC", "JS"), 31},
		{"empty hand", hand(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.value, tt.hand.Value())
		})
	}
}

func TestHandValueOrderIndependent(t *testing.T) {
	a := hand("AH", "AD", "9C")
	b := hand("9C", "AH", "AD")
	assert.Equal(t, a.Value(), b.Value())
}

func TestIsBust(t *testing.T) {
	assert.False(t, hand("KH", "QD").IsBust())
	assert.False(t, hand("AH", "AD", "9C").IsBust())
	assert.True(t, hand("KH", "QD", "5C").IsBust())
}

func TestIsBlackjack(t *testing.T) {
	assert.True(t, hand("AH", "KD").IsBlackjack())
	assert.True(t, hand("AS", "TH").IsBlackjack())
	assert.False(t, hand("KH", "QD").IsBlackjack(), "20 in two cards")
	assert.False(t, hand("AH", "4D", "6C").IsBlackjack(), "21 in three cards")
}
