package score

import (
	"testing"

	"codelens/internal/symbol"
	"github.com/stretchr/testify/assert"
)

func TestScoreSymbolMatchExactIsHigh(t *testing.T) {
	got := ScoreSymbolMatch("authenticate", "authenticate", MatchExact, 1000, 10)
	assert.Greater(t, got, 0.9)
}

func TestScoreSymbolKindFunctionBeatsImport(t *testing.T) {
	assert.Greater(t, ScoreSymbolKind(symbol.KindFunction), ScoreSymbolKind(symbol.KindImport))
}

func TestCalculateFinalScoreDocBonus(t *testing.T) {
	withDoc := CalculateFinalScore(0.8, 0.8, true)
	withoutDoc := CalculateFinalScore(0.8, 0.8, false)
	assert.Greater(t, withDoc, withoutDoc)
}

func TestCalculateFinalScoreCapped(t *testing.T) {
	assert.LessOrEqual(t, CalculateFinalScore(1.0, 1.0, true), 1.0)
}
