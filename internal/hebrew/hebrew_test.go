package hebrew

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const shalom = "שָׁלוֹם" // shin+qamats+shin-dot, lamed, vav+holam, final mem

func TestHasNiqqud(t *testing.T) {
	assert.True(t, HasNiqqud(shalom))
	assert.False(t, HasNiqqud("שלום"))
	assert.False(t, HasNiqqud("hello"))
}

func TestIsHebrew(t *testing.T) {
	assert.True(t, IsHebrew(shalom))
	assert.True(t, IsHebrew("abc ש"))
	assert.False(t, IsHebrew("latin only"))
}

func TestStripNiqqud(t *testing.T) {
	assert.Equal(t, "שלום", StripNiqqud(shalom))
	// already bare text is unchanged
	assert.Equal(t, "שלום", StripNiqqud("שלום"))
}

func TestSplitSyllables_PointedWord(t *testing.T) {
	// syllable closes on the vowel, trailing vowelless mem attaches
	assert.Equal(t, []string{"שָׁ", "לוֹם"}, SplitSyllables(shalom))
}

func TestSplitSyllables_UnpointedWordStaysWhole(t *testing.T) {
	assert.Equal(t, []string{"שלום"}, SplitSyllables("שלום"))
}

func TestSplitSyllables_Empty(t *testing.T) {
	assert.Nil(t, SplitSyllables(""))
	assert.Nil(t, SplitSyllables("   "))
}

func TestWords(t *testing.T) {
	words := Words("שָׁלוֹם, עוֹלָם! hello")
	assert.Equal(t, []string{"שָׁלוֹם", "עוֹלָם"}, words)
}

func TestNormalize_Maqaf(t *testing.T) {
	assert.Equal(t, "בית-ספר", Normalize("בית־ספר"))
}
