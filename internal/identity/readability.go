package identity

import (
	"strings"
	"unicode"
)

// FleschKincaidGrade estimates the US reading grade level of text using the
// standard formula over word, sentence, and syllable counts. Empty text
// scores grade 0.
func FleschKincaidGrade(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	sentences := 0
	for _, s := range sentenceSplitPattern.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordCount := float64(len(words))
	return 0.39*(wordCount/float64(sentences)) + 11.8*(float64(syllables)/wordCount) - 15.59
}

// countSyllables estimates syllables in a word by counting vowel groups,
// discounting a trailing silent "e". Every word counts at least one.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	if word == "" {
		return 1
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}

	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
