package domain

import "strings"

// NormalizeWord uppercases a submitted word and validates it at the room
// boundary: exactly WordLength letters, A-Z only. Invalid words never reach
// the feedback engine.
func NormalizeWord(word string) (string, error) {
	word = strings.ToUpper(strings.TrimSpace(word))
	if len(word) != WordLength {
		return "", ErrInvalidLength
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'A' || word[i] > 'Z' {
			return "", ErrInvalidWord
		}
	}
	return word, nil
}
