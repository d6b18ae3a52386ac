package domain

import "strings"

// WordLength is the fixed length of every secret word and guess.
const WordLength = 5

// Feedback classifies a single letter of a guess against the secret word.
type Feedback string

const (
	FeedbackCorrect Feedback = "correct" // right letter, right position
	FeedbackPresent Feedback = "present" // right letter, wrong position
	FeedbackAbsent  Feedback = "absent"  // letter not in the word
	FeedbackNeutral Feedback = "neutral" // masked (hard mode)
)

// Attempt is one submitted guess plus its computed feedback.
// Attempts are append-only; they are never edited after creation.
type Attempt struct {
	Word     string     `json:"word"`
	Feedback []Feedback `json:"feedback"`
}

// IsWinning reports whether every letter of the attempt is correct.
func (a Attempt) IsWinning() bool {
	return AllCorrect(a.Feedback)
}

// Masked returns a copy of the attempt with all feedback replaced by the
// neutral marker. Winning attempts are never masked; callers check first.
func (a Attempt) Masked() Attempt {
	return Attempt{Word: a.Word, Feedback: NeutralFeedback(len(a.Feedback))}
}

// ComputeFeedback scores a guess against a secret word using the standard
// two-pass algorithm. Both inputs are normalized to uppercase, so scoring is
// case-insensitive. The two passes guarantee that duplicate letters are
// credited at most as many times as they occur in the secret: exact matches
// consume an occurrence first, then left-to-right "present" matches consume
// the rest.
func ComputeFeedback(secret, guess string) []Feedback {
	secret = strings.ToUpper(secret)
	guess = strings.ToUpper(guess)

	n := len(guess)
	result := make([]Feedback, n)
	remaining := make(map[byte]int, n)

	// First pass: exact matches; count the unmatched secret letters.
	for i := 0; i < n; i++ {
		if i < len(secret) && guess[i] == secret[i] {
			result[i] = FeedbackCorrect
		} else if i < len(secret) {
			remaining[secret[i]]++
		}
	}

	// Second pass: misplaced letters, bounded by the remaining counts.
	for i := 0; i < n; i++ {
		if result[i] == FeedbackCorrect {
			continue
		}
		if remaining[guess[i]] > 0 {
			result[i] = FeedbackPresent
			remaining[guess[i]]--
		} else {
			result[i] = FeedbackAbsent
		}
	}

	return result
}

// AllCorrect reports whether every element of the feedback is correct.
func AllCorrect(feedback []Feedback) bool {
	if len(feedback) == 0 {
		return false
	}
	for _, f := range feedback {
		if f != FeedbackCorrect {
			return false
		}
	}
	return true
}

// NeutralFeedback returns a feedback sequence of n neutral markers.
func NeutralFeedback(n int) []Feedback {
	fb := make([]Feedback, n)
	for i := range fb {
		fb[i] = FeedbackNeutral
	}
	return fb
}

// MaskAttempts applies the hard-mode transmission policy to a grid: every
// attempt whose true feedback is not a full win is replaced by a neutral
// copy. Winning rows stay revealed permanently, including in later full
// grid snapshots. The input grid is never modified.
func MaskAttempts(grid []Attempt) []Attempt {
	masked := make([]Attempt, 0, len(grid))
	for _, a := range grid {
		if a.IsWinning() {
			masked = append(masked, a)
			continue
		}
		masked = append(masked, a.Masked())
	}
	return masked
}
