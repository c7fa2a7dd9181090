package domain

// GuessOutcome is the result of evaluating one guess
type GuessOutcome struct {
	Nickname string `json:"nickname"`
	Text     string `json:"text"`
	Correct  bool   `json:"correct"`

	// Word is the word that was guessed, set only when Correct
	Word string `json:"word,omitempty"`
	// NextWord is the new secret, for the drawer only
	NextWord string `json:"-"`
}
