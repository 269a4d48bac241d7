package port

// Tokenizer estimates how many model tokens a chunk will cost.
type Tokenizer interface {
	Words(text string) []string

	CountTokens(text string) int
}
