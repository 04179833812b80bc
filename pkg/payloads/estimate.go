package payloads

// Fixed per-entry costs added on top of the character-based estimate.
const (
	messageTokens = 4
	toolTokens    = 10
)

func tokensForChars(n int) int {
	return (n + 3) / 4
}

// EstimateInputTokens estimates the prompt tokens of msgs plus toolBytes of
// serialized tool definitions spread over tools entries. Text is counted at
// four characters per token, rounded up.
func EstimateInputTokens(msgs []Message, tools, toolBytes int) int {
	total := 0
	for _, m := range msgs {
		total += messageTokens + tokensForChars(len(m.Content))
	}

	if tools > 0 {
		total += tools*toolTokens + tokensForChars(toolBytes)
	}

	return total
}
