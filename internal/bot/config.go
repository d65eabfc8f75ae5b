package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Prompt sent after every second answered question
	BonusMessage string
	// Long-polling timeout in seconds
	UpdateTimeout int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		BonusMessage:  "Bonus: Rate this sample response (1-5): 'Uncle is 'mama kaka'.",
		UpdateTimeout: 60,
	}
}
