package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/siwei-li/bible-bot/pkg/models"
)

// handleMessage drives the per-user state machine. The state is whatever
// the progress store says it is; the handler itself keeps nothing between
// messages.
func (b *Bot) handleMessage(message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	userID := strconv.FormatInt(chatID, 10)
	text := strings.ToLower(strings.TrimSpace(message.Text))

	progress, err := b.progress.GetOrCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to load progress for user %s: %w", userID, err)
	}

	// Telegram-style slash commands map onto the same operations as the
	// bare keywords.
	if message.IsCommand() {
		switch message.Command() {
		case "start":
			args := strings.TrimSpace(message.CommandArguments())
			if args == "" {
				return b.sendDomainList(chatID)
			}
			return b.startDomain(chatID, userID, args)
		case "status":
			return b.sendStatus(chatID, progress)
		case "help":
			return b.sendDomainList(chatID)
		default:
			return b.send(chatID, "Unknown command. Send 'start' to see the available domains.")
		}
	}

	switch {
	case text == "start":
		return b.sendDomainList(chatID)
	case strings.HasPrefix(text, "start "):
		return b.startDomain(chatID, userID, strings.TrimPrefix(text, "start "))
	case progress.Domain == "":
		return b.send(chatID, "Say 'start <domain>' to begin.")
	default:
		return b.handleAnswer(chatID, userID, progress, text)
	}
}

// sendDomainList sends the greeting with the available domains
func (b *Bot) sendDomainList(chatID int64) error {
	names := b.catalog.DomainNames()
	if len(names) == 0 {
		return b.send(chatID, "No survey domains are available right now. Please try again later.")
	}
	return b.send(chatID, fmt.Sprintf("Hi! Domains: %s. Reply 'start <domain>' to begin.", strings.Join(names, ", ")))
}

// startDomain resets the user's progress to the chosen domain and sends its
// first question. The first question goes straight into the answered set:
// it has been asked, and the next message is its answer.
func (b *Bot) startDomain(chatID int64, userID, name string) error {
	domain, ok := b.catalog.Domain(name)
	if !ok {
		return b.send(chatID, fmt.Sprintf("Unknown domain. Available: %s", strings.Join(b.catalog.DomainNames(), ", ")))
	}

	if err := b.progress.Reset(userID, domain.Name); err != nil {
		return fmt.Errorf("failed to reset progress for user %s: %w", userID, err)
	}

	first := domain.First()
	firstID := first.ID
	if err := b.progress.Update(userID, nil, &firstID); err != nil {
		return fmt.Errorf("failed to mark first question for user %s: %w", userID, err)
	}

	return b.send(chatID, fmt.Sprintf("Starting %s domain.\n%s", domain.Name, first.Text))
}

// handleAnswer treats the text as an answer to the pending question
func (b *Bot) handleAnswer(chatID int64, userID string, progress *models.UserProgress, text string) error {
	reply := b.engine.Suggest(progress, text)
	if err := b.send(chatID, reply); err != nil {
		return err
	}

	// The engine advanced the answered set in the store; the working copy
	// here is stale, so re-read before counting.
	updated, err := b.progress.GetOrCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to reload progress for user %s: %w", userID, err)
	}

	if n := len(updated.Answered); n > 0 && n%2 == 0 {
		return b.send(chatID, b.config.BonusMessage)
	}
	return nil
}

// sendStatus reports the user's position in their survey
func (b *Bot) sendStatus(chatID int64, progress *models.UserProgress) error {
	if progress.Domain == "" {
		return b.send(chatID, "No survey in progress. Say 'start <domain>' to begin.")
	}

	domain, ok := b.catalog.Domain(progress.Domain)
	if !ok {
		return b.send(chatID, fmt.Sprintf("Your domain '%s' is not available right now.", progress.Domain))
	}

	return b.send(chatID, fmt.Sprintf("Domain: %s\nAnswered: %d of %d questions", domain.Name, len(progress.Answered), len(domain.Questions)))
}
