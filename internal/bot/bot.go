package bot

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/siwei-li/bible-bot/internal/survey"
	"github.com/siwei-li/bible-bot/pkg/models"
)

// sender is the outbound "send text to user" capability.
// *tgbotapi.BotAPI satisfies it.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// suggester runs the per-answer suggestion step
type suggester interface {
	Suggest(progress *models.UserProgress, answer string) string
}

// progressStore is what the conversation handler needs from the progress repository
type progressStore interface {
	GetOrCreate(userID string) (*models.UserProgress, error)
	Reset(userID string, domain string) error
	Update(userID string, domain *string, answeredID *int) error
}

// Bot represents the Telegram survey bot application
type Bot struct {
	api      *tgbotapi.BotAPI
	sender   sender
	catalog  *survey.Catalog
	engine   suggester
	progress progressStore
	config   *BotConfig
}

// New creates a new bot instance
func New(catalog *survey.Catalog, engine *survey.Engine, progress progressStore) (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %v", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:      api,
		sender:   api,
		catalog:  catalog,
		engine:   engine,
		progress: progress,
		config:   DefaultConfig(),
	}, nil
}

// Start receives updates until the context is cancelled. When WEBHOOK_URL
// is set the bot registers a webhook and serves it on HOST:PORT, otherwise
// it falls back to long-polling. Both modes feed the same handler.
func (b *Bot) Start(ctx context.Context) error {
	var updates tgbotapi.UpdatesChannel

	if webhookURL := os.Getenv("WEBHOOK_URL"); webhookURL != "" {
		wh, err := tgbotapi.NewWebhook(webhookURL)
		if err != nil {
			return fmt.Errorf("failed to build webhook config: %v", err)
		}
		if _, err := b.api.Request(wh); err != nil {
			return fmt.Errorf("failed to register webhook: %v", err)
		}

		updates = b.api.ListenForWebhook("/" + b.api.Token)

		addr := listenAddr()
		go func() {
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Printf("Webhook server error: %v", err)
			}
		}()
		log.Printf("Listening for webhook updates on %s", addr)
	} else {
		updateConfig := tgbotapi.NewUpdate(0)
		updateConfig.Timeout = b.config.UpdateTimeout
		updates = b.api.GetUpdatesChan(updateConfig)
	}

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(update)
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop(ctx context.Context) error {
	b.api.StopReceivingUpdates()
	log.Println("Bot stopped")
	return nil
}

// handleUpdate processes one incoming update. Nothing escapes it: a panic
// is reported to the operator and the message dropped, so one bad message
// never takes down the update loop.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error in message handler: %v", r)
		}
	}()

	if update.Message == nil || update.Message.Text == "" {
		return
	}

	if err := b.handleMessage(update.Message); err != nil {
		// Report and drop, no user-visible error.
		log.Printf("Error in message handler: %v", err)
	}
}

// SendReminder implements the scheduler's notifier: nudge a user who has
// an unfinished survey.
func (b *Bot) SendReminder(userID string, remaining int) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %v", userID, err)
	}
	return b.send(chatID, fmt.Sprintf("You have %d unanswered questions left. Send your next answer any time!", remaining))
}

// send delivers one text message
func (b *Bot) send(chatID int64, text string) error {
	_, err := b.sender.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// listenAddr builds the webhook listen address from HOST/PORT
func listenAddr() string {
	host := os.Getenv("HOST")
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return host + ":" + port
}
