package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/siwei-li/bible-bot/internal/ai"
	"github.com/siwei-li/bible-bot/internal/bot"
	"github.com/siwei-li/bible-bot/internal/database"
	"github.com/siwei-li/bible-bot/internal/excel"
	"github.com/siwei-li/bible-bot/internal/scheduler"
	"github.com/siwei-li/bible-bot/internal/survey"
)

func main() {
	importPath := flag.String("import", "", "import questions from an .xlsx or .csv file and exit")
	flag.Parse()

	// Load environment from .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	questionRepo := database.NewQuestionRepository()

	// Bulk import mode: load the question bank and exit
	if *importPath != "" {
		result, err := excel.ImportQuestions(excel.DefaultImportConfig(*importPath), questionRepo)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Import finished: %d rows processed, %d questions created, %d errors",
			result.TotalProcessed, result.Created, len(result.Errors))
		for _, msg := range result.Errors {
			log.Printf("Import error: %s", msg)
		}
		return
	}

	// Missing credentials are fatal at startup, nowhere else
	validator, err := ai.New()
	if err != nil {
		log.Fatalf("Failed to create OpenAI client: %v", err)
	}

	// A catalog load failure degrades to "no domains available" instead of
	// refusing to start
	catalog := survey.LoadCatalog(questionRepo)
	if catalog.Empty() {
		log.Println("Warning: question catalog is empty, no domains available")
	}

	progressRepo := database.NewProgressRepository()
	responseRepo := database.NewResponseRepository()
	engine := survey.NewEngine(catalog, validator, progressRepo, responseRepo)

	b, err := bot.New(catalog, engine, progressRepo)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Daily reminder sweep for unfinished surveys
	reminders := scheduler.New(b, catalog, progressRepo)
	reminders.Start()
	defer reminders.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	<-done
	log.Println("Bot stopped successfully")
}
