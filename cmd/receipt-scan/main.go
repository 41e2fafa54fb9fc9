package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/expensewell/receipt-scan/internal/extract"
	"github.com/expensewell/receipt-scan/internal/receipt"
	"github.com/expensewell/receipt-scan/internal/recognition"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Local .env files are a convenience for development; absence is fine.
	godotenv.Load()

	fs := ff.NewFlagSet("receipt-scan")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		dbPath        = fs.StringLong("db", "receipt-scan.db", "Database file path")
		storagePath   = fs.StringLong("storage", "./receipts", "Storage directory path")
		engineName    = fs.StringLong("engine", "", "Preferred recognition engine: tesseract, google_vision, aws_textract, or gemini (empty = automatic fallback chain)")
		visionKey     = fs.StringLong("google-vision-key", "", "Google Vision API key (or set GOOGLE_VISION_API_KEY env var)")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		textractCreds = fs.StringLong("textract-credentials", "", "AWS Textract credentials as JSON {accessKeyId, secretAccessKey, region} (or set AWS_* env vars)")
		tessLang      = fs.StringLong("tesseract-lang", "eng", "Tesseract language")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_SCAN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var preferred recognition.Engine
	if *engineName != "" {
		engine, ok := recognition.ParseEngine(*engineName)
		if !ok {
			slog.Error("Invalid engine", "engine", *engineName, "valid", "tesseract, google_vision, aws_textract, gemini")
			os.Exit(1)
		}
		preferred = engine
	}

	if *textractCreds != "" {
		if _, _, err := recognition.ParseTextractCredentials(*textractCreds); err != nil {
			slog.Error("Invalid textract credentials", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Initializing database...")
	db, err := receipt.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("Initializing storage...")
	store, err := receipt.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	recognizer := recognition.NewOrchestrator(
		recognition.NewTesseract(*tessLang),
		recognition.NewGoogleVision(),
		recognition.NewAWSTextract(),
		recognition.NewGemini(*geminiModel),
	)

	service := receipt.NewService(db, recognizer, extract.NewExtractor(), store)

	defaultCfg := recognition.Config{
		Preferred: preferred,
		Credentials: recognition.Credentials{
			GoogleVisionAPIKey: *visionKey,
			GeminiAPIKey:       *geminiKey,
			TextractBlob:       *textractCreds,
		},
	}

	basicAuth := receipt.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := receipt.NewServer(service, basicAuth, defaultCfg)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if preferred != "" {
		slog.Info("Preferred recognition engine", "engine", preferred)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
