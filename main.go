package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lingo.chat/audio"
	"lingo.chat/bot"
	"lingo.chat/db"
	"lingo.chat/dispatch"
	"lingo.chat/gemini"
	"lingo.chat/llm"
	"lingo.chat/practice"
	"lingo.chat/score"
	"lingo.chat/session"
	"lingo.chat/stt"
	"lingo.chat/tts"
	"lingo.chat/web"
)

var logger *log.Logger

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(telegramCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(serveCmd)

	rootCmd.PersistentFlags().String("telegram-token", "", "Telegram bot token")
	rootCmd.PersistentFlags().String("openai-api-key", "", "OpenAI API key")
	rootCmd.PersistentFlags().
		String("elevenlabs-api-key", "", "ElevenLabs API key")
	rootCmd.PersistentFlags().String("gemini-api-key", "", "Gemini API key")
	rootCmd.PersistentFlags().
		String("elevenlabs-voice", "pKLLpypGseGMUjkb5fEZ", "ElevenLabs voice ID")
	rootCmd.PersistentFlags().
		String("transcriber", "whisper", "Transcription backend (whisper or gemini)")
	rootCmd.PersistentFlags().Int("http-port", 8081, "HTTP server port")
	rootCmd.PersistentFlags().String("scratch-dir", os.TempDir(), "Scratch directory for voice notes")
	rootCmd.PersistentFlags().String("db-path", "lingo.db", "Progress database path")

	viper.BindPFlag("telegram_token", rootCmd.PersistentFlags().Lookup("telegram-token"))
	viper.BindPFlag("openai_api_key", rootCmd.PersistentFlags().Lookup("openai-api-key"))
	viper.BindPFlag("elevenlabs_api_key", rootCmd.PersistentFlags().Lookup("elevenlabs-api-key"))
	viper.BindPFlag("gemini_api_key", rootCmd.PersistentFlags().Lookup("gemini-api-key"))
	viper.BindPFlag("elevenlabs_voice", rootCmd.PersistentFlags().Lookup("elevenlabs-voice"))
	viper.BindPFlag("transcriber", rootCmd.PersistentFlags().Lookup("transcriber"))
	viper.BindPFlag("http_port", rootCmd.PersistentFlags().Lookup("http-port"))
	viper.BindPFlag("scratch_dir", rootCmd.PersistentFlags().Lookup("scratch-dir"))
	viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db-path"))
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %s\n", err)
	}

	logger = log.New(os.Stdout)
}

var rootCmd = &cobra.Command{
	Use:   "lingo",
	Short: "Lingo is a language tutor bot",
	Long:  `Lingo is a Telegram bot that drills reading, listening, speaking, and free conversation, and keeps score.`,
}

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Start the Telegram bot",
	Run:   runTelegram,
}

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List the progression tiers",
	Long:  `List every progression tier with its score band in a formatted table.`,
	Run:   runTiers,
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <url>",
	Short: "Transcribe a remote voice note",
	Long:  `Run the audio ingestion pipeline once against a remote audio URL and print the transcript.`,
	Args:  cobra.ExactArgs(1),
	Run:   runTranscribe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server alone",
	Run: func(cmd *cobra.Command, args []string) {
		mainLogger, _, _, dataLogger := createLoggers()
		store := session.NewStore(dataLogger, nil)
		if err := web.Serve(viper.GetInt("http_port"), store); err != nil {
			mainLogger.Fatal("start HTTP server", "error", err.Error())
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runTelegram(cmd *cobra.Command, args []string) {
	mainLogger, chatLogger, hearLogger, dataLogger := createLoggers()

	telegramToken := viper.GetString("telegram_token")
	openaiAPIKey := viper.GetString("openai_api_key")
	elevenlabsAPIKey := viper.GetString("elevenlabs_api_key")

	if telegramToken == "" {
		mainLogger.Fatal("missing TELEGRAM_TOKEN or --telegram-token=")
	}
	if openaiAPIKey == "" {
		mainLogger.Fatal("missing OPENAI_API_KEY or --openai-api-key=")
	}
	if elevenlabsAPIKey == "" {
		mainLogger.Fatal("missing ELEVENLABS_API_KEY or --elevenlabs-api-key=")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	progress, err := db.Open(viper.GetString("db_path"))
	if err != nil {
		mainLogger.Fatal("open progress database", "error", err.Error())
	}
	defer progress.Close()

	transcriber, err := newTranscriber(ctx, hearLogger)
	if err != nil {
		mainLogger.Fatal("create transcriber", "error", err.Error())
	}

	gateway := llm.NewOpenAIGateway(openaiAPIKey)
	speech := tts.NewElevenLabsSpeechGenerator(
		elevenlabsAPIKey, viper.GetString("elevenlabs_voice"))
	pipeline := audio.NewPipeline(transcriber, viper.GetString("scratch_dir"), hearLogger)
	sessions := session.NewStore(dataLogger, progress)

	dispatcher := dispatch.New(
		sessions,
		practice.NewReading(gateway, chatLogger),
		practice.NewListening(gateway, speech, chatLogger),
		practice.NewSpeaking(gateway, chatLogger),
		practice.NewFreeChat(gateway, chatLogger),
		pipeline,
		chatLogger,
	)

	b, err := bot.New(telegramToken, dispatcher, chatLogger)
	if err != nil {
		mainLogger.Fatal("start telegram bot", "error", err.Error())
	}

	go func() {
		if err := web.Serve(viper.GetInt("http_port"), sessions); err != nil {
			mainLogger.Error("http server stopped", "error", err.Error())
		}
	}()

	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		mainLogger.Fatal("bot stopped", "error", err.Error())
	}
}

// newTranscriber picks the transcription backend from config.
func newTranscriber(ctx context.Context, logger *log.Logger) (stt.Transcriber, error) {
	switch backend := viper.GetString("transcriber"); backend {
	case "gemini":
		apiKey := viper.GetString("gemini_api_key")
		if apiKey == "" {
			return nil, fmt.Errorf("missing GEMINI_API_KEY or --gemini-api-key=")
		}
		logger.Info("transcriber", "backend", "gemini")
		return gemini.NewTranscriber(ctx, apiKey)
	case "whisper", "":
		apiKey := viper.GetString("openai_api_key")
		if apiKey == "" {
			return nil, fmt.Errorf("missing OPENAI_API_KEY or --openai-api-key=")
		}
		logger.Info("transcriber", "backend", "whisper")
		return stt.NewWhisperClient(apiKey), nil
	default:
		return nil, fmt.Errorf("unknown transcriber backend: %s", backend)
	}
}

func runTiers(cmd *cobra.Command, args []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Tier", "Band", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)

	for _, tier := range score.Tiers() {
		table.Append([]string{
			tier.Name,
			fmt.Sprintf("%d–%d", tier.Min, tier.Max),
			tier.Description,
		})
	}

	table.Render()
}

func runTranscribe(cmd *cobra.Command, args []string) {
	mainLogger, _, hearLogger, _ := createLoggers()

	ctx := context.Background()
	transcriber, err := newTranscriber(ctx, hearLogger)
	if err != nil {
		mainLogger.Fatal("create transcriber", "error", err.Error())
	}

	pipeline := audio.NewPipeline(transcriber, viper.GetString("scratch_dir"), hearLogger)
	text, err := pipeline.Transcribe(ctx, args[0])
	if err != nil {
		mainLogger.Fatal("transcribe", "error", err.Error())
	}

	fmt.Println(text)
}

func createLoggers() (mainLogger, chatLogger, hearLogger, dataLogger *log.Logger) {
	logLevel := log.DebugLevel

	logger.SetLevel(logLevel)
	logger.SetReportCaller(true)
	logger.SetCallerFormatter(
		func(file string, line int, funcName string) string {
			path, err := filepath.Rel(".", file)
			if err != nil {
				path = file
			}
			return fmt.Sprintf("%s:%d", path, line)
		},
	)

	styles := log.DefaultStyles()
	styles.Prefix = styles.Prefix.MarginTop(1).
		Bold(false).Transform(func(s string) string {
		return strings.TrimSuffix(s, ":")
	})
	styles.Levels[log.InfoLevel] = styles.Levels[log.InfoLevel].
		MaxWidth(6).
		MarginRight(1).
		Bold(false)
	styles.Levels[log.ErrorLevel] = styles.Levels[log.ErrorLevel].
		MaxWidth(6).
		MarginRight(1).
		Bold(false)
	styles.Message = styles.Message.Bold(true).Width(24)
	styles.Key = styles.Key.MarginLeft(1).
		Bold(false).
		Foreground(lipgloss.Color("#ff8800"))

	logger.SetStyles(styles)

	mainLogger = logger.With().WithPrefix("main")
	chatLogger = logger.With().WithPrefix("chat")
	hearLogger = logger.With().WithPrefix("hear")
	dataLogger = logger.With().WithPrefix("data")

	return
}
