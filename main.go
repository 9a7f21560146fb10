package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"weather-screen/api"
	"weather-screen/config"
	"weather-screen/models"
	"weather-screen/providers"
	"weather-screen/render"
	"weather-screen/screen"
	"weather-screen/tracing"
)

// Version заполняется через ldflags
var Version = "dev"

var (
	cfg        *config.Config
	controller *screen.Controller
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "weather-screen",
		Short: "Экран погоды",
		Long:  "Текущая погода, прогноз и сгенерированная подсказка для координат",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}

	// Команда для запуска сервера
	var serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Запуск HTTP сервера",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}

	// Команда для показа экрана в терминале
	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Показать экран погоды для координат",
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, _ := cmd.Flags().GetFloat64("lat")
			lon, _ := cmd.Flags().GetFloat64("lon")
			output, _ := cmd.Flags().GetString("output")
			watch, _ := cmd.Flags().GetBool("watch")

			return showScreen(cmd.Context(), cmd.OutOrStdout(), models.Coordinates{Lat: lat, Lon: lon}, output, watch)
		},
	}

	showCmd.Flags().Float64("lat", 0, "Широта")
	showCmd.Flags().Float64("lon", 0, "Долгота")
	showCmd.Flags().StringP("output", "o", "text", "Формат вывода (text, json, html, state)")
	showCmd.Flags().BoolP("watch", "w", false, "Печатать экран на каждом изменении состояния")
	showCmd.MarkFlagRequired("lat")
	showCmd.MarkFlagRequired("lon")

	// Команда для проверки провайдеров
	var providersCmd = &cobra.Command{
		Use:   "providers",
		Short: "Показать список настроенных провайдеров",
		Run: func(cmd *cobra.Command, args []string) {
			showProviders(cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(serverCmd, showCmd, providersCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup загружает конфигурацию и собирает контроллер экрана
func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	weather := providers.NewOpenWeatherProvider(cfg.OpenWeatherAPIKey, cfg.Units, cfg.RequestTimeout)
	weather.SetBaseURL(cfg.OpenWeatherBaseURL)

	var suggester providers.SuggestionProvider
	if cfg.SuggestionsEnabled() {
		suggester = providers.NewGenerativeSuggestionProvider(
			cfg.SuggestionAPIKey, cfg.SuggestionBaseURL, cfg.SuggestionModel, cfg.RequestTimeout,
		)
	} else {
		log.Printf("SUGGESTION_API_KEY не задан, подсказки отключены")
	}

	controller = screen.NewController(weather, suggester, cfg.Units, cfg.ForecastCount, screen.WithDebug(cfg.Debug()))
	return nil
}

// startServer запускает HTTP сервер и ждёт сигнала остановки (отмена ctx)
func startServer(ctx context.Context) error {
	shutdownTracing, err := tracing.Init(cfg.ZipkinURL, Version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Printf("Ошибка остановки трейсинга: %v", err)
		}
	}()

	server := api.NewServer(controller, cfg.ServerPort)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Завершение работы сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка при завершении работы сервера: %w", err)
	}

	log.Println("Сервер остановлен")
	return nil
}

// showScreen собирает экран и печатает его в выбранном формате
func showScreen(ctx context.Context, w io.Writer, coords models.Coordinates, output string, watch bool) error {
	switch output {
	case "text", "json", "html", "state":
	default:
		return fmt.Errorf("неизвестный формат вывода %q", output)
	}

	shutdownTracing, err := tracing.Init(cfg.ZipkinURL, Version)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	ctx, cancel := context.WithTimeout(ctx, api.ScreenTimeout)
	defer cancel()

	var onChange func(models.ScreenState)
	if watch {
		onChange = func(state models.ScreenState) {
			if err := printScreen(w, state, output); err != nil {
				log.Printf("Ошибка вывода: %v", err)
			}
		}
	}

	state, err := controller.Run(ctx, coords, onChange)
	if err != nil {
		return err
	}
	if watch {
		return nil
	}
	return printScreen(w, state, output)
}

func printScreen(w io.Writer, state models.ScreenState, output string) error {
	view := render.Build(state, time.Now())

	switch output {
	case "json":
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "state":
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "html":
		return render.HTML(w, view)
	default:
		if err := render.Text(w, view); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}
}

// showProviders показывает список провайдеров
func showProviders(w io.Writer) {
	fmt.Fprintln(w, "📡 Провайдеры экрана погоды:")
	fmt.Fprintln(w, "------------------------------")

	fmt.Fprintf(w, "✓ OpenWeatherMap (%s, %d точек прогноза)\n", cfg.Units, cfg.ForecastCount)

	if cfg.SuggestionsEnabled() {
		fmt.Fprintf(w, "✓ Подсказки: %s (%s)\n", cfg.SuggestionModel, cfg.SuggestionBaseURL)
	} else {
		fmt.Fprintln(w, "✗ Подсказки (не настроены)")
	}

	if cfg.ZipkinURL != "" {
		fmt.Fprintf(w, "✓ Трейсинг: %s\n", cfg.ZipkinURL)
	}
}
