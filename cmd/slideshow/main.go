package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fj223/music-slideshow-1/internal/asset"
	"github.com/fj223/music-slideshow-1/internal/beat"
	"github.com/fj223/music-slideshow-1/internal/config"
	"github.com/fj223/music-slideshow-1/internal/cue"
	"github.com/fj223/music-slideshow-1/internal/engine"
	"github.com/fj223/music-slideshow-1/internal/render"
	"github.com/fj223/music-slideshow-1/internal/system"
	"github.com/fj223/music-slideshow-1/internal/transcribe"
)

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// .env для ключей внешних сервисов
	if err := godotenv.Load(); err == nil {
		fmt.Println("[*] Переменные окружения загружены из .env")
	}

	// Создаем нужные директории, если их нет
	dirs := []string{"input/audio", "output/images", "output/videos"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	audioPtr := flag.String("audio", "", "Путь к аудио (по умолчанию: самый свежий файл в input/audio/)")
	imagesPtr := flag.String("images", "", "Папка с изображениями или PDF (если пусто: генерация по транскрипции)")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/videos/)")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	configPtr := flag.String("config", "", "YAML-пресет конфигурации")
	beatSyncPtr := flag.Bool("beat-sync", false, "Синхронизировать смену слайдов с ритмом музыки")
	imageDurPtr := flag.Float64("image-duration", 0, "Фиксированная длительность слайда (0 - авто)")
	maxImagesPtr := flag.Int("max-images", 8, "Максимум слайдов")
	transitionPtr := flag.String("transition", "crossfade", "Стиль перехода: cut, crossfade, slide")
	transitionDurPtr := flag.Float64("transition-duration", 1.0, "Длительность перехода (сек)")
	zoomPtr := flag.String("zoom-mode", "center", "Зум: center, top-left, top-right, bottom-left, bottom-right, random")
	fpsPtr := flag.Int("fps", 24, "FPS")
	widthPtr := flag.Int("width", 1280, "Ширина")
	heightPtr := flag.Int("height", 720, "Высота")
	workersPtr := flag.Int("workers", 0, "Потоки декодирования (0 - авто по CPU/памяти)")
	textPtr := flag.Bool("text", false, "Наложить текст подсказок на видео")
	qrPtr := flag.String("qr-link", "", "Добавить финальный слайд с QR-кодом на ссылку")
	stylePtr := flag.String("style", "艺术风格", "Стиль генерируемых изображений")
	keywordsPtr := flag.Bool("keywords", true, "Использовать ключевые слова вместо полных предложений")
	whisperBinPtr := flag.String("whisper-bin", "whisper-cli", "Путь к whisper-cli")
	whisperModelPtr := flag.String("whisper-model", "models/ggml-base.bin", "Модель whisper")
	reportPtr := flag.String("report", "", "Путь для YAML-отчета о рендере")
	timelinePtr := flag.String("timeline", "", "Путь для YAML-дампа таймлайна")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто)")
	statsPtr := flag.Bool("stats", false, "Показать статистику выполнения")

	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.LoadPreset(*configPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка пресета: %v", err)
		}
		cfg = loaded
	}

	cfg.Width, cfg.Height = *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		cfg.Width, cfg.Height = 1280, 720
	case "9:16":
		cfg.Width, cfg.Height = 720, 1280
	case "4:5":
		cfg.Width, cfg.Height = 1080, 1350
	}

	cfg.FPS = *fpsPtr
	cfg.Workers = *workersPtr
	cfg.MaxImages = *maxImagesPtr
	cfg.ImageDuration = *imageDurPtr
	cfg.TransitionStyle = *transitionPtr
	cfg.TransitionDuration = *transitionDurPtr
	cfg.ZoomMode = *zoomPtr
	cfg.TextOverlay = *textPtr
	cfg.QRLink = *qrPtr
	cfg.ReportPath = *reportPtr
	cfg.TimelinePath = *timelinePtr
	cfg.ShowStats = *statsPtr
	if *beatSyncPtr {
		cfg.Mode = config.ModeBeatSync
	}

	audioPath := *audioPtr
	if audioPath == "" {
		latest, err := system.FindLatestAudio("input/audio")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите аудио в input/audio/", err)
		}
		audioPath = latest
		fmt.Printf("[*] Выбрано аудио: %s\n", audioPath)
	}
	cfg.AudioPath = audioPath
	cfg.ImagesPath = *imagesPtr

	cfg.OutputVideo = *outputPtr
	if cfg.OutputVideo == "" {
		baseName := filepath.Base(audioPath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		cfg.OutputVideo = filepath.Join("output/videos", fmt.Sprintf("%s_slideshow_%s.mp4", cleanName, timestamp))
	}

	encoderName, _ := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
	}
	cfg.VideoEncoder = encoderName

	cfg.Quality = *qualityPtr
	if cfg.Quality == 0 {
		switch encoderName {
		case "h264_videotoolbox":
			cfg.Quality = 75
		case "h264_nvenc":
			cfg.Quality = 28
		default:
			cfg.Quality = 23
		}
	}

	ctx := context.Background()

	set, err := resolveAssets(ctx, cfg, *stylePtr, *keywordsPtr, *whisperBinPtr, *whisperModelPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка подготовки ассетов: %v", err)
	}
	if set.Len() == 0 {
		log.Fatalf("[-] Ошибка: нет ни одного слайда для рендера")
	}

	detector, err := beat.NewDetector("")
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	renderer := render.NewRenderer(cfg, &render.FFmpegEncoder{})
	project := engine.NewProject(cfg, set, detector, renderer)

	result, err := project.Run(ctx)
	if err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	if len(result.Report.Substitutions) > 0 {
		fmt.Printf("[!] Подставлено слотов: %d (подробности в отчете)\n", len(result.Report.Substitutions))
	}
	fmt.Printf("[+++] Успех! Результат: %s\n", result.OutputPath)
}

// resolveAssets builds the asset set: an image directory, a PDF deck, or the
// full transcribe-and-generate pipeline when no images are supplied.
func resolveAssets(ctx context.Context, cfg *config.Config, style string, keywords bool, whisperBin, whisperModel string) (*asset.Set, error) {
	if cfg.ImagesPath != "" {
		if strings.HasSuffix(strings.ToLower(cfg.ImagesPath), ".pdf") {
			workDir, err := os.MkdirTemp("output/images", "deck_")
			if err != nil {
				return nil, err
			}
			return asset.FromPDF(cfg.ImagesPath, workDir, 150)
		}
		return asset.FromDir(cfg.ImagesPath, cfg.MaxImages)
	}

	fmt.Println("[*] Изображения не заданы: транскрипция и генерация по аудио")

	tr := transcribe.NewWhisperCLI(whisperBin, whisperModel, os.Getenv("WHISPER_LANGUAGE"))
	text, err := tr.Transcribe(ctx, cfg.AudioPath)
	if err != nil {
		// Без текста видео все равно возможно, но генерировать не из чего.
		return nil, fmt.Errorf("транскрипция не удалась: %w", err)
	}

	cues := cue.Build(text, cfg.MaxImages, keywords)
	if len(cues) == 0 {
		return nil, fmt.Errorf("в транскрипции не найдено пригодных фраз")
	}

	gen := transcribe.NewKolorsClient(
		envOr("SILICON_BASE_URL", "https://api.siliconflow.cn/v1"),
		os.Getenv("SILICON_API_KEY"),
		"output/images",
	)
	return engine.BuildAssets(ctx, cues, style, gen), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
