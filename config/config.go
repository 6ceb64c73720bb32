package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	CameraID          int    // номер веб-камеры (сборка с тегом gocv)
	FramesDir         string // каталог с кадрами вместо камеры
	CascadeDir        string // каталог с каскадами pigo facefinder и puploc
	LandmarkCmd       string // внешняя программа 68-точечной разметки на dlib
	LandmarkModel     string // модель, передаваемая программе разметки
	CalibrationFrames int    // число кадров калибровки на каждый глаз
	MaxReadFailures   int    // число подряд неудачных чтений кадра до остановки
	DBPath            string // файл SQLite для итогов сессий, при пустом значении итоги хранятся в памяти
	ReportPath        string // куда записать HTML-отчёт
	LogLevel          string
	TelegramToken     string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		FramesDir:     os.Getenv("GAZE_FRAMES_DIR"),
		CascadeDir:    envString("GAZE_CASCADE_DIR", "cascade"),
		LandmarkCmd:   os.Getenv("GAZE_LANDMARK_CMD"),
		LandmarkModel: envString("GAZE_LANDMARK_MODEL", "shape_predictor_68_face_landmarks.dat"),
		DBPath:        os.Getenv("GAZE_DB_PATH"),
		ReportPath:    envString("GAZE_REPORT_PATH", "gaze-report.html"),
		LogLevel:      envString("GAZE_LOG_LEVEL", "info"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}

	var err error
	if cfg.CameraID, err = envInt("GAZE_CAMERA_ID", 0); err != nil {
		return nil, err
	}
	if cfg.CalibrationFrames, err = envInt("GAZE_CALIBRATION_FRAMES", 20); err != nil {
		return nil, err
	}
	if cfg.MaxReadFailures, err = envInt("GAZE_MAX_READ_FAILURES", 30); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("parse %s: negative value %d", key, n)
	}
	return n, nil
}
