package telegram

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "gaze-tracker/internal/application"
	"gaze-tracker/internal/domain/entity"
	"gaze-tracker/internal/log"
)

const (
	msgStart = `👋 Привет! Я слежу за направлением взгляда перед камерой.

📋 Команды:
/status — куда смотрит пользователь сейчас
/snapshot — последний кадр с отмеченными зрачками
/stats — статистика текущей сессии
/history — прошлые сессии
/report — HTML-отчёт
/help — справка`

	msgHelp = `ℹ️ Как это работает:

1️⃣ Первые кадры уходят на калибровку порога для каждого глаза
2️⃣ Дальше на каждом кадре ищутся зрачки и определяется направление взгляда
3️⃣ Статистика копится до конца сессии и сохраняется

📋 Команды:
/status, /snapshot, /stats, /history, /report`

	msgNoFrames       = "⏳ Кадров пока нет. Подождите начала сессии."
	msgNoSessions     = "📭 Сохранённых сессий пока нет."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgSnapshotError  = "⚠️ Не удалось подготовить кадр."
	msgReportError    = "⚠️ Не удалось построить отчёт."

	historyLimit = 5
)

// CalibrationStatus сообщает, завершена ли калибровка порогов.
type CalibrationStatus interface {
	IsComplete() bool
}

// response — ответ на команду: текст, фото или документ.
type response struct {
	text     string
	photo    []byte
	document []byte
	fileName string
}

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	sessions *app.SessionService
	calib    CalibrationStatus
}

// NewBot создаёт нового бота
func NewBot(token string, sessions *app.SessionService, calib CalibrationStatus) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	log.Info("telegram bot authorized", "account", api.Self.UserName)

	return &Bot{
		api:      api,
		sessions: sessions,
		calib:    calib,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	command := "help"
	if msg.IsCommand() {
		command = msg.Command()
	}
	b.send(msg.Chat.ID, b.handleCommand(ctx, command))
}

// handleCommand готовит ответ на команду бота
func (b *Bot) handleCommand(ctx context.Context, command string) response {
	switch command {
	case "start":
		return response{text: msgStart}

	case "help":
		return response{text: msgHelp}

	case "status":
		snap, ok := b.sessions.Latest()
		if !ok {
			return response{text: msgNoFrames}
		}
		return response{text: formatStatus(snap, b.calib != nil && b.calib.IsComplete())}

	case "snapshot":
		snap, ok := b.sessions.Latest()
		if !ok || snap.Annotated == nil {
			return response{text: msgNoFrames}
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, snap.Annotated, &jpeg.Options{Quality: 90}); err != nil {
			log.Error("encode snapshot", "error", err)
			return response{text: msgSnapshotError}
		}
		return response{photo: buf.Bytes(), text: formatStatus(snap, b.calib != nil && b.calib.IsComplete())}

	case "stats":
		snap, ok := b.sessions.Latest()
		if !ok || snap.Session == nil {
			return response{text: msgNoFrames}
		}
		return response{text: formatStats(snap.Session)}

	case "history":
		list, err := b.sessions.History(ctx, historyLimit)
		if err != nil {
			log.Error("load history", "error", err)
			return response{text: msgNoSessions}
		}
		if len(list) == 0 {
			return response{text: msgNoSessions}
		}
		return response{text: formatHistory(list)}

	case "report":
		var current *entity.Session
		if snap, ok := b.sessions.Latest(); ok {
			current = snap.Session
		}
		var buf bytes.Buffer
		if err := b.sessions.WriteReport(ctx, &buf, current); err != nil {
			log.Warn("build report", "error", err)
			return response{text: msgReportError}
		}
		return response{document: buf.Bytes(), fileName: "gaze-report.html"}

	default:
		return response{text: msgUnknownCommand}
	}
}

func (b *Bot) send(chatID int64, r response) {
	var c tgbotapi.Chattable
	switch {
	case r.photo != nil:
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "snapshot.jpg", Bytes: r.photo})
		photo.Caption = r.text
		c = photo
	case r.document != nil:
		c = tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: r.fileName, Bytes: r.document})
	default:
		c = tgbotapi.NewMessage(chatID, r.text)
	}
	if _, err := b.api.Send(c); err != nil {
		log.Error("telegram send failed", "chat", chatID, "error", err)
	}
}

// formatStatus описывает последний кадр: направление взгляда, зрачки и калибровку.
func formatStatus(snap entity.Snapshot, calibrated bool) string {
	var sb strings.Builder

	label := snap.Gaze.State().Label()
	if label == "" {
		label = "Зрачки не найдены"
	}
	fmt.Fprintf(&sb, "👁 %s\n", label)

	if p, ok := snap.Gaze.PupilLeftCoords(); ok {
		fmt.Fprintf(&sb, "Left pupil:  (%d, %d)\n", p.X, p.Y)
	} else {
		sb.WriteString("Left pupil:  -\n")
	}
	if p, ok := snap.Gaze.PupilRightCoords(); ok {
		fmt.Fprintf(&sb, "Right pupil: (%d, %d)\n", p.X, p.Y)
	} else {
		sb.WriteString("Right pupil: -\n")
	}

	if calibrated {
		sb.WriteString("Калибровка: завершена")
	} else {
		sb.WriteString("Калибровка: идёт")
	}
	return sb.String()
}

// formatStats описывает статистику сессии.
func formatStats(s *entity.Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Сессия %s\n", shortID(s.ID))
	fmt.Fprintf(&sb, "Кадров: %d (пропущено %d, зрачки найдены на %d)\n", s.Frames, s.Skipped, s.Located())
	for _, state := range entity.GazeStates {
		if n := s.Counts[state]; n > 0 {
			fmt.Fprintf(&sb, "• %s: %d\n", state, n)
		}
	}
	fmt.Fprintf(&sb, "Внимание: %.0f%%, рассеянность: %s\n", s.Attention()*100, s.Distraction())
	fmt.Fprintf(&sb, "Горизонталь: %.2f ± %.2f, вертикаль: %.2f ± %.2f",
		s.HorizontalMean, s.HorizontalStdDev, s.VerticalMean, s.VerticalStdDev)
	return sb.String()
}

// formatHistory перечисляет сессии, самую свежую последней.
func formatHistory(list []*entity.Session) string {
	var sb strings.Builder
	sb.WriteString("🗂 Последние сессии:")
	for _, s := range list {
		fmt.Fprintf(&sb, "\n%s %s — %s, внимание %.0f%%",
			s.StartedAt.Format("02.01 15:04"), shortID(s.ID),
			s.Duration().Round(time.Second), s.Attention()*100)
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
