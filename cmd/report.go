package main

import (
	"context"
	"fmt"
	"os"

	"gaze-tracker/internal/container"
	"gaze-tracker/internal/domain/entity"
)

// writeReport сохраняет HTML-отчёт по всем сессиям в файл path.
func writeReport(ctx context.Context, c *container.Container, path string, current *entity.Session) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := c.SessionService.WriteReport(ctx, f, current); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
