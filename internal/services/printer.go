package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Printer sends PDFs to the default printer through a reader program.
// Arguments may use {file}. The reader returns before spooling finishes,
// so jobs are spaced by delay.
type Printer struct {
	command []string
	delay   time.Duration
	sleep   func(context.Context, time.Duration) error
}

// NewPrinter creates a Printer.
func NewPrinter(command []string, delay time.Duration) *Printer {
	return &Printer{command: command, delay: delay, sleep: sleepContext}
}

// PrintFiles prints files in order and returns the ones sent.
func (p *Printer) PrintFiles(ctx context.Context, files []string) ([]string, error) {
	var printed []string
	for i, file := range files {
		if i > 0 && p.delay > 0 {
			if err := p.sleep(ctx, p.delay); err != nil {
				return printed, err
			}
		}
		argv := expandCommand(p.command, map[string]string{"file": file})
		if err := runCommand(ctx, "print", argv); err != nil {
			return printed, fmt.Errorf("printing %s: %w", file, err)
		}
		slog.Info("Sent to printer.", "path", file)
		printed = append(printed, file)
	}
	return printed, nil
}

// PrintDir prints every PDF in dir, in natural order.
func (p *Printer) PrintDir(ctx context.Context, dir string) ([]string, error) {
	files, err := ListPDFs(dir)
	if err != nil {
		return nil, err
	}
	return p.PrintFiles(ctx, files)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
