package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"library-api/internal/platform/config"
)

// Setup configures the global logrus logger from cfg.
func Setup(cfg config.LogConfig) error {
	return configure(logrus.StandardLogger(), cfg, os.Stdout)
}

func configure(l *logrus.Logger, cfg config.LogConfig, out io.Writer) error {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	l.SetLevel(lv)
	l.SetOutput(out)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Format)
	}
	return nil
}
