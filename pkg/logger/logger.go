// Package logger настраивает общий логгер сервиса диспетчеризации.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New создает logrus-логгер с JSON-форматом: события приема, оценки и
// назначения читаются потоковыми сборщиками построчно.
func New(logLevel string) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	// Некорректный уровень не препятствует запуску: работаем на info
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
