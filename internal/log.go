package internal

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger from the given configuration.
// Quiet mode keeps errors only; debug mode wins over the configured level.
func InitLogger(config *Config) error {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if config.EnableDebug {
		level = logrus.DebugLevel
	}
	if config.QuietMode {
		level = logrus.ErrorLevel
	}
	logrus.SetLevel(level)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	var output io.Writer = os.Stderr
	if config.LogFile != "" {
		file, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		output = file
	}
	logrus.SetOutput(output)

	return nil
}

// sensitive query parameters that must never reach the log
var sensitiveParams = []string{
	"jsToken=",
	"token=",
	"access_token=",
	"key=",
	"secret=",
	"password=",
	"pwd=",
}

// RedactURL redacts sensitive query parameter values from a URL before it is
// logged.
func RedactURL(rawURL string) string {
	result := rawURL
	for _, param := range sensitiveParams {
		lower := strings.ToLower(result)
		index := strings.Index(lower, strings.ToLower(param))
		if index == -1 {
			continue
		}
		start := index + len(param)
		end := start
		for end < len(result) && result[end] != '&' && result[end] != ' ' {
			end++
		}
		if end > start {
			result = result[:start] + "[REDACTED]" + result[end:]
		}
	}
	return result
}
