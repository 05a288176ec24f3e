package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

func init() {
	// Silence the default charmbracelet/log logger
	// All logging should go through our custom logger instance
	log.SetLevel(log.FatalLevel)
}

const logFileName = "ajour.log"

var (
	// Log is the global logger instance
	Log *log.Logger

	// logFile is the file handle for the log file
	logFile *os.File
)

// Init initializes the logger writing to logDir/ajour.log.
// When verbose is true, logs also go to stderr at debug level.
func Init(logDir string, verbose bool) error {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// Fall back to stderr only if we can't create log dir
		Log = newLogger(os.Stderr, verbose)
		return nil
	}

	var err error
	logFile, err = os.OpenFile(filepath.Join(logDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		Log = newLogger(os.Stderr, verbose)
		return nil
	}

	var output io.Writer = logFile
	if verbose {
		output = io.MultiWriter(logFile, os.Stderr)
	}

	Log = newLogger(output, verbose)
	return nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.InfoLevel)
	}
	return l
}

// Discard returns a logger that drops everything, for tests and library
// callers that do not want output
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Close closes the log file
func Close() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

// GetLogPath returns the path to the log file inside logDir
func GetLogPath(logDir string) string {
	return filepath.Join(logDir, logFileName)
}
