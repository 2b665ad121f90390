package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stack-auth/stack-quickstart/internal/pubsub"
)

// Log is one decoded slog record.
type Log struct {
	ID         string
	Timestamp  time.Time
	Level      string
	Message    string
	Attributes map[string]string
}

const (
	EventLogCreated pubsub.EventType = "log_created"

	DefaultHistorySize = 500
	logFileName        = "quickstart.log"
)

type Service interface {
	pubsub.Subscriber[Log]

	Create(ctx context.Context, timestamp time.Time, level, message string, attributes map[string]string) (Log, error)
	ListAll(ctx context.Context, limit int) ([]Log, error)
	Shutdown()
}

// service keeps the most recent records in memory for the log page.
type service struct {
	mu      sync.RWMutex
	entries []Log
	max     int
	broker  *pubsub.Broker[Log]
}

var (
	globalLoggingService *service
	globalMu             sync.RWMutex
)

func NewService(historySize int) Service {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &service{
		max:    historySize,
		broker: pubsub.NewBroker[Log](),
	}
}

// InitService installs the global service fed by NewSlogWriter.
func InitService(historySize int) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLoggingService != nil {
		return fmt.Errorf("logging service already initialized")
	}
	globalLoggingService = NewService(historySize).(*service)
	return nil
}

// GetService returns the global service or nil before InitService.
func GetService() Service {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLoggingService == nil {
		return nil
	}
	return globalLoggingService
}

func (s *service) Create(ctx context.Context, timestamp time.Time, level, message string, attributes map[string]string) (Log, error) {
	if err := ctx.Err(); err != nil {
		return Log{}, err
	}
	if level == "" {
		level = "info"
	}
	if attributes == nil {
		attributes = make(map[string]string)
	}

	entry := Log{
		ID:         uuid.New().String(),
		Timestamp:  timestamp,
		Level:      level,
		Message:    message,
		Attributes: attributes,
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.max; over > 0 {
		s.entries = append(s.entries[:0:0], s.entries[over:]...)
	}
	s.mu.Unlock()

	s.broker.Publish(EventLogCreated, entry)
	return entry, nil
}

// ListAll returns up to limit records, newest first. limit <= 0 means all.
func (s *service) ListAll(ctx context.Context, limit int) ([]Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Log, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *service) Subscribe(ctx context.Context) <-chan pubsub.Event[Log] {
	return s.broker.Subscribe(ctx)
}

func (s *service) Shutdown() {
	s.broker.Shutdown()
}

func Create(ctx context.Context, timestamp time.Time, level, message string, attributes map[string]string) error {
	svc := GetService()
	if svc == nil {
		return nil
	}
	_, err := svc.Create(ctx, timestamp, level, message, attributes)
	return err
}

// OpenLogFile opens (appending) the log file inside dir, creating dir first.
func OpenLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// RecoverPanic is a common function to handle panics gracefully.
// It logs the error, creates a panic log file with stack trace,
// and executes an optional cleanup function.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("Panic in %s: %v", name, r)
		slog.Error(errorMsg)

		timestamp := time.Now().Format("20060102-150405")
		filename := fmt.Sprintf("stack-quickstart-panic-%s-%s.log", name, timestamp)

		file, err := os.Create(filename)
		if err != nil {
			slog.Error(fmt.Sprintf("Failed to create panic log file '%s': %v", filename, err))
		} else {
			defer file.Close()
			fmt.Fprintf(file, "Panic in %s: %v\n\n", name, r)
			fmt.Fprintf(file, "Time: %s\n\n", time.Now().Format(time.RFC3339))
			fmt.Fprintf(file, "Stack Trace:\n%s\n", string(debug.Stack()))
			slog.Info(fmt.Sprintf("Panic details written to %s", filename))
		}

		if cleanup != nil {
			cleanup()
		}
	}
}
