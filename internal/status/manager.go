package status

import (
	"log/slog"
	"sync"
)

// Manager owns the process-wide status service.
type Manager struct {
	service Service
	mu      sync.RWMutex
}

var (
	globalManager *Manager
	managerMu     sync.Mutex
)

// InitManager installs service as the global status service.
func InitManager(service Service) {
	managerMu.Lock()
	defer managerMu.Unlock()
	globalManager = &Manager{
		service: service,
	}
	slog.Debug("Status manager initialized")
}

// GetService returns the global service, creating a default one on first use.
func GetService() Service {
	managerMu.Lock()
	if globalManager == nil {
		globalManager = &Manager{service: NewService()}
	}
	m := globalManager
	managerMu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.service
}

func Info(message string) {
	GetService().Info(message)
}

func Warn(message string) {
	GetService().Warn(message)
}

func Error(message string) {
	GetService().Error(message)
}

func Debug(message string) {
	GetService().Debug(message)
}
