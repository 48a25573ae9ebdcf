package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gbax/gbax-core/internal/event"
	"github.com/gbax/gbax-core/internal/logger"
)

// InitializeEventSystem builds the bus every service publishes on: an
// in-memory bus wrapped in a resilient publisher, so a failed dispatch is
// retried with backoff and dead-lettered to a JSONL file instead of being
// dropped at the publish site.
func InitializeEventSystem() (*event.ResilientPublisher, error) {
	eventBus := event.NewMemoryBus()

	deadLetterPath := EventDefaultDeadLetterPath
	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	resilientPublisher := event.NewResilientPublisher(eventBus, event.ResilientConfig{
		MaxRetries:     EventDefaultMaxRetries,
		RetryDelay:     EventDefaultRetryDelay,
		DeadLetterPath: deadLetterPath,
	})

	logger.Info(LogMsgEventSystemInitialized,
		"max_retries", EventDefaultMaxRetries,
		"retry_delay", EventDefaultRetryDelay,
		"deadletter_path", deadLetterPath)

	return resilientPublisher, nil
}
