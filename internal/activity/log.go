package activity

import (
	"time"

	"github.com/biirving/focus/internal/logging"
	"github.com/biirving/focus/internal/models"
)

const defaultRetryBackoff = 100 * time.Millisecond

// Log is the monitor's write path into the activity log. A failed append is
// retried once after a short backoff; if it still fails the entry joins an
// in-memory pending queue so the tick proceeds without blocking. The queue
// is flushed in order before newer entries are written, keeping the durable
// log strictly chronological.
type Log struct {
	repo    appender
	log     *logging.Logger
	backoff time.Duration
	pending []*models.ActivityLogEntry
}

type appender interface {
	Append(entry *models.ActivityLogEntry) error
}

// NewLog wraps a repository with the retry/queue write path.
func NewLog(repo *Repository, log *logging.Logger) *Log {
	return &Log{
		repo:    repo,
		log:     log,
		backoff: defaultRetryBackoff,
	}
}

// Append records one tick's entry. It never returns an error to the caller;
// persistence trouble is downgraded to a queued retry.
func (l *Log) Append(entry *models.ActivityLogEntry) {
	if len(l.pending) > 0 {
		// Older entries must land first.
		l.pending = append(l.pending, entry)
		l.Flush()
		return
	}

	if err := l.repo.Append(entry); err == nil {
		return
	}
	time.Sleep(l.backoff)
	if err := l.repo.Append(entry); err != nil {
		l.pending = append(l.pending, entry)
		l.log.Warn("activity log write failed, queued for retry",
			"pending", len(l.pending), "error", err)
	}
}

// Flush retries queued writes in order, stopping at the first failure.
func (l *Log) Flush() {
	for len(l.pending) > 0 {
		if err := l.repo.Append(l.pending[0]); err != nil {
			l.log.Debug("activity log flush still failing",
				"pending", len(l.pending), "error", err)
			return
		}
		l.pending = l.pending[1:]
	}
}

// PendingCount reports how many entries await a successful write.
func (l *Log) PendingCount() int {
	return len(l.pending)
}
