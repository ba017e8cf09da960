package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Store persists sessions
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// GormStore keeps sessions in a SQL table through gorm
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a migrated database
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Save inserts or replaces the session
func (s *GormStore) Save(ctx context.Context, sess *Session) error {
	return s.db.WithContext(ctx).Save(sess).Error
}

// Get loads a session by id
func (s *GormStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete removes a session; deleting a missing session is not an error
func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&Session{}).Error
}

// DeleteExpired purges sessions whose token expired before now
func (s *GormStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&Session{})
	return result.RowsAffected, result.Error
}
