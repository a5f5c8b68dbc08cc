package adapters

import (
	"time"

	"referearn_backend/internal/feature/account/domain/entity"
)

// SessionModel is the row layout of the sessions table.
type SessionModel struct {
	ID        string     `gorm:"primaryKey;size:64"`
	UserID    uint       `gorm:"index:idx_sessions_user_created,priority:1;not null"`
	UserAgent string     `gorm:"size:512"`
	IPAddress string     `gorm:"size:45"`
	CreatedAt time.Time  `gorm:"index:idx_sessions_user_created,priority:2;not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	RevokedAt *time.Time `gorm:"index"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

// ToEntity converts the row to a domain session.
func (m *SessionModel) ToEntity() *entity.Session {
	s := &entity.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		UserAgent: m.UserAgent,
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt.UTC(),
		ExpiresAt: m.ExpiresAt.UTC(),
	}
	if m.RevokedAt != nil {
		revoked := m.RevokedAt.UTC()
		s.RevokedAt = &revoked
	}
	return s
}

// SessionModelFromEntity converts a domain session to its row. Times are stored in UTC.
func SessionModelFromEntity(s *entity.Session) *SessionModel {
	m := &SessionModel{
		ID:        s.ID,
		UserID:    s.UserID,
		UserAgent: truncate(s.UserAgent, 512),
		IPAddress: truncate(s.IPAddress, 45),
		CreatedAt: s.CreatedAt.UTC(),
		ExpiresAt: s.ExpiresAt.UTC(),
	}
	if s.RevokedAt != nil {
		revoked := s.RevokedAt.UTC()
		m.RevokedAt = &revoked
	}
	return m
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
