package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tacticalapi/internal/auth"
)

const (
	AccessBasic   = 1
	AccessPremium = 2
	AccessAdmin   = 3
)

type User struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string     `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	DiscordID    *string    `gorm:"uniqueIndex" json:"discordId,omitempty"`
	IsAdmin      bool       `gorm:"not null" json:"isAdmin"`
	IsBotOwner   bool       `gorm:"not null" json:"isBotOwner"`
	AccessLevel  int        `gorm:"not null;check:access_level BETWEEN 1 AND 3" json:"accessLevel"`
	APIKey       *string    `gorm:"uniqueIndex" json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

// NewUser normalises the identity fields and hashes the password.
func NewUser(username, email, password string) (*User, error) {
	u := &User{
		Username:    strings.TrimSpace(username),
		Email:       NormalizeEmail(email),
		AccessLevel: AccessBasic,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// SetPassword is the only writer of PasswordHash.
func (u *User) SetPassword(plain string) error {
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(candidate string) bool {
	return u.PasswordHash != "" && auth.CheckPassword(u.PasswordHash, candidate) == nil
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.AccessLevel == 0 {
		u.AccessLevel = AccessBasic
	}
	return nil
}

// Identity is the claim set a session token carries for u.
func (u *User) Identity() auth.Identity {
	return auth.Identity{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsAdmin:    u.IsAdmin,
		IsBotOwner: u.IsBotOwner,
	}
}

type BotStat struct {
	ID                uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp         time.Time        `gorm:"index:idx_bot_stats_timestamp,sort:desc;not null" json:"timestamp"`
	Servers           int              `gorm:"not null" json:"servers"`
	Users             int              `gorm:"not null" json:"users"`
	Uptime            int64            `gorm:"not null" json:"uptime"`
	Version           string           `gorm:"not null" json:"version"`
	CommandsUsed      int              `gorm:"not null" json:"commands_used"`
	TopCommands       CommandUsageList `gorm:"type:jsonb" json:"top_commands"`
	MessagesProcessed int              `gorm:"not null" json:"messages_processed"`
	MemoryUsage       string           `json:"memory_usage,omitempty"`
	CPUUsage          string           `json:"cpu_usage,omitempty"`
	Ping              int              `json:"ping,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (BotStat) TableName() string { return "bot_stats" }
