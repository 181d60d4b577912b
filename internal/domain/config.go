package domain

import (
	"time"

	"gorm.io/datatypes"
)

// RepeatConfig controls the repeating-message scheduler of a channel.
type RepeatConfig struct {
	Disabled       bool `json:"disabled"`
	OnlyLive       bool `json:"onlyLive"`
	DefaultMinimum int  `json:"defaultMinimum"`
}

// EventConfig is the bot's reaction to a single channel event.
type EventConfig struct {
	Message string `json:"message"`
	Enabled bool   `json:"enabled"`
}

// EventsConfig groups the per-event reactions.
type EventsConfig struct {
	Follow    EventConfig `json:"follow"`
	Subscribe EventConfig `json:"subscribe"`
	Host      EventConfig `json:"host"`
	Join      EventConfig `json:"join"`
	Leave     EventConfig `json:"leave"`
}

// SpamRule is a moderation rule. Action is one of "ignore", "purge",
// "timeout" or "ban"; Warnings is how many warnings precede the action.
type SpamRule[T any] struct {
	Action   string `json:"action"`
	Value    T      `json:"value"`
	Warnings int    `json:"warnings"`
}

// KeywordConfig lists words that are always or never moderated.
type KeywordConfig struct {
	Blacklist []string `json:"blacklist"`
	Whitelist []string `json:"whitelist"`
}

// SpamConfig holds the moderation thresholds enforced by the offence counters.
type SpamConfig struct {
	AllowURLs       SpamRule[bool] `json:"allowUrls"`
	MaxCaps         SpamRule[int]  `json:"maxCaps"`
	MaxEmoji        SpamRule[int]  `json:"maxEmoji"`
	Keywords        KeywordConfig  `json:"keywords"`
	WhitelistedURLs []string       `json:"whitelistedUrls"`
}

// Config is the moderation and event configuration of a channel. The
// repository only reads it; it is written by an external tool.
type Config struct {
	ID        string                           `json:"id"        gorm:"type:char(36);primaryKey"`
	Channel   string                           `json:"channel"   gorm:"type:varchar(64);not null;uniqueIndex:ux_config_channel"`
	Repeat    datatypes.JSONType[RepeatConfig] `json:"repeat"`
	Events    datatypes.JSONType[EventsConfig] `json:"events"`
	Spam      datatypes.JSONType[SpamConfig]   `json:"spam"`
	CreatedAt time.Time                        `json:"createdAt"`
	UpdatedAt time.Time                        `json:"updatedAt"`
}

// TableName returns the database table name for Config.
func (Config) TableName() string { return "configs" }
