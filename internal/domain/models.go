// Package domain defines the persistence models for channels and everything a
// channel owns: commands, aliases, repeats, quotes, trusts, social links, service
// authorizations, offence counters and moderation config. These types are
// mapped with GORM, one table per collection, and are shared by the repo and
// services layers.
package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Component is one piece of a command or quote response.
// Type is one of "text", "emoji", "tag", "url" or "variable".
type Component struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Channel is a tenant. Every other entity is partitioned by the channel token.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Token: public channel name, unique across the table.
//   - PasswordHash: encoded argon2id hash (see secure.Hasher).
//   - Enabled: whether the bot is active for the channel.
//   - CreatedAt / UpdatedAt: set on signup.
//   - DeletedAt: soft deletion marker, unused by the repository today.
type Channel struct {
	ID           string         `json:"id"        gorm:"type:char(36);primaryKey"`
	Token        string         `json:"token"     gorm:"type:varchar(64);not null;uniqueIndex:ux_channel_token"`
	PasswordHash string         `json:"-"         gorm:"type:text;not null"`
	Enabled      bool           `json:"enabled"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

// TableName returns the database table name for Channel.
func (Channel) TableName() string { return "channels" }

// CommandMeta holds the runtime state of a command. Count is only ever
// changed through a delta (see Delta).
type CommandMeta struct {
	AddedBy  string `json:"addedBy"  gorm:"type:varchar(64);not null;default:''"`
	Cooldown int32  `json:"cooldown" gorm:"not null;default:0"`
	Count    int32  `json:"count"    gorm:"not null;default:0"`
	Enabled  bool   `json:"enabled"`
	Role     string `json:"role"     gorm:"type:varchar(32);not null;default:''"`
}

// Command is a named chat command owned by a channel. (Channel, Name) is
// unique. Removing a command removes the aliases that point at it.
type Command struct {
	ID        string                         `json:"id"        gorm:"type:char(36);primaryKey"`
	Channel   string                         `json:"channel"   gorm:"type:varchar(64);not null;uniqueIndex:ux_command_channel_name,priority:1"`
	Name      string                         `json:"name"      gorm:"type:varchar(64);not null;uniqueIndex:ux_command_channel_name,priority:2"`
	Response  datatypes.JSONSlice[Component] `json:"response"`
	Services  datatypes.JSONSlice[string]    `json:"services"`
	Meta      CommandMeta                    `json:"meta"      gorm:"embedded;embeddedPrefix:meta_"`
	CreatedAt time.Time                      `json:"createdAt"`
	UpdatedAt time.Time                      `json:"updatedAt"`
}

// TableName returns the database table name for Command.
func (Command) TableName() string { return "commands" }

// Alias is an alternate name for a command. The target is a weak reference by
// name; it is not checked on insert and may dangle.
type Alias struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Channel   string    `json:"channel"   gorm:"type:varchar(64);not null;uniqueIndex:ux_alias_channel_name,priority:1;index:idx_alias_target,priority:1"`
	AliasName string    `json:"alias"     gorm:"type:varchar(64);not null;uniqueIndex:ux_alias_channel_name,priority:2"`
	Command   string    `json:"command"   gorm:"type:varchar(64);not null;index:idx_alias_target,priority:2"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the database table name for Alias.
func (Alias) TableName() string { return "aliases" }

// Repeat posts a command on a fixed schedule. Name is unique per channel and
// Command must name an existing command when the repeat is created. Interval
// is in seconds.
type Repeat struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Channel   string    `json:"channel"   gorm:"type:varchar(64);not null;uniqueIndex:ux_repeat_channel_name,priority:1;index:idx_repeat_command,priority:1"`
	Name      string    `json:"name"      gorm:"type:varchar(64);not null;uniqueIndex:ux_repeat_channel_name,priority:2"`
	Command   string    `json:"command"   gorm:"type:varchar(64);not null;index:idx_repeat_command,priority:2"`
	Arguments string    `json:"arguments" gorm:"type:text;not null;default:''"`
	Interval  int32     `json:"interval"  gorm:"not null"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the database table name for Repeat.
func (Repeat) TableName() string { return "repeats" }

// Quote is an entry in a channel's quote archive. QuoteID is sequential per
// channel starting at 1.
type Quote struct {
	ID        string                         `json:"id"        gorm:"type:char(36);primaryKey"`
	Channel   string                         `json:"channel"   gorm:"type:varchar(64);not null;uniqueIndex:ux_quote_channel_id,priority:1"`
	QuoteID   int64                          `json:"quoteId"   gorm:"not null;uniqueIndex:ux_quote_channel_id,priority:2"`
	Response  datatypes.JSONSlice[Component] `json:"response"`
	CreatedAt time.Time                      `json:"createdAt"`
	UpdatedAt time.Time                      `json:"updatedAt"`
}

// TableName returns the database table name for Quote.
func (Quote) TableName() string { return "quotes" }

// Trust marks a user as privileged within a channel.
type Trust struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Channel     string    `json:"channel"     gorm:"type:varchar(64);not null;uniqueIndex:ux_trust_channel_user,priority:1"`
	TrustedUser string    `json:"trustedUser" gorm:"type:varchar(64);not null;uniqueIndex:ux_trust_channel_user,priority:2"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName returns the database table name for Trust.
func (Trust) TableName() string { return "trusts" }

// SocialService is an external link (twitter, youtube, ...) shown by a channel.
type SocialService struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Channel   string    `json:"channel"   gorm:"type:varchar(64);not null;uniqueIndex:ux_social_channel_service,priority:1"`
	Service   string    `json:"service"   gorm:"type:varchar(32);not null;uniqueIndex:ux_social_channel_service,priority:2"`
	URL       string    `json:"url"       gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name for SocialService.
func (SocialService) TableName() string { return "socials" }

// Authorization is the OAuth-like token set a channel holds for one service.
// Refresh and Expiration are stored as "" when not supplied.
type Authorization struct {
	ID         string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Channel    string    `json:"channel"    gorm:"type:varchar(64);not null;uniqueIndex:ux_authorization_channel_service,priority:1"`
	Service    string    `json:"service"    gorm:"type:varchar(32);not null;uniqueIndex:ux_authorization_channel_service,priority:2"`
	Access     string    `json:"access"     gorm:"type:text;not null"`
	Refresh    string    `json:"refresh"    gorm:"type:text;not null;default:''"`
	Expiration string    `json:"expiration" gorm:"type:varchar(64);not null;default:''"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName returns the database table name for Authorization.
func (Authorization) TableName() string { return "authorization" }

// Offence attribute names accepted by UserOffences.Attribute.
const (
	OffenceCaps  = "caps"
	OffenceEmoji = "emoji"
	OffenceURLs  = "urls"
)

// UserOffences counts moderation offences of one user on one service within a
// channel. Records are created lazily on the first counter update.
type UserOffences struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Channel   string    `json:"channel"   gorm:"type:varchar(64);not null;uniqueIndex:ux_offences_channel_service_user,priority:1"`
	Service   string    `json:"service"   gorm:"type:varchar(32);not null;uniqueIndex:ux_offences_channel_service_user,priority:2"`
	User      string    `json:"user"      gorm:"column:user_name;type:varchar(64);not null;uniqueIndex:ux_offences_channel_service_user,priority:3"`
	Caps      int32     `json:"caps"      gorm:"not null;default:0"`
	Emoji     int32     `json:"emoji"     gorm:"not null;default:0"`
	URLs      int32     `json:"urls"      gorm:"column:urls;not null;default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name for UserOffences.
func (UserOffences) TableName() string { return "offences" }

// Attribute returns the counter called name. ok is false for unknown names.
func (u UserOffences) Attribute(name string) (v int32, ok bool) {
	switch name {
	case OffenceCaps:
		return u.Caps, true
	case OffenceEmoji:
		return u.Emoji, true
	case OffenceURLs:
		return u.URLs, true
	}
	return 0, false
}

// OffenceColumn maps an attribute name to its column. ok is false for unknown
// names.
func OffenceColumn(name string) (column string, ok bool) {
	switch name {
	case OffenceCaps:
		return "caps", true
	case OffenceEmoji:
		return "emoji", true
	case OffenceURLs:
		return "urls", true
	}
	return "", false
}
