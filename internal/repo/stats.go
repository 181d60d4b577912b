// Aggregate helpers over the collections a channel owns.

package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-botconfig-backend/internal/domain"
)

// ChannelStats summarises the collections owned by one channel.
type ChannelStats struct {
	Commands             int64
	Aliases              int64
	Repeats              int64
	Quotes               int64
	Trusts               int64
	Socials              int64
	LastCommandUpdatedAt *time.Time
}

// CollectChannelStats returns the per-collection row counts of channel.
// LastCommandUpdatedAt is nil when the channel has no commands.
func CollectChannelStats(ctx context.Context, db *gorm.DB, channel string) (ChannelStats, error) {
	var st ChannelStats
	counts := []struct {
		model any
		dst   *int64
	}{
		{&domain.Command{}, &st.Commands},
		{&domain.Alias{}, &st.Aliases},
		{&domain.Repeat{}, &st.Repeats},
		{&domain.Quote{}, &st.Quotes},
		{&domain.Trust{}, &st.Trusts},
		{&domain.SocialService{}, &st.Socials},
	}
	for _, c := range counts {
		err := db.WithContext(ctx).Model(c.model).Where("channel = ?", channel).Count(c.dst).Error
		if err != nil {
			return ChannelStats{}, wrap(err, "count")
		}
	}
	if st.Commands == 0 {
		return st, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	err := db.WithContext(ctx).
		Model(&domain.Command{}).
		Where("channel = ?", channel).
		Select("updated_at").
		Order("updated_at DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return ChannelStats{}, wrap(err, "latest command update")
	}
	st.LastCommandUpdatedAt = &row.UpdatedAt
	return st, nil
}
