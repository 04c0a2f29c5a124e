package economy

import "time"

// Balance is one user's wallet in one guild.
type Balance struct {
	ID        uint   `gorm:"primaryKey"`
	GuildID   string `gorm:"uniqueIndex:idx_guild_user;size:32"`
	UserID    string `gorm:"uniqueIndex:idx_guild_user;size:32"`
	Amount    int64
	LastDaily time.Time
}
