package economy

import (
	"errors"
	"math/rand"
	"time"

	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var (
	ErrDailyClaimed      = errors.New("daily reward already claimed")
	ErrInvalidWager      = errors.New("wager must be a positive amount")
	ErrInsufficientFunds = errors.New("not enough coins")
)

const dailyCooldown = 24 * time.Hour

// Store persists user balances for the coin-flip economy.
type Store struct {
	db          *gorm.DB
	dailyAmount int64
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		dailyAmount: viper.GetInt64("economy.daily"),
	}
}

func (s *Store) get(guildID, userID string) (*Balance, error) {
	var balance Balance
	err := s.db.Where(Balance{GuildID: guildID, UserID: userID}).
		FirstOrCreate(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// Amount returns the user's current balance, creating an empty wallet on
// first use.
func (s *Store) Amount(guildID, userID string) (int64, error) {
	balance, err := s.get(guildID, userID)
	if err != nil {
		return 0, err
	}
	return balance.Amount, nil
}

// ClaimDaily grants the daily reward once per 24 hours and returns the new
// balance.
func (s *Store) ClaimDaily(guildID, userID string) (int64, error) {
	balance, err := s.get(guildID, userID)
	if err != nil {
		return 0, err
	}

	if time.Since(balance.LastDaily) < dailyCooldown {
		return balance.Amount, ErrDailyClaimed
	}

	balance.Amount += s.dailyAmount
	balance.LastDaily = time.Now()
	if err := s.db.Save(balance).Error; err != nil {
		return 0, err
	}
	return balance.Amount, nil
}

// Flip wagers the given amount on a fair coin: double on win, lost on
// tails. Returns whether the flip won and the resulting balance.
func (s *Store) Flip(guildID, userID string, wager int64) (bool, int64, error) {
	if wager <= 0 {
		return false, 0, ErrInvalidWager
	}

	balance, err := s.get(guildID, userID)
	if err != nil {
		return false, 0, err
	}
	if balance.Amount < wager {
		return false, balance.Amount, ErrInsufficientFunds
	}

	won := rand.Intn(2) == 0
	if won {
		balance.Amount += wager
	} else {
		balance.Amount -= wager
	}

	if err := s.db.Save(balance).Error; err != nil {
		return false, 0, err
	}
	return won, balance.Amount, nil
}
