package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"Testificate/economy"

	"github.com/bwmarrin/discordgo"
)

func (r *Router) showBalance(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError {
	amount, err := r.deps.Economy.Amount(m.GuildID, m.Author.ID)
	if err != nil {
		return &commandError{err, "❌ Couldn't look up your balance."}
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("💰 You have **%d** coins.", amount))
	return nil
}

func (r *Router) claimDaily(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError {
	amount, err := r.deps.Economy.ClaimDaily(m.GuildID, m.Author.ID)
	if errors.Is(err, economy.ErrDailyClaimed) {
		s.ChannelMessageSend(m.ChannelID, "⏳ You already claimed your daily reward. Come back later!")
		return nil
	}
	if err != nil {
		return &commandError{err, "❌ Couldn't claim your daily reward."}
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("🎁 Daily claimed! You now have **%d** coins.", amount))
	return nil
}

func (r *Router) flipCoin(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError {
	wager, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Usage: `flip <amount>`")
		return nil
	}

	won, amount, err := r.deps.Economy.Flip(m.GuildID, m.Author.ID, wager)
	switch {
	case errors.Is(err, economy.ErrInvalidWager):
		s.ChannelMessageSend(m.ChannelID, "The wager has to be a positive amount 🙃")
		return nil
	case errors.Is(err, economy.ErrInsufficientFunds):
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("You only have **%d** coins 😬", amount))
		return nil
	case err != nil:
		return &commandError{err, "❌ The coin rolled off the table, try again."}
	}

	if won {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("🪙 Heads! You won **%d** coins, balance: **%d**.", wager, amount))
	} else {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("🪙 Tails! You lost **%d** coins, balance: **%d**.", wager, amount))
	}
	return nil
}
