package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Testificate/exaroton"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
)

// logSettleDelay gives the Minecraft server time to write the command's
// output before the console log is fetched.
const logSettleDelay = 5 * time.Second

// serverTime queries the in-game day on the hosted Minecraft server and
// reports it back.
func (r *Router) serverTime(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError {
	if !r.deps.Exaroton.Configured() {
		s.ChannelMessageSend(m.ChannelID, "❌ Bot configuration error: Missing server credentials.")
		return nil
	}

	server, err := r.deps.Exaroton.GetServer(ctx)
	if err != nil {
		return serverError(s, m, err)
	}

	if server.Status != exaroton.StatusOnline {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
			"⚠️ Server is currently **%s**. The server must be online to check the time.",
			exaroton.StatusName(server.Status),
		))
		return nil
	}

	if err := r.deps.Exaroton.ExecuteCommand(ctx, "time query day"); err != nil {
		return serverError(s, m, err)
	}
	log.Info("Time command sent, waiting for console output")

	time.Sleep(logSettleDelay)

	logs, err := r.deps.Exaroton.GetLogs(ctx)
	if err != nil {
		return serverError(s, m, err)
	}
	if logs == "" {
		s.ChannelMessageSend(m.ChannelID, "⚠️ No server logs available. The server might not be generating logs yet.")
		return nil
	}

	day, ok := exaroton.ParseDay(logs)
	if !ok {
		s.ChannelMessageSend(m.ChannelID, "⚠️ Couldn't find the time in the server logs. Try again in a moment.")
		return nil
	}

	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("*TESTIFICATE INFO:* Dzień na APG: **%s**", day))
	return nil
}

// serverStatus reports the hosted server's name and readable status.
func (r *Router) serverStatus(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError {
	if !r.deps.Exaroton.Configured() {
		s.ChannelMessageSend(m.ChannelID, "❌ Bot configuration error: Missing server credentials.")
		return nil
	}

	server, err := r.deps.Exaroton.GetServer(ctx)
	if err != nil {
		return serverError(s, m, err)
	}

	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
		"🔗 **%s** is currently **%s**.",
		server.Name, exaroton.StatusName(server.Status),
	))
	return nil
}

func serverError(s *discordgo.Session, m *discordgo.MessageCreate, err error) *commandError {
	switch {
	case errors.Is(err, exaroton.ErrUnauthorized):
		s.ChannelMessageSend(m.ChannelID, "❌ Authentication failed. Please check the API token.")
	case errors.Is(err, exaroton.ErrForbidden):
		s.ChannelMessageSend(m.ChannelID, "❌ Access denied. Please check the API token permissions.")
	case errors.Is(err, exaroton.ErrNotFound):
		s.ChannelMessageSend(m.ChannelID, "❌ Server not found. Please check the server ID configuration.")
	default:
		return &commandError{err, "❌ Failed to retrieve server information. Please try again later."}
	}
	log.WithError(err).Error("Server API request failed")
	return nil
}
