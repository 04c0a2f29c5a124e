package keepalive

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Server exposes the keep-alive endpoints that hosting platforms poll to
// keep the process awake.
type Server struct {
	session *discordgo.Session
	started time.Time
}

// Start serves / and /health on the configured port in the background.
func Start(session *discordgo.Session) *Server {
	s := &Server{session: session, started: time.Now()}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)

	addr := fmt.Sprintf(":%d", viper.GetInt("http.port"))
	go func() {
		log.WithFields(log.Fields{"addr": addr}).Info("Keep-alive server listening")
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Error("Keep-alive server stopped")
		}
	}()
	return s
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	botStatus := "Not logged in"
	if user := s.sessionUser(); user != nil {
		botStatus = "Logged in as " + user.Username
	}
	writeJSON(w, map[string]any{
		"status":    "Bot is running!",
		"uptime":    time.Since(s.started).Seconds(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"botStatus": botStatus,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	discordState := "disconnected"
	if s.sessionUser() != nil {
		discordState = "connected"
	}
	writeJSON(w, map[string]any{
		"status":  "healthy",
		"discord": discordState,
		"uptime":  time.Since(s.started).Seconds(),
	})
}

func (s *Server) sessionUser() *discordgo.User {
	if s.session == nil || s.session.State == nil {
		return nil
	}
	return s.session.State.User
}

func writeJSON(w http.ResponseWriter, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
