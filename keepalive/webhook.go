package keepalive

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Strum355/log"
	"github.com/spf13/viper"
)

const pingInterval = 5 * time.Minute

// StartWebhookPinger posts a keep-alive message to the configured webhook
// every five minutes. Does nothing when no webhook URL is set.
func StartWebhookPinger() {
	url := viper.GetString("discord.webhook")
	if url == "" {
		log.Info("No webhook URL configured, skipping keep-alive pings")
		return
	}

	go func() {
		ping(url, "Bot started at "+time.Now().UTC().Format(time.RFC3339))
		for range time.Tick(pingInterval) {
			ping(url, "Keep-alive ping - "+time.Now().UTC().Format(time.RFC3339))
		}
	}()
}

func ping(url, message string) {
	payload, _ := json.Marshal(map[string]string{
		"content":  message,
		"username": "Testificate Keep-Alive",
	})

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.WithError(err).Error("Webhook ping failed")
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.WithFields(log.Fields{"status": resp.StatusCode}).Error("Webhook ping rejected")
		return
	}
	log.Info("Webhook ping successful")
}
