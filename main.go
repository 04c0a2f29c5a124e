package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Testificate/commands"
	"Testificate/config"
	"Testificate/db_client"
	"Testificate/economy"
	"Testificate/exaroton"
	"Testificate/handlers"
	"Testificate/keepalive"
	"Testificate/queue"
	"Testificate/redis_client"
	"Testificate/yt"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

var production *bool

func main() {
	// Sets Flag to Debug Mode
	production = flag.Bool("p", false, "enables production with json logging")
	flag.Parse()
	if *production {
		log.InitJSONLogger(&log.Config{Output: os.Stdout})
	} else {
		log.InitSimpleLogger(&log.Config{Output: os.Stdout})
	}

	// Sets up Configurations for Viper
	config.InitConfig()
	redis_client.Init()

	// Creates Discord Bot Session
	s, err := discordgo.New("Bot " + viper.GetString("discord.token"))
	if err != nil {
		log.WithError(err).Error("Failed to create Discord session")
		return
	}

	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info("Bot has registered handlers")
	})

	db_client.Init(&economy.Balance{})

	registry := queue.NewRegistry()
	router := commands.NewRouter(&commands.Deps{
		Registry: registry,
		Resolver: yt.NewResolver(redis_client.RDB),
		Acquirer: yt.NewAcquirer(),
		Exaroton: exaroton.NewClient(),
		Economy:  economy.NewStore(db_client.DB),
	})

	// Configuring Intents and Adding Handlers
	handlers.HandlerConfig(s, router, registry)

	// Connecting to Discord Server Gateway
	s.Open()
	log.Info("Bot is initialising")

	checkServerConnection()

	keepalive.Start(s)
	keepalive.StartWebhookPinger()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc
	gracefulShutdown(s, registry)
}

// checkServerConnection verifies the hosted Minecraft server is reachable
// on startup.
func checkServerConnection() {
	client := exaroton.NewClient()
	if !client.Configured() {
		log.Info("No Minecraft server credentials configured")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	server, err := client.GetServer(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to connect to Minecraft server on startup")
		return
	}
	log.WithFields(log.Fields{
		"server": server.Name,
		"status": exaroton.StatusName(server.Status),
	}).Info("Connected to Minecraft server")
}

// gracefulShutdown handles cleaning up after the bot is shutdown
func gracefulShutdown(s *discordgo.Session, registry *queue.Registry) {
	log.Info("Starting graceful shutdown...")

	registry.StopAll()

	for _, vc := range s.VoiceConnections {
		if vc != nil {
			vc.Disconnect()
		}
	}

	time.Sleep(2 * time.Second)

	s.Close()

	log.Info("Cleanly exiting")
}
