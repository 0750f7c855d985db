// Package discord hosts the bot: slash commands, feed ingestion and
// channel announcements.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/feed"
	"github.com/kittyscape/lootbot/internal/linking"
	"github.com/kittyscape/lootbot/internal/logger"
	"github.com/kittyscape/lootbot/internal/oracle"
	"github.com/kittyscape/lootbot/internal/tracker"
)

// Config holds the bot wiring that comes from the environment.
type Config struct {
	Token         string
	AppID         string
	ModChannelID  string
	LogChannelID  string
	FeedChannelID string
}

// Deps are the services the command handlers call into.
type Deps struct {
	Tracker tracker.Service
	Linking linking.Service
	Feed    feed.Service
	Prices  oracle.PriceOracle
	Rarity  oracle.RarityOracle
}

// Bot is the Discord gateway listener.
type Bot struct {
	Session  *discordgo.Session
	AppID    string
	Registry *CommandRegistry

	deps  Deps
	cfg   Config
	names *NameResolver
	audit *AuditLogger
}

func New(cfg Config, deps Deps) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	b := &Bot{
		Session:  s,
		AppID:    cfg.AppID,
		Registry: NewCommandRegistry(),
		deps:     deps,
		cfg:      cfg,
		names:    NewNameResolver(),
	}
	b.audit = NewAuditLogger(s, cfg.LogChannelID)
	b.registerAll()
	return b, nil
}

// registerAll wires every slash command into the registry.
func (b *Bot) registerAll() {
	for _, register := range []func() (*discordgo.ApplicationCommand, CommandHandler){
		DropCommand,
		ClogCommand,
		RemoveCommand,
		RecentCommand,
		PointsCommand,
		StatsCommand,
		LeaderboardCommand,
		TopDropsCommand,
		TopClogsCommand,
		RSNameCommand,
	} {
		b.Registry.Register(register())
	}

	b.Registry.RegisterAutocomplete("drop", autocompletePriceItems)
	b.Registry.RegisterAutocomplete("clog", autocompleteRarityItems)
	b.Registry.RegisterAutocomplete("remove", autocompleteRemovalIDs)
}

// Start opens the gateway connection and begins handling events.
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)
	b.Session.AddHandler(b.messageCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("opening discord connection: %w", err)
	}
	return nil
}

// Names exposes the display name cache so other components, such as
// the rank notifier, can share it.
func (b *Bot) Names() *NameResolver {
	return b.names
}

func (b *Bot) Stop() {
	if err := b.Session.Close(); err != nil {
		slog.Error("failed to close discord session", "error", err)
	}
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("discord bot ready", "user", s.State.User.Username)
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.Registry.Handle(s, i, b)
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.Registry.HandleAutocomplete(s, i, b)
	}
}

// newContext builds the per-interaction context carrying an ingest ID
// for log correlation.
func (b *Bot) newContext() context.Context {
	return logger.WithIngestID(context.Background(), logger.GenerateIngestID())
}
