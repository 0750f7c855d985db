package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/feed"
	"github.com/kittyscape/lootbot/internal/logger"
)

const ingestedReaction = "✅"

// messageCreate routes feed-channel messages into the extractor.
func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if b.cfg.FeedChannelID == "" || m.ChannelID != b.cfg.FeedChannelID {
		return
	}
	if m.Author != nil && m.Author.ID == s.State.User.ID {
		return
	}

	ctx := b.newContext()
	log := logger.FromContext(ctx)

	cand, results, err := b.deps.Feed.HandleMessage(ctx, toEnvelope(m.Message))
	if err != nil {
		log.Error("feed ingestion failed", "message_id", m.ID, "error", err)
		return
	}
	if cand == nil {
		return
	}

	// React only when at least one identity actually got the event;
	// duplicates alone still count as handled.
	if ingestedAny(results) {
		if err := s.MessageReactionAdd(m.ChannelID, m.ID, ingestedReaction); err != nil {
			log.Warn("failed to add ingested reaction", "message_id", m.ID, "error", err)
		}
		b.audit.LogIngest(ctx, cand, results)
	}
}

func ingestedAny(results []feed.IngestResult) bool {
	for _, res := range results {
		if res.Summary != nil || res.Skipped {
			return true
		}
	}
	return false
}

// toEnvelope flattens a Discord message into the extractor's view.
func toEnvelope(m *discordgo.Message) feed.Envelope {
	env := feed.Envelope{Content: m.Content}
	for _, embed := range m.Embeds {
		e := feed.Embed{Description: embed.Description}
		if embed.Author != nil {
			e.AuthorName = embed.Author.Name
		}
		for _, field := range embed.Fields {
			e.Fields = append(e.Fields, feed.EmbedField{Name: field.Name, Value: field.Value})
		}
		env.Embeds = append(env.Embeds, e)
	}
	return env
}
