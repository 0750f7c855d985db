package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/format"
	"github.com/kittyscape/lootbot/internal/logger"
)

const boardLimit = 10

var rankMedals = []string{"🥇", "🥈", "🥉"}

func boardPosition(index int) string {
	if index < len(rankMedals) {
		return rankMedals[index]
	}
	return fmt.Sprintf("`%2d.`", index+1)
}

// LeaderboardCommand shows the all-time points standings.
func LeaderboardCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "leaderboard",
		Description: "All-time points leaderboard",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !deferResponse(s, i) {
			return
		}

		ctx := b.newContext()
		entries, err := b.deps.Tracker.Leaderboard(ctx, boardLimit)
		if err != nil {
			logger.FromContext(ctx).Error("failed to get leaderboard", "error", err)
			respondFriendlyError(s, i, err)
			return
		}

		if len(entries) == 0 {
			sendEmbed(s, i, createEmbed("🏆 Leaderboard", "No events recorded yet.", ColorLeaderboard))
			return
		}

		var sb strings.Builder
		for idx, entry := range entries {
			name := b.names.DisplayName(s, i.GuildID, entry.OwnerID)
			fmt.Fprintf(&sb, "%s **%s** — %s (%s drops, %s log entries)\n",
				boardPosition(idx), name, format.Points(entry.Points),
				format.Number(entry.TotalDrops), format.Number(entry.ClogCount))
		}
		sendEmbed(s, i, createEmbed("🏆 Leaderboard", sb.String(), ColorLeaderboard))
	}

	return cmd, handler
}

// TopDropsCommand shows the 30-day top droppers.
func TopDropsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "topdrops",
		Description: "Top droppers of the last 30 days",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !deferResponse(s, i) {
			return
		}

		ctx := b.newContext()
		entries, err := b.deps.Tracker.TopDrops(ctx, boardLimit)
		if err != nil {
			logger.FromContext(ctx).Error("failed to get top drops", "error", err)
			respondFriendlyError(s, i, err)
			return
		}

		if len(entries) == 0 {
			sendEmbed(s, i, createEmbed("💰 Top Drops (30 days)", "No drops recorded this period.", ColorDrop))
			return
		}

		var sb strings.Builder
		for idx, entry := range entries {
			name := b.names.DisplayName(s, i.GuildID, entry.OwnerID)
			fmt.Fprintf(&sb, "%s **%s** — %s over %s drops (best: %s, %s)\n",
				boardPosition(idx), name, format.GP(entry.TotalValue), format.Number(entry.DropCount),
				entry.BestDropName, format.GP(entry.BestDropValue))
		}
		sendEmbed(s, i, createEmbed("💰 Top Drops (30 days)", sb.String(), ColorDrop))
	}

	return cmd, handler
}

// TopClogsCommand shows the 30-day top collection loggers.
func TopClogsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "topclogs",
		Description: "Top collection loggers of the last 30 days",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !deferResponse(s, i) {
			return
		}

		ctx := b.newContext()
		entries, err := b.deps.Tracker.TopCollections(ctx, boardLimit)
		if err != nil {
			logger.FromContext(ctx).Error("failed to get top collections", "error", err)
			respondFriendlyError(s, i, err)
			return
		}

		if len(entries) == 0 {
			sendEmbed(s, i, createEmbed("📖 Top Collection Logs (30 days)", "No entries recorded this period.", ColorCollection))
			return
		}

		var sb strings.Builder
		for idx, entry := range entries {
			name := b.names.DisplayName(s, i.GuildID, entry.OwnerID)
			fmt.Fprintf(&sb, "%s **%s** — %s over %s entries (best: %s, +%s)\n",
				boardPosition(idx), name, format.Points(entry.TotalPoints), format.Number(entry.EntryCount),
				entry.BestEntryName, format.Points(entry.BestEntryScore))
		}
		sendEmbed(s, i, createEmbed("📖 Top Collection Logs (30 days)", sb.String(), ColorCollection))
	}

	return cmd, handler
}
