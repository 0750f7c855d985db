package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/format"
	"github.com/kittyscape/lootbot/internal/logger"
)

// StatsCommand shows a member's full loot profile.
func StatsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "stats",
		Description: "Show a member's loot profile",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "member",
				Description: "Member to look up (default: you)",
				Required:    false,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !deferResponse(s, i) {
			return
		}

		ctx := b.newContext()
		target := getInteractionUser(i)
		if opt, ok := optionMap(getOptions(i))["member"]; ok {
			target = opt.UserValue(s)
		}

		stats, err := b.deps.Tracker.Stats(ctx, target.ID)
		if err != nil {
			logger.FromContext(ctx).Error("failed to get stats", "error", err)
			respondFriendlyError(s, i, err)
			return
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "**%s** — %s\n", b.names.DisplayName(s, i.GuildID, target.ID), format.Points(stats.Balance.Points))
		if stats.CurrentRank != "" {
			fmt.Fprintf(&sb, "Rank: **%s**\n", stats.CurrentRank)
		}
		if stats.Next != nil {
			fmt.Fprintf(&sb, "Next: **%s** at %s\n", stats.Next.RoleName, format.Points(stats.Next.Points))
		}
		fmt.Fprintf(&sb, "\nDrops: %s worth %s\n", format.Number(stats.Balance.TotalDrops), format.GP(stats.TotalGPValue))
		fmt.Fprintf(&sb, "Collection log entries: %s\n", format.Number(stats.ClogCount))
		if stats.BestDrop != nil {
			fmt.Fprintf(&sb, "Best drop: **%s** (%s)\n", stats.BestDrop.ItemName, format.GP(stats.BestDrop.Value))
		}
		if stats.BestClog != nil {
			fmt.Fprintf(&sb, "Best log entry: **%s** (+%s)\n", stats.BestClog.ItemName, format.Points(stats.BestClog.Points))
		}

		sendEmbed(s, i, createEmbed("📊 Loot Profile", sb.String(), ColorInfo))
	}

	return cmd, handler
}
