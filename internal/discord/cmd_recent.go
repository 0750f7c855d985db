package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/format"
	"github.com/kittyscape/lootbot/internal/logger"
)

const recentDefaultLimit = 10

// RecentCommand lists the caller's latest events with their IDs, for
// use with /remove.
func RecentCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "recent",
		Description: "Show your most recent recorded events",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !deferResponse(s, i) {
			return
		}

		ctx := b.newContext()
		user := getInteractionUser(i)

		events, err := b.deps.Tracker.ListRecent(ctx, user.ID, recentDefaultLimit)
		if err != nil {
			logger.FromContext(ctx).Error("failed to list recent events", "error", err)
			respondFriendlyError(s, i, err)
			return
		}

		if len(events) == 0 {
			sendEmbed(s, i, createEmbed("🕘 Recent Events", "Nothing recorded yet.", ColorInfo))
			return
		}

		var sb strings.Builder
		for _, ev := range events {
			sb.WriteString(formatEventLine(ev))
			sb.WriteByte('\n')
		}
		sendEmbed(s, i, createEmbed("🕘 Recent Events", sb.String(), ColorInfo))
	}

	return cmd, handler
}

func formatEventLine(ev domain.EventRecord) string {
	switch ev.Kind {
	case domain.EventKindCollection:
		return fmt.Sprintf("`#%d` 📖 %s (+%s)", ev.ID, ev.ItemName, format.Points(ev.Points))
	default:
		return fmt.Sprintf("`#%d` 💰 %s x%s, %s (+%s)",
			ev.ID, ev.ItemName, format.Number(ev.Quantity), format.GP(ev.Value), format.Points(ev.Points))
	}
}
