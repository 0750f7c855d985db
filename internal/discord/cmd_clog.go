package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/format"
	"github.com/kittyscape/lootbot/internal/logger"
)

// ClogCommand records a collection log unlock manually.
func ClogCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "clog",
		Description: "Record a new collection log entry",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "item",
				Description:  "Collection log item name",
				Required:     true,
				Autocomplete: true,
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !deferResponse(s, i) {
			return
		}

		ctx := b.newContext()
		user := getInteractionUser(i)
		opts := optionMap(getOptions(i))

		req := ClogRequest{Item: opts["item"].StringValue()}
		if err := validateRequest(req); err != nil {
			respondFriendlyError(s, i, err)
			return
		}

		summary, err := b.deps.Tracker.RecordCollectionManual(ctx, user.ID, req.Item)
		if err != nil {
			logger.FromContext(ctx).Error("failed to record collection entry", "error", err)
			respondFriendlyError(s, i, err)
			return
		}

		b.audit.LogAction(ctx, "CLOG", user.ID, fmt.Sprintf("**%s** (+%s)",
			summary.ItemName, format.Points(summary.PointsDelta)))
		sendEmbed(s, i, createEmbed("📖 Collection Log Entry", clogSummaryText(summary), ColorCollection))
	}

	return cmd, handler
}

func clogSummaryText(summary *domain.EventSummary) string {
	text := fmt.Sprintf("**%s**\n+%s (total: %s)",
		summary.ItemName, format.Points(summary.PointsDelta), format.Points(summary.NewPoints))
	if summary.Next != nil {
		text += fmt.Sprintf("\nNext rank: **%s** at %s",
			summary.Next.RoleName, format.Points(summary.Next.Points))
	}
	return text
}
