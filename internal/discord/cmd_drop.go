package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/format"
	"github.com/kittyscape/lootbot/internal/logger"
)

// DropCommand records a drop manually, priced from the GE oracle.
func DropCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "drop",
		Description: "Record a drop you received",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "item",
				Description:  "Item name",
				Required:     true,
				Autocomplete: true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "quantity",
				Description: "Quantity (default: 1)",
				Required:    false,
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

		req := DropRequest{Item: opts["item"].StringValue(), Quantity: 1}
		if opt, ok := opts["quantity"]; ok {
			req.Quantity = opt.IntValue()
		}
		if err := validateRequest(req); err != nil {
			respondFriendlyError(s, i, err)
			return
		}

		summary, err := b.deps.Tracker.RecordDrop(ctx, user.ID, req.Item, req.Quantity)
		if err != nil {
			logger.FromContext(ctx).Error("failed to record drop", "error", err)
			respondFriendlyError(s, i, err)
			return
		}

		b.audit.LogAction(ctx, "DROP", user.ID, fmt.Sprintf("**%s** x%d (+%s)",
			summary.ItemName, summary.Quantity, format.Points(summary.PointsDelta)))
		sendEmbed(s, i, createEmbed("💰 Drop Recorded", dropSummaryText(summary), ColorDrop))
	}

	return cmd, handler
}

func dropSummaryText(summary *domain.EventSummary) string {
	text := fmt.Sprintf("**%s** x%s worth %s\n+%s (total: %s)",
		summary.ItemName, format.Number(summary.Quantity), format.GP(summary.Value),
		format.Points(summary.PointsDelta), format.Points(summary.NewPoints))
	if summary.Next != nil {
		text += fmt.Sprintf("\nNext rank: **%s** at %s",
			summary.Next.RoleName, format.Points(summary.Next.Points))
	}
	return text
}
