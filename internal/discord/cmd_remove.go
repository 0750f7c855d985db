package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/format"
	"github.com/kittyscape/lootbot/internal/logger"
)

// RemoveCommand deletes one of the caller's own events and claws back
// its points.
func RemoveCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "remove",
		Description: "Remove one of your recorded events (see /recent for IDs)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:         "event_id",
				Description:  "ID of the event to remove",
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

		req := RemoveRequest{EventID: opts["event_id"].IntValue()}
		if err := validateRequest(req); err != nil {
			respondFriendlyError(s, i, err)
			return
		}

		summary, err := b.deps.Tracker.RemoveEvent(ctx, user.ID, req.EventID)
		if err != nil {
			logger.FromContext(ctx).Error("failed to remove event", "event_id", req.EventID, "error", err)
			respondFriendlyError(s, i, err)
			return
		}

		b.audit.LogAction(ctx, "REMOVE", user.ID, fmt.Sprintf("**%s** (event #%d, %s)",
			summary.ItemName, summary.EventID, format.Points(summary.PointsDelta)))
		text := fmt.Sprintf("Removed **%s** (event #%d)\n%s (total: %s)",
			summary.ItemName, summary.EventID,
			format.Points(summary.PointsDelta), format.Points(summary.NewPoints))
		sendEmbed(s, i, createEmbed("🗑️ Event Removed", text, ColorRemoval))
	}

	return cmd, handler
}
