package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/format"
	"github.com/kittyscape/lootbot/internal/logger"
)

// PointsCommand shows a member's balance and rank progress.
func PointsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "points",
		Description: "Show points and rank progress",
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

		balance, current, next, err := b.deps.Tracker.GetRankProgress(ctx, target.ID)
		if err != nil {
			logger.FromContext(ctx).Error("failed to get rank progress", "error", err)
			respondFriendlyError(s, i, err)
			return
		}

		name := b.names.DisplayName(s, i.GuildID, target.ID)
		text := fmt.Sprintf("**%s** has %s across %s drops.",
			name, format.Points(balance.Points), format.Number(balance.TotalDrops))
		if current != "" {
			text += fmt.Sprintf("\nCurrent rank: **%s**", current)
		}
		if next != nil {
			text += fmt.Sprintf("\nNext rank: **%s** at %s (%s to go)",
				next.RoleName, format.Points(next.Points), format.Points(next.Points-balance.Points))
		}

		sendEmbed(s, i, createEmbed("⚖️ Points", text, ColorInfo))
	}

	return cmd, handler
}
