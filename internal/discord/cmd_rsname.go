package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/logger"
)

// RSNameCommand manages the caller's linked RuneScape account names.
func RSNameCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "rsname",
		Description: "Manage your linked RuneScape account names",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "link",
				Description: "Link an account name to your profile",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "In-game account name",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "unlink",
				Description: "Unlink an account name from your profile",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "In-game account name",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List your linked account names",
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !deferResponse(s, i) {
			return
		}

		ctx := b.newContext()
		user := getInteractionUser(i)
		sub := getOptions(i)[0]

		switch sub.Name {
		case "link":
			handleLink(ctx, s, i, b, user.ID, sub)
		case "unlink":
			handleUnlink(ctx, s, i, b, user.ID, sub)
		case "list":
			handleListHandles(ctx, s, i, b, user.ID)
		}
	}

	return cmd, handler
}

func handleLink(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot, ownerID string, sub *discordgo.ApplicationCommandInteractionDataOption) {
	req := HandleRequest{Handle: sub.Options[0].StringValue()}
	if err := validateRequest(req); err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	if err := b.deps.Linking.Link(ctx, ownerID, req.Handle); err != nil {
		logger.FromContext(ctx).Error("failed to link handle", "error", err)
		respondFriendlyError(s, i, err)
		return
	}

	b.audit.LogAction(ctx, "LINK", ownerID, fmt.Sprintf("**%s**", req.Handle))
	sendEmbed(s, i, createEmbed("🔗 Account Linked",
		fmt.Sprintf("**%s** is now linked to your profile. Feed drops for this name count toward your points.", req.Handle),
		ColorInfo))
}

func handleUnlink(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot, ownerID string, sub *discordgo.ApplicationCommandInteractionDataOption) {
	req := HandleRequest{Handle: sub.Options[0].StringValue()}
	if err := validateRequest(req); err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	if err := b.deps.Linking.Unlink(ctx, ownerID, req.Handle); err != nil {
		logger.FromContext(ctx).Error("failed to unlink handle", "error", err)
		respondFriendlyError(s, i, err)
		return
	}

	b.audit.LogAction(ctx, "UNLINK", ownerID, fmt.Sprintf("**%s**", req.Handle))
	sendEmbed(s, i, createEmbed("🔗 Account Unlinked",
		fmt.Sprintf("**%s** is no longer linked to your profile.", req.Handle), ColorInfo))
}

func handleListHandles(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot, ownerID string) {
	links, err := b.deps.Linking.ListHandles(ctx, ownerID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list handles", "error", err)
		respondFriendlyError(s, i, err)
		return
	}

	if len(links) == 0 {
		sendEmbed(s, i, createEmbed("🔗 Linked Accounts",
			"No account names linked yet. Use `/rsname link` to add one.", ColorInfo))
		return
	}

	var sb strings.Builder
	for _, link := range links {
		fmt.Fprintf(&sb, "• **%s** (linked %s)\n", link.Handle, link.LinkedAt.Format("2006-01-02"))
	}
	sendEmbed(s, i, createEmbed("🔗 Linked Accounts", sb.String(), ColorInfo))
}
