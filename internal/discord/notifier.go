package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/ranks"
)

// RankNotifier implements tracker.Notifier by announcing rank changes
// in the mod channel. It starts unbound so the ledger can be built
// before the gateway session exists; Bind must run before the bot
// handles its first event.
type RankNotifier struct {
	channelID string
	session   *discordgo.Session
	names     *NameResolver
}

func NewRankNotifier(channelID string) *RankNotifier {
	return &RankNotifier{channelID: channelID}
}

// Bind attaches the live session and display name cache.
func (n *RankNotifier) Bind(session *discordgo.Session, names *NameResolver) {
	n.session = session
	n.names = names
}

func (n *RankNotifier) NotifyRankChange(ctx context.Context, ownerID string, summary domain.EventSummary) error {
	if n.session == nil {
		return fmt.Errorf("rank notifier not bound to a session")
	}

	name := n.names.DisplayName(n.session, "", ownerID)

	var msg string
	switch {
	case summary.RankedUp():
		msg = ranks.AnnounceGain(name, summary.NewPoints, summary.Crossed)
	case summary.RankedDown():
		msg = ranks.AnnounceLoss(name, summary.NewPoints, summary.Crossed)
	default:
		return nil
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, msg); err != nil {
		return fmt.Errorf("sending rank announcement: %w", err)
	}
	return nil
}
