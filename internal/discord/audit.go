package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/feed"
	"github.com/kittyscape/lootbot/internal/format"
	"github.com/kittyscape/lootbot/internal/logger"
)

// AuditLogger writes a trail of automatic feed ingestions to the bot
// log channel so mods can spot-check what the extractor recorded.
type AuditLogger struct {
	session   *discordgo.Session
	channelID string
}

func NewAuditLogger(session *discordgo.Session, channelID string) *AuditLogger {
	return &AuditLogger{session: session, channelID: channelID}
}

// LogIngest posts one audit line per recorded identity. Best effort.
func (a *AuditLogger) LogIngest(ctx context.Context, cand *feed.Candidate, results []feed.IngestResult) {
	if a.channelID == "" {
		return
	}

	for _, res := range results {
		if res.Skipped || res.Summary == nil {
			continue
		}
		if _, err := a.session.ChannelMessageSend(a.channelID, auditLine(cand, res)); err != nil {
			logger.FromContext(ctx).Warn("failed to send audit message", "error", err)
		}
	}
}

// LogAction posts one line for a manual mutation. Best effort.
func (a *AuditLogger) LogAction(ctx context.Context, tag, userID, detail string) {
	if a.channelID == "" {
		return
	}
	line := fmt.Sprintf("`%s` <@%s>: %s", tag, userID, detail)
	if _, err := a.session.ChannelMessageSend(a.channelID, line); err != nil {
		logger.FromContext(ctx).Warn("failed to send audit message", "error", err)
	}
}

func auditLine(cand *feed.Candidate, res feed.IngestResult) string {
	tag := "AUTO-DROP"
	if cand.Kind == domain.EventKindCollection {
		tag = "AUTO-CLOG"
	}
	return fmt.Sprintf("`%s` %s → <@%s>: **%s** (+%s, total %s)",
		tag, cand.Handle, res.OwnerID, cand.ItemName,
		format.Points(res.Summary.PointsDelta), format.Points(res.Summary.NewPoints))
}
