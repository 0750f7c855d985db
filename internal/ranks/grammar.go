package ranks

import (
	"fmt"
	"strings"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/format"
)

// JoinRanks renders a crossed-threshold list as a rank phrase:
//
//	["Bronze"]                   -> "the Bronze rank"
//	["Bronze", "Silver"]         -> "the Bronze and Silver ranks"
//	["Bronze", "Silver", "Gold"] -> "the Bronze, Silver, and Gold ranks"
func JoinRanks(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("the %s rank", names[0])
	case 2:
		return fmt.Sprintf("the %s and %s ranks", names[0], names[1])
	default:
		rest := names[:len(names)-1]
		last := names[len(names)-1]
		return fmt.Sprintf("the %s, and %s ranks", strings.Join(rest, ", "), last)
	}
}

// AnnounceGain builds the mod-channel message for crossed thresholds on a
// points gain.
func AnnounceGain(displayName string, newPoints int64, crossed []domain.RankThreshold) string {
	return fmt.Sprintf("🎉 **Rank Up!**\n%s has reached %s and earned %s!",
		displayName, format.Points(newPoints), JoinRanks(roleNames(crossed)))
}

// AnnounceLoss builds the mod-channel message for thresholds lost on a
// points deduction.
func AnnounceLoss(displayName string, newPoints int64, crossed []domain.RankThreshold) string {
	return fmt.Sprintf("⬇️ **Rank Down.**\n%s is now at %s and has lost %s.",
		displayName, format.Points(newPoints), JoinRanks(roleNames(crossed)))
}

func roleNames(thresholds []domain.RankThreshold) []string {
	names := make([]string, 0, len(thresholds))
	for _, t := range thresholds {
		names = append(names, t.RoleName)
	}
	return names
}
