package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	nameCacheSize = 512
	nameCacheTTL  = 10 * time.Minute
)

// NameResolver caches member display names so leaderboard renders don't
// hammer the Discord API.
type NameResolver struct {
	cache *lru.LRU[string, string]
}

func NewNameResolver() *NameResolver {
	return &NameResolver{
		cache: lru.NewLRU[string, string](nameCacheSize, nil, nameCacheTTL),
	}
}

// DisplayName resolves a user ID to the best display name available:
// guild nick, then global name, then username. Unresolvable IDs fall
// back to a mention so the message still reads.
func (r *NameResolver) DisplayName(s *discordgo.Session, guildID, userID string) string {
	if name, ok := r.cache.Get(userID); ok {
		return name
	}

	name := r.lookup(s, guildID, userID)
	if name == "" {
		return "<@" + userID + ">"
	}

	r.cache.Add(userID, name)
	return name
}

func (r *NameResolver) lookup(s *discordgo.Session, guildID, userID string) string {
	if guildID != "" {
		if member, err := s.GuildMember(guildID, userID); err == nil {
			if member.Nick != "" {
				return member.Nick
			}
			if member.User != nil {
				return displayOrUsername(member.User)
			}
		}
	}

	if user, err := s.User(userID); err == nil {
		return displayOrUsername(user)
	}
	return ""
}

func displayOrUsername(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
