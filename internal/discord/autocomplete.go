package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/logger"
)

const autocompleteLimit = 25

// autocompletePriceItems suggests tradeable item names for /drop.
func autocompletePriceItems(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	respondAutocomplete(s, i, suggestionChoices(b.deps.Prices.Suggest(focusedValue(i), autocompleteLimit)))
}

// autocompleteRarityItems suggests collection log item names for /clog.
func autocompleteRarityItems(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	respondAutocomplete(s, i, suggestionChoices(b.deps.Rarity.Suggest(focusedValue(i), autocompleteLimit)))
}

// autocompleteRemovalIDs suggests the caller's recent event IDs for
// /remove so nobody has to run /recent first.
func autocompleteRemovalIDs(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	user := getInteractionUser(i)
	if user == nil {
		respondAutocomplete(s, i, nil)
		return
	}

	ctx := b.newContext()
	events, err := b.deps.Tracker.ListRecent(ctx, user.ID, autocompleteLimit)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list events for autocomplete", "error", err)
		respondAutocomplete(s, i, nil)
		return
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(events))
	for _, event := range events {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  removalChoiceName(event),
			Value: event.ID,
		})
	}
	respondAutocomplete(s, i, choices)
}

func removalChoiceName(event domain.EventRecord) string {
	if event.Kind == domain.EventKindCollection {
		return fmt.Sprintf("#%d %s (clog, +%d)", event.ID, event.ItemName, event.Points)
	}
	return fmt.Sprintf("#%d %s x%d (+%d)", event.ID, event.ItemName, event.Quantity, event.Points)
}

// focusedValue returns the text of the option currently being typed.
func focusedValue(i *discordgo.InteractionCreate) string {
	for _, opt := range getOptions(i) {
		if opt.Focused {
			return opt.StringValue()
		}
	}
	return ""
}

func suggestionChoices(names []string) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, name := range names {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: name,
		})
	}
	return choices
}
