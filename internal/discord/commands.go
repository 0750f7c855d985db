package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/kittyscape/lootbot/internal/domain"
	"github.com/kittyscape/lootbot/internal/metrics"
)

// CommandHandler handles a slash command interaction.
type CommandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot)

// AutocompleteHandler answers an autocomplete interaction for a command.
type AutocompleteHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot)

// CommandRegistry holds the registered commands and their handlers.
type CommandRegistry struct {
	Commands      map[string]*discordgo.ApplicationCommand
	Handlers      map[string]CommandHandler
	Autocompletes map[string]AutocompleteHandler
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands:      make(map[string]*discordgo.ApplicationCommand),
		Handlers:      make(map[string]CommandHandler),
		Autocompletes: make(map[string]AutocompleteHandler),
	}
}

// Register adds a command to the registry.
func (r *CommandRegistry) Register(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
	r.Commands[cmd.Name] = cmd
	r.Handlers[cmd.Name] = handler
}

// RegisterAutocomplete attaches an autocomplete handler to a command.
func (r *CommandRegistry) RegisterAutocomplete(name string, handler AutocompleteHandler) {
	r.Autocompletes[name] = handler
}

// Handle dispatches a command interaction.
func (r *CommandRegistry) Handle(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	name := i.ApplicationCommandData().Name
	if h, ok := r.Handlers[name]; ok {
		metrics.CommandsHandled.WithLabelValues(name).Inc()
		h(s, i, b)
	}
}

// HandleAutocomplete dispatches an autocomplete interaction.
func (r *CommandRegistry) HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
	if h, ok := r.Autocompletes[i.ApplicationCommandData().Name]; ok {
		h(s, i, b)
	}
}

// RegisterCommands syncs the registry with Discord, skipping the bulk
// overwrite when nothing changed to stay clear of rate limits.
func (b *Bot) RegisterCommands(forceUpdate bool) error {
	existing, err := b.Session.ApplicationCommands(b.AppID, "")
	if err != nil {
		return fmt.Errorf("fetching existing commands: %w", err)
	}

	desired := make([]*discordgo.ApplicationCommand, 0, len(b.Registry.Commands))
	for _, cmd := range b.Registry.Commands {
		desired = append(desired, cmd)
	}

	if !forceUpdate && commandsEqual(existing, desired) {
		slog.Info("commands unchanged, skipping registration", "count", len(existing))
		return nil
	}

	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, "", desired); err != nil {
		return fmt.Errorf("overwriting commands: %w", err)
	}
	slog.Info("commands registered", "count", len(desired))
	return nil
}

func commandsEqual(existing, desired []*discordgo.ApplicationCommand) bool {
	if len(existing) != len(desired) {
		return false
	}

	byName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		byName[cmd.Name] = cmd
	}

	for _, want := range desired {
		have, ok := byName[want.Name]
		if !ok || !commandEqual(have, want) {
			return false
		}
	}
	return true
}

func commandEqual(a, b *discordgo.ApplicationCommand) bool {
	if a.Name != b.Name || a.Description != b.Description {
		return false
	}
	if len(a.Options) != len(b.Options) {
		return false
	}
	for i := range a.Options {
		if !optionEqual(a.Options[i], b.Options[i]) {
			return false
		}
	}
	return true
}

func optionEqual(a, b *discordgo.ApplicationCommandOption) bool {
	if a.Name != b.Name || a.Description != b.Description ||
		a.Type != b.Type || a.Required != b.Required || a.Autocomplete != b.Autocomplete {
		return false
	}
	if len(a.Options) != len(b.Options) {
		return false
	}
	for i := range a.Options {
		if !optionEqual(a.Options[i], b.Options[i]) {
			return false
		}
	}
	return true
}

// deferResponse acknowledges an interaction before slow work. Returns
// false if the deferral failed, in which case the handler should bail.
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		slog.Error("failed to send deferred response", "error", err)
		return false
	}
	return true
}

// getInteractionUser extracts the invoking user, handling both guild
// and DM contexts.
func getInteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func getOptions(i *discordgo.InteractionCreate) []*discordgo.ApplicationCommandInteractionDataOption {
	return i.ApplicationCommandData().Options
}

// optionMap indexes interaction options by name.
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// respondError edits the deferred response with a plain error message.
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &message,
	}); err != nil {
		slog.Error("failed to edit interaction response", "error", err)
	}
}

// respondFriendlyError maps domain errors to readable messages before
// responding.
func respondFriendlyError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	respondError(s, i, formatFriendlyError(err.Error()))
}

func formatFriendlyError(msg string) string {
	switch {
	case strings.Contains(msg, domain.ErrMsgItemNotFound):
		return MsgItemNotFound
	case strings.Contains(msg, domain.ErrMsgDuplicateEntry):
		return MsgDuplicateEntry
	case strings.Contains(msg, domain.ErrMsgEventNotOwned):
		return MsgEventNotOwned
	case strings.Contains(msg, domain.ErrMsgUserNotFound):
		return MsgUserNotFound
	case strings.Contains(msg, domain.ErrMsgInvalidInput):
		return MsgInvalidInput
	default:
		return "❌ " + MsgGenericError
	}
}

func createEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: embedFooter},
	}
}

// sendEmbed edits the deferred response with an embed, logging failures.
func sendEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		slog.Error("failed to send response", "error", err)
	}
}

func respondAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate, choices []*discordgo.ApplicationCommandOptionChoice) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	}); err != nil {
		slog.Error("failed to respond to autocomplete", "error", err)
	}
}
