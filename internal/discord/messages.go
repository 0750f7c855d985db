package discord

// Embed colors.
const (
	ColorDrop        = 0x2ecc71 // green
	ColorCollection  = 0x9b59b6 // purple
	ColorRemoval     = 0xe74c3c // red
	ColorInfo        = 0x3498db // blue
	ColorLeaderboard = 0xf1c40f // gold
)

// Friendly error messages shown to users in place of technical errors.
const (
	MsgItemNotFound   = "🔍 That item isn't in the price list. Check the spelling, or ask a mod to add it."
	MsgDuplicateEntry = "📖 That collection log entry is already recorded for you."
	MsgEventNotOwned  = "🚫 That event doesn't exist or isn't yours to remove."
	MsgUserNotFound   = "👤 No events recorded for that member yet."
	MsgInvalidInput   = "⚠️ That input doesn't look right. Double-check and try again."
	MsgGenericError   = "Something went wrong talking to the ledger. Try again in a moment."
)

const embedFooter = "KittyScape loot ledger"
