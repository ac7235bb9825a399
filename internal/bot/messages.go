// internal/bot/messages.go
package bot

// User-facing message templates. All replies use Telegram Markdown; senders
// fall back to plain text when Markdown parsing is rejected.
const (
	welcomeMessage = `👋 Welcome to *ChainX Bot*!

Ask me anything about our supply chain data. I can help you with:
• Sellers
• Warehouses
• Products
• Logistics
• Inspectors
• Factories

Try something like:
• "Show me all products under 50"
• "Which sellers mention electronics?"
• "List warehouses with size over 1000"`

	resolveFailedReply = "⚠️ Sorry, I'm having trouble reaching the AI service right now. Please try again in a moment."

	fetchFailedReplyFmt = "⚠️ Sorry, I couldn't fetch data for *%s* right now. Please try again later."

	unexpectedReply = "⚠️ Sorry, I encountered a problem processing your request. Please try again later."

	shortenedNoticeFmt = "ℹ️ The list for *%s* was too long and had to be shortened."
)
