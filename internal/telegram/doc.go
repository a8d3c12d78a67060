// Package telegram provides Telegram Bot API integration for the session bot.
//
// The package talks to the Bot API with plain HTTP requests: sending and editing
// messages with inline keyboards, answering button presses, uploading documents and
// long-polling for updates. Formatters render schedule query results as the bot's
// German replies.
//
// Authentication requires a bot token (from @BotFather); messages are addressed by chat ID.
package telegram
