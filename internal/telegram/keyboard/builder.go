package keyboard

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Builder creates reply keyboards
type Builder struct {
	maxButtons int
}

// NewBuilder creates a keyboard builder that shows at most maxButtons suggestions
func NewBuilder(maxButtons int) *Builder {
	if maxButtons <= 0 {
		maxButtons = 3
	}
	return &Builder{maxButtons: maxButtons}
}

// SuggestionsKeyboard puts each suggested question on its own button.
// Tapping a button sends its text back as the next question.
// Returns nil when there is nothing to suggest.
func (b *Builder) SuggestionsKeyboard(suggestions []string) any {
	if len(suggestions) == 0 {
		return nil
	}

	count := min(len(suggestions), b.maxButtons)
	rows := make([][]tgbotapi.KeyboardButton, 0, count)
	for _, s := range suggestions[:count] {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(s)))
	}

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.OneTimeKeyboard = true
	kb.ResizeKeyboard = true
	return kb
}

// RemoveKeyboard hides a previously shown suggestions keyboard
func (b *Builder) RemoveKeyboard() tgbotapi.ReplyKeyboardRemove {
	return tgbotapi.NewRemoveKeyboard(true)
}
