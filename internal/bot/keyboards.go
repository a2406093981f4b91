package bot

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasklist/internal/model"
)

const categoryButtonsPerRow = 2

func confirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConfirm),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelCategories),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// categoryKeyboard offers the existing categories, in creation order, plus
// the "all" choice when picking a filter.
func categoryKeyboard(categories []string, includeAll bool) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	if includeAll {
		row = append(row, tgbotapi.NewKeyboardButton(btnAll))
	}
	for _, name := range categories {
		row = append(row, tgbotapi.NewKeyboardButton(name))
		if len(row) == categoryButtonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func isConfirmInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnConfirm) || value == "confirm" || value == "yes"
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel" || value == "no"
}

func isCancelDialogInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "stop"
}

func escape(s string) string {
	return html.EscapeString(s)
}

func formatTask(position int, task model.Task, withCategory bool) string {
	var b strings.Builder
	icon := "⬜"
	text := escape(task.Text)
	if task.Completed {
		icon = "✅"
		text = "<s>" + text + "</s>"
	}
	if strings.TrimSpace(task.Text) == "" {
		text = "<i>(empty)</i>"
	}
	b.WriteString(fmt.Sprintf("%s <b>%d.</b> %s", icon, position, text))
	if withCategory {
		b.WriteString(fmt.Sprintf(" <i>(%s)</i>", escape(task.Category)))
	}
	b.WriteByte('\n')
	return b.String()
}

func toggleLabel(position int, task model.Task) string {
	icon := "✅"
	if task.Completed {
		icon = "↩️"
	}
	return fmt.Sprintf("%s %d · %s", icon, position, shortTitle(task.Text, 24))
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	if utf8.RuneCountInString(clean) <= maxLen {
		return clean
	}
	runes := []rune(clean)
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
