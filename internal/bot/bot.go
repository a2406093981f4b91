package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasklist/internal/config"
	"tasklist/internal/model"
	"tasklist/internal/repository"
	"tasklist/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageText
	stageCategory
	stageEditText
	stageFilter
)

const (
	cbTogglePrefix = "toggle:"
	cbEditPrefix   = "edit:"
	cbDeletePrefix = "delete:"
)

const (
	btnConfirm          = "✅ Confirm"
	btnCancel           = "↩️ Cancel"
	btnCancelDialog     = "⏪ Stop input"
	btnAll              = "📚 All"
	menuLabelNewTask    = "➕ New task"
	menuLabelTasks      = "📋 Tasks"
	menuLabelCategories = "📂 Categories"
	menuLabelHelp       = "ℹ️ Help"
)

type conversationState struct {
	stage  conversationStage
	text   string
	taskID int64
}

// confirmationRequest is a pending category deletion.
type confirmationRequest struct {
	category string
}

// sender is the part of the Telegram API the bot talks to.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot is the chat front end over a single TaskStore.
type Bot struct {
	api     *tgbotapi.BotAPI
	client  sender
	store   *service.TaskStore
	summary *service.SummaryService
	ownerID int64

	mu            sync.Mutex
	reportChat    int64
	conversations map[int64]*conversationState
	confirmations map[int64]confirmationRequest
	filters       map[int64]string
}

func New(cfg *config.Config, store *service.TaskStore, summary *service.SummaryService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	b := newBot(api, store, summary, cfg.OwnerID)
	b.api = api
	return b, nil
}

func newBot(client sender, store *service.TaskStore, summary *service.SummaryService, ownerID int64) *Bot {
	return &Bot{
		client:        client,
		store:         store,
		summary:       summary,
		ownerID:       ownerID,
		reportChat:    ownerID,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]confirmationRequest),
		filters:       make(map[int64]string),
	}
}

// Start begins polling updates until ctx is cancelled. Updates are handled
// one at a time, so store operations never interleave.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.handleUpdate(ctx, update)
	}

	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			log.Printf("handle callback: %v", err)
		}
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}
}

// allowed reports whether the user may use the bot. Without an owner
// configured the first private chat becomes the report target.
func (b *Bot) allowed(userID, chatID int64) bool {
	if b.ownerID != 0 {
		return userID == b.ownerID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.reportChat == 0 {
		b.reportChat = chatID
	}
	return true
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	if !b.allowed(msg.From.ID, msg.Chat.ID) {
		log.Printf("[warn] ignoring message from user=%d", msg.From.ID)
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if pending, ok := b.getConfirmation(msg.From.ID); ok {
		return b.handleConfirmationResponse(ctx, msg, pending)
	}

	if b.hasConversation(msg.From.ID) {
		log.Printf("[info] conversation step %d from %d", b.getConversation(msg.From.ID).stage, msg.From.ID)
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Send /newtask to add a task or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	b.clearConversation(msg.From.ID)
	b.clearConfirmation(msg.From.ID)

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(msg)
	case "newtask":
		return b.startNewTaskConversation(msg)
	case "tasks":
		return b.sendTaskList(msg.Chat.ID, msg.From.ID)
	case "done":
		return b.handleDone(ctx, msg)
	case "edit":
		return b.handleEdit(ctx, msg)
	case "delete":
		return b.handleDelete(ctx, msg)
	case "filter":
		return b.handleFilter(msg)
	case "categories":
		return b.handleCategories(msg)
	case "addcategory":
		return b.handleAddCategory(ctx, msg)
	case "renamecategory":
		return b.handleRenameCategory(ctx, msg)
	case "deletecategory":
		return b.handleDeleteCategory(msg)
	case "report":
		return b.sendText(msg.Chat.ID, b.summary.Summary(time.Now()))
	case "cancel":
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. Take a look at /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I keep your to-do list, grouped by category.</b>\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, "ℹ️ <b>Commands</b>\n"+helpText)
}

const helpText = "• /newtask — add a task step by step\n" +
	"• /tasks — show tasks for the current filter\n" +
	"• /done &lt;n&gt; — toggle task n of the list\n" +
	"• /edit &lt;n&gt; &lt;text&gt; — change the text of task n\n" +
	"• /delete &lt;n&gt; — delete task n\n" +
	"• /filter [category|all] — choose which tasks to show\n" +
	"• /categories — list categories\n" +
	"• /addcategory &lt;name&gt; — add a category\n" +
	"• /renamecategory &lt;old&gt; | &lt;new&gt; — rename a category\n" +
	"• /deletecategory &lt;name&gt; — delete a category and its tasks\n" +
	"• /report — summary of all tasks\n" +
	"• /cancel — stop the current input"

func (b *Bot) startNewTaskConversation(msg *tgbotapi.Message) error {
	log.Printf("[info] start new task conversation user=%d", msg.From.ID)
	b.setConversation(msg.From.ID, &conversationState{stage: stageText})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🆕 New task.\n<b>Step 1:</b> what needs doing?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	switch state.stage {
	case stageText:
		if strings.TrimSpace(msg.Text) == "" {
			return b.sendWithReplyMarkup(msg.Chat.ID, "The task text cannot be empty. Try again.", cancelKeyboard())
		}
		state.text = msg.Text
		state.stage = stageCategory
		return b.sendWithReplyMarkup(msg.Chat.ID, "🏷 <b>Step 2:</b> pick a category or send a new name.", categoryKeyboard(b.store.Categories(), false))
	case stageCategory:
		err := b.finishTaskCreation(ctx, msg.Chat.ID, msg.From.ID, state.text, msg.Text)
		b.clearConversation(msg.From.ID)
		return err
	case stageEditText:
		b.clearConversation(msg.From.ID)
		return b.editTaskAndRefresh(ctx, msg.Chat.ID, msg.From.ID, state.taskID, msg.Text)
	case stageFilter:
		b.clearConversation(msg.From.ID)
		return b.applyFilter(msg.Chat.ID, msg.From.ID, msg.Text)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Input reset. Start again with /newtask.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, chatID, userID int64, text, category string) error {
	id, added, err := b.store.AddTask(ctx, text, category)
	if !added {
		return b.sendText(chatID, "A task needs both text and a category. Start again with /newtask.")
	}
	log.Printf("[info] task created id=%d user=%d", id, userID)
	if err != nil {
		return b.reportStoreError(chatID, err)
	}
	if err := b.sendTextWithRemove(chatID, fmt.Sprintf("✅ Saved to <b>%s</b>.", escape(strings.TrimSpace(category)))); err != nil {
		return err
	}
	return b.sendTaskList(chatID, userID)
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message) error {
	task, ok, err := b.taskByPosition(msg, "/done 2")
	if !ok {
		return err
	}
	return b.toggleTaskAndRefresh(ctx, msg.Chat.ID, msg.From.ID, task.ID)
}

func (b *Bot) handleEdit(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	position, text, _ := strings.Cut(args, " ")
	task, ok, err := b.taskAt(msg.Chat.ID, msg.From.ID, position, "/edit 2 new text")
	if !ok {
		return err
	}
	if strings.TrimSpace(text) == "" {
		b.setConversation(msg.From.ID, &conversationState{stage: stageEditText, taskID: task.ID})
		return b.sendWithReplyMarkup(msg.Chat.ID, fmt.Sprintf("✏️ New text for «%s»:", escape(task.Text)), cancelKeyboard())
	}
	return b.editTaskAndRefresh(ctx, msg.Chat.ID, msg.From.ID, task.ID, text)
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message) error {
	task, ok, err := b.taskByPosition(msg, "/delete 2")
	if !ok {
		return err
	}
	return b.deleteTaskAndRefresh(ctx, msg.Chat.ID, msg.From.ID, task.ID)
}

func (b *Bot) taskByPosition(msg *tgbotapi.Message, example string) (model.Task, bool, error) {
	return b.taskAt(msg.Chat.ID, msg.From.ID, strings.TrimSpace(msg.CommandArguments()), example)
}

// taskAt resolves a 1-based position in the user's current filtered list.
func (b *Bot) taskAt(chatID, userID int64, raw, example string) (model.Task, bool, error) {
	if raw == "" {
		return model.Task{}, false, b.sendText(chatID, fmt.Sprintf("Give the task number from /tasks, e.g. %s", example))
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return model.Task{}, false, b.sendText(chatID, "The task number must be a number.")
	}
	tasks := b.store.FilterByCategory(b.getFilter(userID))
	if n < 1 || n > len(tasks) {
		return model.Task{}, false, b.sendText(chatID, "No task with that number. Check /tasks.")
	}
	return tasks[n-1], true, nil
}

func (b *Bot) handleFilter(msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		b.setConversation(msg.From.ID, &conversationState{stage: stageFilter})
		return b.sendWithReplyMarkup(msg.Chat.ID, "🔎 Which category should I show?", categoryKeyboard(b.store.Categories(), true))
	}
	return b.applyFilter(msg.Chat.ID, msg.From.ID, args)
}

func (b *Bot) applyFilter(chatID, userID int64, raw string) error {
	selector, ok := b.resolveFilter(raw)
	if !ok {
		return b.sendTextWithRemove(chatID, fmt.Sprintf("No category named «%s».", escape(raw)))
	}
	b.setFilter(userID, selector)
	return b.sendTaskList(chatID, userID)
}

// resolveFilter maps user input to a selector. An existing category always
// wins over the "all" aliases.
func (b *Bot) resolveFilter(raw string) (string, bool) {
	if b.store.HasCategory(raw) {
		return raw, true
	}
	trimmed := strings.TrimSpace(raw)
	if b.store.HasCategory(trimmed) {
		return trimmed, true
	}
	switch strings.ToLower(trimmed) {
	case "all", strings.ToLower(btnAll):
		return model.AllCategories, true
	}
	return "", false
}

func (b *Bot) handleCategories(msg *tgbotapi.Message) error {
	categories := b.store.Categories()
	if len(categories) == 0 {
		return b.sendText(msg.Chat.ID, "No categories yet. Add one with /addcategory or while creating a task.")
	}
	filter := b.getFilter(msg.From.ID)
	var builder strings.Builder
	builder.WriteString("📂 <b>Categories</b>\n")
	for _, name := range categories {
		marker := "•"
		if name == filter {
			marker = "▶"
		}
		builder.WriteString(fmt.Sprintf("%s %s (%d)\n", marker, escape(name), len(b.store.FilterByCategory(name))))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleAddCategory(ctx context.Context, msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		return b.sendText(msg.Chat.ID, "Give the category name: /addcategory Errands")
	}
	added, err := b.store.AddCategory(ctx, name)
	if !added {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Category «%s» already exists.", escape(name)))
	}
	log.Printf("[info] category added name=%q", name)
	if err != nil {
		return b.reportStoreError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("📂 Category «%s» added.", escape(name)))
}

// handleRenameCategory accepts "old | new", or just "new" to rename the
// category currently used as the filter.
func (b *Bot) handleRenameCategory(ctx context.Context, msg *tgbotapi.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())
	oldName, newName, found := strings.Cut(args, "|")
	if !found {
		oldName, newName = b.getFilter(msg.From.ID), args
		if oldName == model.AllCategories {
			return b.sendText(msg.Chat.ID, "Usage: /renamecategory Errands | Shopping")
		}
	}
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)

	if !b.store.HasCategory(oldName) {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("No category named «%s».", escape(oldName)))
	}
	renamed, err := b.store.RenameCategory(ctx, oldName, newName)
	if !renamed {
		return b.sendText(msg.Chat.ID, "The new name must be non-empty and not already used.")
	}
	log.Printf("[info] category renamed old=%q new=%q", oldName, newName)
	b.renameFilters(oldName, newName)
	if err != nil {
		return b.reportStoreError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✏️ «%s» is now «%s».", escape(oldName), escape(newName)))
}

func (b *Bot) handleDeleteCategory(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		name = b.getFilter(msg.From.ID)
	}
	if name == model.AllCategories {
		return b.sendText(msg.Chat.ID, "Usage: /deletecategory Errands")
	}
	if !b.store.HasCategory(name) {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("No category named «%s».", escape(name)))
	}
	count := len(b.store.FilterByCategory(name))
	b.setConfirmation(msg.From.ID, confirmationRequest{category: name})
	text := fmt.Sprintf("Delete category «%s» and its %d task(s)?", escape(name), count)
	return b.sendWithReplyMarkup(msg.Chat.ID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.From.ID)
		_, err := b.store.DeleteCategory(ctx, req.category)
		log.Printf("[info] category deleted name=%q", req.category)
		b.dropFilters(req.category)
		if err != nil {
			return b.reportStoreError(msg.Chat.ID, err)
		}
		return b.sendTextWithRemove(msg.Chat.ID, fmt.Sprintf("🗑 Category «%s» deleted.", escape(req.category)))
	case isCancelInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.sendMenuPlaceholder(msg.Chat.ID)
	default:
		return b.sendWithReplyMarkup(msg.Chat.ID, "Confirm or cancel the deletion.", confirmKeyboard())
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	if _, err := b.client.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}
	if !b.allowed(cb.From.ID, cb.Message.Chat.ID) {
		return nil
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data
	switch {
	case strings.HasPrefix(data, cbTogglePrefix):
		taskID, err := parseTaskID(data, cbTogglePrefix)
		if err != nil {
			return nil
		}
		return b.toggleTaskAndRefresh(ctx, chatID, cb.From.ID, taskID)
	case strings.HasPrefix(data, cbEditPrefix):
		taskID, err := parseTaskID(data, cbEditPrefix)
		if err != nil {
			return nil
		}
		task, ok := b.store.Task(taskID)
		if !ok {
			return b.sendText(chatID, "Task not found or already deleted.")
		}
		b.setConversation(cb.From.ID, &conversationState{stage: stageEditText, taskID: taskID})
		return b.sendWithReplyMarkup(chatID, fmt.Sprintf("✏️ New text for «%s»:", escape(task.Text)), cancelKeyboard())
	case strings.HasPrefix(data, cbDeletePrefix):
		taskID, err := parseTaskID(data, cbDeletePrefix)
		if err != nil {
			return nil
		}
		return b.deleteTaskAndRefresh(ctx, chatID, cb.From.ID, taskID)
	default:
		return nil
	}
}

func (b *Bot) toggleTaskAndRefresh(ctx context.Context, chatID, userID, taskID int64) error {
	toggled, err := b.store.ToggleCompletion(ctx, taskID)
	if !toggled {
		return b.sendText(chatID, "Task not found or already deleted.")
	}
	log.Printf("[info] task toggled id=%d user=%d", taskID, userID)
	if err != nil {
		return b.reportStoreError(chatID, err)
	}
	return b.sendTaskList(chatID, userID)
}

func (b *Bot) editTaskAndRefresh(ctx context.Context, chatID, userID, taskID int64, text string) error {
	edited, err := b.store.EditTaskText(ctx, taskID, text)
	if !edited {
		return b.sendTextWithRemove(chatID, "Task not found or already deleted.")
	}
	log.Printf("[info] task edited id=%d user=%d", taskID, userID)
	if err != nil {
		return b.reportStoreError(chatID, err)
	}
	if err := b.sendTextWithRemove(chatID, "✏️ Task updated."); err != nil {
		return err
	}
	return b.sendTaskList(chatID, userID)
}

func (b *Bot) deleteTaskAndRefresh(ctx context.Context, chatID, userID, taskID int64) error {
	task, _ := b.store.Task(taskID)
	removed, err := b.store.DeleteTask(ctx, taskID)
	if err != nil {
		return b.reportStoreError(chatID, err)
	}
	if !removed {
		return b.sendText(chatID, "Task not found or already deleted.")
	}
	log.Printf("[info] task deleted id=%d user=%d", taskID, userID)
	if err := b.sendText(chatID, fmt.Sprintf("🗑 Task «%s» deleted.", escape(task.Text))); err != nil {
		return err
	}
	return b.sendTaskList(chatID, userID)
}

func (b *Bot) sendTaskList(chatID, userID int64) error {
	filter := b.getFilter(userID)
	tasks := b.store.FilterByCategory(filter)

	title := "All tasks"
	if filter != model.AllCategories {
		title = filter
	}

	if len(tasks) == 0 {
		return b.sendText(chatID, fmt.Sprintf("📋 <b>%s</b>\nNothing here yet. Add a task with /newtask.", escape(title)))
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>%s</b>\n\n", escape(title)))

	var buttons [][]tgbotapi.InlineKeyboardButton
	for i, task := range tasks {
		builder.WriteString(formatTask(i+1, task, filter == model.AllCategories))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggleLabel(i+1, task), fmt.Sprintf("%s%d", cbTogglePrefix, task.ID)),
			tgbotapi.NewInlineKeyboardButtonData("✏️", fmt.Sprintf("%s%d", cbEditPrefix, task.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbDeletePrefix, task.ID)),
		))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.client.Send(msg)
	return err
}

// SendSummary pushes the summary to the report chat, if one is known.
func (b *Bot) SendSummary(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	chatID := b.reportChat
	b.mu.Unlock()
	if chatID == 0 {
		return nil
	}
	return b.sendText(chatID, b.summary.Summary(time.Now()))
}

// reportStoreError tells the user a change was applied but not saved.
func (b *Bot) reportStoreError(chatID int64, err error) error {
	log.Printf("[warn] persist: %v", err)
	if errors.Is(err, repository.ErrStorageFailure) {
		return b.sendText(chatID, "⚠️ The change is applied but could not be saved. It will be lost on restart.")
	}
	return b.sendText(chatID, fmt.Sprintf("Error: %s", escape(err.Error())))
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelNewTask):
		b.clearConfirmation(msg.From.ID)
		return true, b.startNewTaskConversation(msg)
	case strings.ToLower(menuLabelTasks):
		b.clearConversation(msg.From.ID)
		return true, b.sendTaskList(msg.Chat.ID, msg.From.ID)
	case strings.ToLower(menuLabelCategories):
		b.clearConversation(msg.From.ID)
		return true, b.handleCategories(msg)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.client.Send(msg)
	return err
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.client.Send(msg); err != nil {
		return err
	}
	return b.sendMenuPlaceholder(chatID)
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.client.Send(msg)
	return err
}

func (b *Bot) sendMenuPlaceholder(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🔹 Main menu")
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.client.Send(msg)
	return err
}

func (b *Bot) getFilter(userID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filters[userID]
}

func (b *Bot) setFilter(userID int64, selector string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if selector == model.AllCategories {
		delete(b.filters, userID)
		return
	}
	b.filters[userID] = selector
}

// renameFilters keeps filters pointing at a renamed category.
func (b *Bot) renameFilters(oldName, newName string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for userID, selector := range b.filters {
		if selector == oldName {
			b.filters[userID] = newName
		}
	}
}

// dropFilters resets filters on a deleted category back to all tasks.
func (b *Bot) dropFilters(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for userID, selector := range b.filters {
		if selector == name {
			delete(b.filters, userID)
		}
	}
}

func (b *Bot) getConfirmation(userID int64) (confirmationRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.confirmations[userID]
	return req, ok
}

func (b *Bot) setConfirmation(userID int64, req confirmationRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = req
}

func (b *Bot) clearConfirmation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, userID)
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func parseTaskID(data, prefix string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
}
