// Package telegram is the chat front end: it maps commands and photos onto
// session operations.
package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"cravecare/internal/app"
	"cravecare/internal/config"
	"cravecare/internal/cycle"
	"cravecare/internal/grocery"
	"cravecare/internal/metrics"
	"cravecare/internal/profile"
	"cravecare/internal/recipe"
	"cravecare/internal/rewards"
	"cravecare/internal/snap"
	"cravecare/internal/spend"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API over the application core. Each chat gets its
// own session: guests run on the local JSON store, /signin switches the chat
// to the account's SQLite store.
type Bot struct {
	api *tgbotapi.BotAPI
	app *app.App
	cfg *config.Config

	mu          sync.Mutex
	sessions    map[int64]*chatSession
	lastRecipes map[int64]recipe.Recipe
}

// chatSession binds a chat to its session. An account session carries the
// signed token issued at /signin; guests have no token.
type chatSession struct {
	sess  *app.Session
	token string
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	if cfg.TelegramWebhookURL != "" {
		wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
		resp, err := api.Request(wh)
		if err != nil {
			return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
		}
		log.Printf("Webhook set response: %s", resp.Description)
	}

	return &Bot{
		api:         api,
		app:         application,
		cfg:         cfg,
		sessions:    make(map[int64]*chatSession),
		lastRecipes: make(map[int64]recipe.Recipe),
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.CallbackQuery != nil {
		go b.handleCallbackQuery(update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}

	go b.processMessage(update.Message)
}

// sessionFor returns the chat's session, creating a resolved guest session
// on first contact, and tells the user when an account session was dropped.
func (b *Bot) sessionFor(chatID int64) (*app.Session, error) {
	sess, dropped, err := b.resolveChat(chatID)
	if err != nil {
		return nil, err
	}
	if dropped {
		b.send(chatID, "🔑 Your session expired — you're back in guest mode. /signin to pick up your account again.")
	}
	return sess, nil
}

// resolveChat returns the chat's session. The account token is verified on
// every update; when it no longer checks out the account session is lost and
// the chat falls back to a fresh guest session. The bool reports that drop.
func (b *Bot) resolveChat(chatID int64) (*app.Session, bool, error) {
	b.mu.Lock()
	cs, ok := b.sessions[chatID]
	b.mu.Unlock()

	dropped := false
	if ok {
		if cs.token == "" {
			return cs.sess, false, nil
		}
		if _, err := b.app.Auth().VerifyToken(cs.token); err == nil {
			return cs.sess, false, nil
		}
		cs.sess.SessionLost()
		dropped = true
	}

	s, err := b.app.GuestSession(fmt.Sprintf("tg-%d", chatID))
	if err != nil {
		return nil, dropped, err
	}
	if err := s.Resolve(context.Background()); err != nil {
		return nil, dropped, err
	}
	b.mu.Lock()
	b.sessions[chatID] = &chatSession{sess: s}
	b.mu.Unlock()
	return s, dropped, nil
}

func (b *Bot) replaceSession(chatID int64, s *app.Session, token string) {
	b.mu.Lock()
	b.sessions[chatID] = &chatSession{sess: s, token: token}
	b.mu.Unlock()
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	sess, err := b.sessionFor(chatID)
	if err != nil {
		log.Printf("Failed to build session for chat %d: %v", chatID, err)
		b.send(chatID, "❌ Something went wrong, try again in a bit.")
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(sess, msg)
		return
	}

	cmd, args := splitCommand(msg.Text)
	switch cmd {
	case "/start":
		b.handleStart(sess, chatID)
	case "/setup":
		b.handleSetup(sess, chatID, args)
	case "/signup":
		b.handleAccount(chatID, args, true)
	case "/signin":
		b.handleAccount(chatID, args, false)
	case "/logout":
		b.handleLogout(sess, chatID)
	case "/phase":
		b.handlePhase(sess, chatID)
	case "/recipe":
		b.handleRecipe(sess, chatID, args)
	case "/menu":
		b.handleMenu(sess, chatID, args)
	case "/spend":
		b.handleSpend(sess, chatID, args)
	case "/today":
		b.handleToday(sess, chatID)
	case "/claim":
		b.handleClaim(sess, chatID)
	case "/healthy":
		b.handleHealthy(sess, chatID)
	case "/tokens":
		b.handleTokens(sess, chatID)
	case "/redeem":
		b.handleRedeem(sess, chatID)
	case "/grocery":
		b.handleGrocery(sess, chatID)
	case "/clear":
		b.handleClearChecked(sess, chatID)
	case "/snaps":
		b.handleSnaps(sess, chatID)
	case "/metrics":
		b.handleMetrics(chatID)
	default:
		b.send(chatID, helpText)
	}
}

const helpText = `🫶 *CraveCare*

/setup name; YYYY-MM-DD; budget; appliances; goal — onboarding
/phase — where you are in your cycle
/recipe [appliance] — cook something for this phase
/menu [search] — browse the recipe catalog
/spend amount [label] — log an expense
/today — today's budget status
/claim — claim the under-budget token
/healthy — log a healthy meal cooked
/tokens — token balance
/redeem — 5 tokens → 1 cheat day
/grocery — shopping list
/clear — remove checked items
/signup email password — create an account
/signin email password — switch to your account
/logout — back to guest mode

/snaps — your recent plate grades

Send a photo of your plate to get it graded 📸`

func (b *Bot) handleStart(sess *app.Session, chatID int64) {
	switch sess.State() {
	case app.StateOnboarding, app.StateAuth:
		b.send(chatID, "👋 Hey! Let's set you up.\n\nSend:\n`/setup Priya; 2026-08-15; 200; kettle,induction`\n(name; last period date; daily budget; appliances)")
	default:
		p := sess.Profile()
		b.send(chatID, fmt.Sprintf("Welcome back, %s! 💕\n\n%s", p.Name, helpText))
	}
}

// handleSetup parses the semicolon-separated onboarding line.
func (b *Bot) handleSetup(sess *app.Session, chatID int64, args string) {
	parts := strings.Split(args, ";")
	if len(parts) < 2 {
		b.send(chatID, "Format: `/setup name; YYYY-MM-DD; budget; appliances`")
		return
	}
	p := profile.Profile{
		Name:           strings.TrimSpace(parts[0]),
		LastPeriodDate: strings.TrimSpace(parts[1]),
	}
	if len(parts) > 2 {
		p.DailyBudget, _ = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	}
	if len(parts) > 3 {
		for _, a := range strings.Split(parts[3], ",") {
			a = strings.TrimSpace(strings.ToLower(a))
			if profile.KnownAppliance(a) {
				p.Appliances = append(p.Appliances, a)
			}
		}
	}
	if len(parts) > 4 {
		goal := strings.TrimSpace(strings.ToLower(parts[4]))
		if profile.KnownGoal(goal) {
			p.PrimaryGoal = goal
			p.HasPCOS = goal == "pcos-management"
		}
	}

	sess.CompleteOnboarding(context.Background(), p)
	info := cycle.Phases[cycle.Current(p.LastPeriodDate, time.Now())]
	b.send(chatID, fmt.Sprintf("✨ All set, %s!\n\nYou're in your *%s phase* %s\nFocus: %s\n\n%s",
		sess.Profile().Name, info.Name, info.Emoji, info.Nutrient, info.Tip))
}

func (b *Bot) handleAccount(chatID int64, args string, signUp bool) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.send(chatID, "Format: `/signin email password`")
		return
	}
	ctx := context.Background()

	var userID, token string
	var err error
	if signUp {
		userID, token, err = b.app.Auth().SignUp(ctx, fields[0], fields[1])
	} else {
		userID, token, err = b.app.Auth().SignIn(ctx, fields[0], fields[1])
	}
	if err != nil {
		b.send(chatID, fmt.Sprintf("❌ %v", err))
		return
	}

	sess := b.app.UserSession(userID)
	if err := sess.Resolve(ctx); err != nil {
		log.Printf("Failed to resolve account session: %v", err)
		b.send(chatID, "❌ Could not load your account, try again.")
		return
	}
	b.replaceSession(chatID, sess, token)

	if sess.State() == app.StateOnboarding {
		b.send(chatID, "✅ Signed in! Finish setup with `/setup name; YYYY-MM-DD; budget; appliances`")
		return
	}
	b.send(chatID, fmt.Sprintf("✅ Signed in! Welcome back, %s 💕", sess.Profile().Name))
}

func (b *Bot) handleLogout(sess *app.Session, chatID int64) {
	sess.Logout()
	b.mu.Lock()
	delete(b.sessions, chatID)
	delete(b.lastRecipes, chatID)
	b.mu.Unlock()
	b.send(chatID, "👋 Logged out. You're back in guest mode; /start when you're ready.")
}

func (b *Bot) handlePhase(sess *app.Session, chatID int64) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	p := sess.Profile()
	day := cycle.DayOf(p.LastPeriodDate, time.Now())
	info := cycle.Phases[cycle.ForDay(day)]
	b.send(chatID, fmt.Sprintf("%s *%s phase* (day %d of 28)\nFocus: %s\n\n_%s_",
		info.Emoji, info.Name, day+1, info.Nutrient, info.Tip))
}

func (b *Bot) handleRecipe(sess *app.Session, chatID int64, args string) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	p := sess.Profile()

	appliance, ok := applianceFor(p, args)
	if !ok {
		if len(p.Appliances) > 0 {
			b.send(chatID, fmt.Sprintf("Pick one you own: %s.", strings.Join(p.Appliances, ", ")))
		} else {
			b.send(chatID, "Which appliance? kettle, induction, sandwich-maker or fridge.")
		}
		return
	}

	sent := b.send(chatID, "🧑‍🍳 *Cooking something up for your phase...*")

	phase := cycle.Current(p.LastPeriodDate, time.Now())
	r := b.app.GenerateRecipe(context.Background(), sess, recipe.GenerateParams{
		Appliance:   appliance,
		Phase:       phase,
		HasPCOS:     p.HasPCOS,
		PrimaryGoal: p.PrimaryGoal,
	})

	b.mu.Lock()
	b.lastRecipes[chatID] = r
	b.mu.Unlock()

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Add to grocery list", "grocery-add"),
			tgbotapi.NewInlineKeyboardButtonData("🥗 I cooked this!", "healthy"),
		),
	)
	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, formatRecipeMarkdown(r))
	edit.ParseMode = "Markdown"
	edit.ReplyMarkup = &keyboard
	b.api.Send(edit)
}

// handleMenu lists the static catalog, filtered to the user's appliances and
// an optional search term, with a mom tip on top.
func (b *Bot) handleMenu(sess *app.Session, chatID int64, args string) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	p := sess.Profile()
	matches := recipe.Filter(recipe.Catalog, p.Appliances, "", strings.TrimSpace(args))
	if len(matches) == 0 {
		b.send(chatID, "Nothing matches — try /menu without a search, or /recipe for something fresh.")
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💬 _%s_\n\n", recipe.MomTip(rng)))
	for _, r := range matches {
		sb.WriteString(fmt.Sprintf("%s *%s* — %s, %d kcal (%s)\n",
			r.Emoji, r.Name, r.Time, r.Calories, recipe.ApplianceName(r.Appliance)))
	}
	sb.WriteString("\nWant the ingredients on your list? Generate it with /recipe.")
	b.send(chatID, sb.String())
}

func (b *Bot) handleSpend(sess *app.Session, chatID int64, args string) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		b.send(chatID, "Format: `/spend 80 lunch`")
		return
	}
	amount, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		b.send(chatID, "Format: `/spend 80 lunch`")
		return
	}
	label := strings.Join(fields[1:], " ")

	before := len(sess.Tokens())
	if _, err := sess.AddSpend(context.Background(), label, amount); err != nil {
		if err == spend.ErrInvalidAmount {
			b.send(chatID, "Amount has to be a positive number!")
			return
		}
		log.Printf("AddSpend failed for chat %d: %v", chatID, err)
		b.send(chatID, "❌ Couldn't save that, try again.")
		return
	}

	text := formatBudgetStatus(sess.DailyBudget(), sess.TodayTotal())
	if len(sess.Tokens()) > before {
		text += "\n\n🎉 *+1 token* for logging 3 meals today!"
	} else if sess.CanClaimUnderBudget() {
		text += "\n\nYou're under budget — /claim your token! 💰"
	}
	b.send(chatID, text)
}

func (b *Bot) handleToday(sess *app.Session, chatID int64) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	var sb strings.Builder
	sb.WriteString(formatBudgetStatus(sess.DailyBudget(), sess.TodayTotal()))
	today := spend.Today(sess.Spends(), time.Now())
	if len(today) > 0 {
		sb.WriteString("\n")
		for _, e := range today {
			sb.WriteString(fmt.Sprintf("\n• %s — %.0f", e.Label, e.Amount))
		}
	}
	b.send(chatID, sb.String())
}

func (b *Bot) handleClaim(sess *app.Session, chatID int64) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	if _, err := sess.ClaimUnderBudget(context.Background()); err != nil {
		switch err {
		case app.ErrNotEligible:
			b.send(chatID, "Log some spending first — the token is for staying under budget on a day you tracked.")
		case rewards.ErrDailyCapReached:
			b.send(chatID, "Already claimed today! Come back tomorrow 💰")
		default:
			b.send(chatID, "❌ Couldn't save that, try again.")
		}
		return
	}
	b.send(chatID, fmt.Sprintf("💰 *Under budget!* +1 token\nBalance: %d", sess.AvailableTokens()))
}

func (b *Bot) handleHealthy(sess *app.Session, chatID int64) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	if _, err := sess.AwardHealthyMeal(context.Background()); err != nil {
		if err == rewards.ErrDailyCapReached {
			b.send(chatID, fmt.Sprintf("Max %d healthy-meal tokens per day — you're crushing it already! 🥗", rewards.MaxHealthyMealTokensPerDay))
			return
		}
		b.send(chatID, "❌ Couldn't save that, try again.")
		return
	}
	b.send(chatID, fmt.Sprintf("🥗 *Healthy meal cooked!* +1 token\nBalance: %d", sess.AvailableTokens()))
}

func (b *Bot) handleTokens(sess *app.Session, chatID int64) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	n := sess.AvailableTokens()
	text := fmt.Sprintf("🪙 *%d token(s)*\nCheat days unlocked: %d\n\n%d tokens = 1 cheat day",
		n, len(sess.CheatDays()), rewards.TokensPerCheatDay)
	if n >= rewards.TokensPerCheatDay {
		text += "\n\nYou can /redeem one right now! 🍕"
	}
	b.send(chatID, text)
}

func (b *Bot) handleRedeem(sess *app.Session, chatID int64) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	if _, err := sess.RedeemCheatDay(context.Background()); err != nil {
		if err == rewards.ErrInsufficientTokens {
			b.send(chatID, fmt.Sprintf("Not enough tokens — you have %d, need %d. Keep going! 💪",
				sess.AvailableTokens(), rewards.TokensPerCheatDay))
			return
		}
		b.send(chatID, "❌ Couldn't save that, try again.")
		return
	}
	b.send(chatID, fmt.Sprintf("🍕 *CHEAT DAY UNLOCKED!* Enjoy it, you earned it.\nTokens left: %d", sess.AvailableTokens()))
}

func (b *Bot) handleGrocery(sess *app.Session, chatID int64) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	items := sess.Groceries()
	if len(items) == 0 {
		b.send(chatID, "🛒 List is empty. Generate a /recipe and add its ingredients!")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range items {
		label := it.Name
		if it.Checked {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "toggle|"+it.ID),
		))
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🛒 *Shopping List* (%d/%d checked)\nTap an item to check it off; /clear removes checked ones.",
		grocery.CheckedCount(items), len(items)))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.api.Send(msg)
}

func (b *Bot) handleClearChecked(sess *app.Session, chatID int64) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	if err := sess.ClearCheckedItems(context.Background()); err != nil {
		b.send(chatID, "❌ Couldn't save that, try again.")
		return
	}
	b.send(chatID, fmt.Sprintf("🧹 Done! %d item(s) left.", len(sess.Groceries())))
}

func (b *Bot) handleSnaps(sess *app.Session, chatID int64) {
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}
	records, err := sess.MealSnaps(context.Background())
	if err != nil {
		b.send(chatID, "❌ Couldn't load your snaps, try again.")
		return
	}
	if len(records) == 0 {
		b.send(chatID, "No snaps yet — send me a photo of your plate! 📸")
		return
	}
	if len(records) > 7 {
		records = records[:7]
	}

	var sb strings.Builder
	sb.WriteString("📸 *Recent Plates*\n\n")
	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("%s %s · *%s* · %s\n",
			snap.MealEmoji(rec.MealType), rec.CreatedAt.Format("Jan 2"), rec.Grade, rec.Verdict))
	}
	b.send(chatID, sb.String())
}

// handlePhoto downloads the largest photo size and grades it.
func (b *Bot) handlePhoto(sess *app.Session, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !requireApp(sess) {
		b.send(chatID, "Run /setup first!")
		return
	}

	sent := b.send(chatID, "📸 *Grading your plate...*")

	photo := msg.Photo[len(msg.Photo)-1]
	image, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Failed to download photo: %v", err)
		b.edit(chatID, sent.MessageID, "❌ Couldn't read that photo, try another one.")
		return
	}

	rec, err := b.app.GradeMealSnap(context.Background(), sess, image, "image/jpeg")
	if err != nil {
		log.Printf("Failed to save meal snap: %v", err)
		b.edit(chatID, sent.MessageID, "❌ Couldn't save that, try again.")
		return
	}
	b.edit(chatID, sent.MessageID, formatSnapMarkdown(rec))
}

func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file url: %w", err)
	}
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID
	sess, err := b.sessionFor(chatID)
	if err != nil {
		return
	}

	// Answer first to clear the spinner.
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	switch {
	case query.Data == "grocery-add":
		b.mu.Lock()
		r, ok := b.lastRecipes[chatID]
		b.mu.Unlock()
		if !ok {
			b.send(chatID, "Generate a /recipe first!")
			return
		}
		if err := sess.AddRecipeToGrocery(context.Background(), r); err != nil {
			b.send(chatID, "❌ Couldn't save that, try again.")
			return
		}
		b.send(chatID, fmt.Sprintf("🛒 Added %d ingredient(s) from *%s*.", len(r.Ingredients), r.Name))

	case query.Data == "healthy":
		b.handleHealthy(sess, chatID)

	case strings.HasPrefix(query.Data, "toggle|"):
		id := strings.TrimPrefix(query.Data, "toggle|")
		if err := sess.ToggleGroceryItem(context.Background(), id); err != nil {
			return
		}
		b.handleGrocery(sess, chatID)
	}
}

func (b *Bot) handleMetrics(chatID int64) {
	usage, err := b.app.Metrics().GetDailyUsage(context.Background(), 7)
	if err != nil {
		b.send(chatID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth(b.cfg.DatabasePath, b.app.DataDir())

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Generations*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d calls, %d attempts, %d failed\n", d.Date, d.Generations, d.TotalAttempts, d.Failures))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Database: %s\n", health.DatabaseSize))
	sb.WriteString(fmt.Sprintf("• Guest data: %s\n", health.GuestDataSize))

	b.send(chatID, sb.String())
}

func (b *Bot) send(chatID int64, text string) tgbotapi.Message {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	sent, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
	return sent
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func requireApp(sess *app.Session) bool {
	return sess.State() == app.StateApp
}

// applianceFor picks the appliance to cook on. An explicit argument must be
// in the catalog and, when the profile lists appliances, owned; with no
// argument the profile's first appliance is used.
func applianceFor(p *profile.Profile, args string) (string, bool) {
	appliance := strings.TrimSpace(strings.ToLower(args))
	if appliance == "" {
		if len(p.Appliances) == 0 {
			return "", false
		}
		return p.Appliances[0], true
	}
	if !profile.KnownAppliance(appliance) {
		return "", false
	}
	if len(p.Appliances) > 0 && !p.OwnsAppliance(appliance) {
		return "", false
	}
	return appliance, true
}

func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	cmd, args, _ := strings.Cut(text, " ")
	// Strip the @botname suffix on group commands.
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd, strings.TrimSpace(args)
}

func formatRecipeMarkdown(r recipe.Recipe) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s *%s*\n", r.Emoji, r.Name))
	sb.WriteString(fmt.Sprintf("⏱ %s · 🔥 %d kcal · 💊 %s\n\n", r.Time, r.Calories, r.KeyNutrient))

	sb.WriteString("*Ingredients*\n")
	for _, ing := range r.Ingredients {
		sb.WriteString(fmt.Sprintf("• %s\n", ing))
	}

	sb.WriteString("\n*Steps*\n")
	for i, step := range r.Steps {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	return sb.String()
}

func formatSnapMarkdown(rec snap.Record) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s *Hostel Grade: %s*\n\n", snap.MealEmoji(rec.MealType), rec.Grade))
	sb.WriteString(fmt.Sprintf("🍗 %dg protein · 🍞 %dg carbs · 🧈 %dg fat · 🌾 %dg fiber\n\n", rec.Protein, rec.Carbs, rec.Fat, rec.Fiber))
	sb.WriteString(fmt.Sprintf("_%s_\n", rec.Verdict))
	if rec.UpgradeTip != "" {
		sb.WriteString(fmt.Sprintf("\n💡 %s", rec.UpgradeTip))
	}
	return sb.String()
}

func formatBudgetStatus(budget, total float64) string {
	remaining := spend.Remaining(budget, total)
	gauge := spend.Gauge(budget, total)

	bar := strings.Repeat("█", gauge/10) + strings.Repeat("░", 10-gauge/10)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💸 *Today: %.0f / %.0f*\n", total, budget))
	sb.WriteString(fmt.Sprintf("`%s` %d%%\n", bar, gauge))
	if remaining >= 0 {
		sb.WriteString(fmt.Sprintf("%.0f left to spend.", remaining))
	} else {
		sb.WriteString(fmt.Sprintf("%.0f over budget — tomorrow's a fresh start!", -remaining))
	}
	return sb.String()
}
