package bot

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"mimi-order/lang"
	"mimi-order/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of *tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Deps struct {
	Catalog *services.Catalog
	Orders  *services.OrderService
	Hints   services.TableHintStore
	Logger  *slog.Logger
	AdminID int64 // Telegram user allowed to run staff commands
}

type Bot struct {
	api sender
	tg  *tgbotapi.BotAPI

	catalog *services.Catalog
	orders  *services.OrderService
	hints   services.TableHintStore
	carts   *services.CartBook
	logger  *slog.Logger
	admin   int64

	mu         sync.Mutex
	selections map[int64]*services.Selection // item being configured, per chat
	checkouts  map[int64]*checkoutState
	chatLang   map[int64]string
}

func New(api *tgbotapi.BotAPI, d Deps) *Bot {
	b := newBot(api, d)
	b.tg = api
	return b
}

func newBot(api sender, d Deps) *Bot {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:        api,
		catalog:    d.Catalog,
		orders:     d.Orders,
		hints:      d.Hints,
		carts:      services.NewCartBook(),
		logger:     logger,
		admin:      d.AdminID,
		selections: make(map[int64]*services.Selection),
		checkouts:  make(map[int64]*checkoutState),
		chatLang:   make(map[int64]string),
	}
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "menu", Description: "메뉴 보기"},
		tgbotapi.BotCommand{Command: "cart", Description: "장바구니"},
		tgbotapi.BotCommand{Command: "info", Description: "매장 안내"},
		tgbotapi.BotCommand{Command: "cancel", Description: "주문서 작성 취소"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Start long-polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		b.logger.Error("set bot commands", "action", "bot_start", "error", err)
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)
	b.logger.Info("bot started", "action", "bot_start", "username", b.tg.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.tg.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.Message == nil {
			return
		}
		if cq.From != nil {
			b.setLang(cq.Message.Chat.ID, lang.FromTelegram(cq.From.LanguageCode))
		}
		b.handleCallback(ctx, cq)
		return
	}
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
		b.setLang(chatID, lang.FromTelegram(msg.From.LanguageCode))
	}
	if msg.Contact != nil {
		b.handleContact(ctx, chatID, msg.Contact.PhoneNumber)
		return
	}

	text := strings.TrimSpace(msg.Text)
	cmd, args := splitCommand(text)
	switch cmd {
	case "":
		b.handleCheckoutText(ctx, chatID, text)
	case "/start":
		b.handleStart(ctx, chatID, args)
	case "/menu":
		b.sendMenu(chatID, strings.Join(args, " "))
	case "/cart":
		b.sendCart(chatID, 0)
	case "/info":
		b.sendInfo(chatID)
	case "/cancel":
		b.cancelCheckout(chatID)
	case "/orders":
		b.handleAdminOrders(ctx, chatID, userID, args)
	case "/export":
		b.handleAdminExport(ctx, chatID, userID, args)
	case "/stats":
		b.handleAdminStats(ctx, chatID, userID, args)
	default:
		b.send(chatID, b.t(chatID, "unknown"))
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	chatID := cq.Message.Chat.ID
	msgID := cq.Message.MessageID
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Debug("answer callback", "action", "callback", "error", err)
	}

	action, arg := parseCallback(cq.Data)
	switch action {
	case cbMenu:
		b.sendMenu(chatID, "")
	case cbItem:
		b.openItem(chatID, arg)
	case cbSelection:
		b.handleSelection(chatID, msgID, arg)
	case cbCart:
		b.sendCart(chatID, 0)
	case cbLine:
		b.handleLine(chatID, msgID, arg)
	case cbCheckout:
		b.startCheckout(chatID)
	case cbType:
		b.chooseOrderType(chatID, arg)
	case cbConfirm:
		if arg == "submit" {
			b.submitOrder(ctx, chatID)
		} else {
			b.cancelCheckout(chatID)
		}
	}
}

// splitCommand returns ("/cmd", args) for command messages and ("", nil)
// for plain text. A "@botname" suffix on the command is dropped.
func splitCommand(text string) (string, []string) {
	if !strings.HasPrefix(text, "/") {
		return "", nil
	}
	fields := strings.Fields(text)
	cmd := fields[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), fields[1:]
}

func (b *Bot) setLang(chatID int64, code string) {
	b.mu.Lock()
	b.chatLang[chatID] = code
	b.mu.Unlock()
}

func (b *Bot) getLang(chatID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if l, ok := b.chatLang[chatID]; ok {
		return l
	}
	return lang.Ko
}

func (b *Bot) t(chatID int64, key string, args ...interface{}) string {
	return lang.T(b.getLang(chatID), key, args...)
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send", "action", "send", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendWithMarkup(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send", "action", "send", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) edit(chatID int64, msgID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if msgID == 0 {
		b.sendWithMarkup(chatID, text, kb)
		return
	}
	cfg := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, kb)
	if _, err := b.api.Send(cfg); err != nil {
		b.logger.Error("edit", "action", "edit", "chat_id", chatID, "error", err)
	}
}
