// Package notify delivers order and review notifications to an external
// Telegram endpoint. Delivery is strictly best-effort: it runs after the
// owning transaction has committed, makes a single attempt with a bounded
// timeout, and never surfaces an error to the caller.
package notify

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
)

const defaultAPIBase = "https://api.telegram.org"

type Dispatcher struct {
	db      *gorm.DB
	client  *http.Client
	apiBase string
}

func NewDispatcher(db *gorm.DB) *Dispatcher {
	return &Dispatcher{
		db:      db,
		client:  &http.Client{Timeout: 5 * time.Second},
		apiBase: defaultAPIBase,
	}
}

// credentials resolves the bot token and chat id: environment first, then the
// persisted SiteConfig row. Empty results mean dispatch is a no-op.
func (d *Dispatcher) credentials() (token, chatID string) {
	token = os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID = os.Getenv("TELEGRAM_CHAT_ID")
	if token != "" && chatID != "" {
		return token, chatID
	}
	if d.db == nil {
		return "", ""
	}
	cfg, err := models.GetSiteConfig(d.db)
	if err != nil {
		log.Printf("⚠️ Failed to load site config: %v", err)
		return "", ""
	}
	if token == "" {
		token = cfg.TelegramBotToken
	}
	if chatID == "" {
		chatID = cfg.TelegramChatID
	}
	return token, chatID
}

// send posts one message. Any failure is logged and swallowed.
func (d *Dispatcher) send(text string) {
	token, chatID := d.credentials()
	if token == "" || chatID == "" {
		return
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", d.apiBase, token)
	form := url.Values{
		"chat_id":    {chatID},
		"text":       {text},
		"parse_mode": {"HTML"},
	}
	resp, err := d.client.PostForm(endpoint, form)
	if err != nil {
		log.Printf("⚠️ Telegram delivery failed: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️ Telegram delivery failed: status %d", resp.StatusCode)
	}
}

// NotifyOrder announces a freshly created order. Called after commit;
// delivery failure never blocks or rolls back order creation.
func (d *Dispatcher) NotifyOrder(order *models.Order) {
	d.send(OrderMessage(order))
}

// NotifyReview announces a new community review.
func (d *Dispatcher) NotifyReview(post *models.CommunityPost) {
	message := fmt.Sprintf(
		"🗣️ Avis produit: <b>%s</b>\n👤 Auteur: <b>%s</b>\n⭐ Note: %d/5",
		post.Title, post.Author, post.Rating,
	)
	d.send(message)
}

// OrderMessage builds the human-readable order summary: customer identity,
// contact, itemized snapshot prices and the recomputed total.
func OrderMessage(order *models.Order) string {
	var items strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&items, "📦 %dx %s (%s) (%s MAD)\n",
			item.Quantity, item.ProductName, item.VariantName, item.Price.StringFixed(2))
	}

	notes := order.Notes
	if notes == "" {
		notes = "Aucune"
	}

	return fmt.Sprintf(`🛒 <b>Nouvelle commande!</b>
<b>Commande #%d - %s</b>
👤 <b>Client:</b> %s
📞 <b>Téléphone:</b> %s
🏙️ <b>Ville:</b> %s
💰 <b>Total:</b> %s MAD
🛍️ <b>Produits:</b>
%s
⛔ <b>Remarques:</b> %s ⛔`,
		order.ID,
		order.CreatedAt.Format("02/01/2006 à 15:04"),
		order.FullName,
		order.Phone,
		order.City,
		order.TotalPrice().StringFixed(2),
		items.String(),
		notes,
	)
}

// WhatsAppURL builds the wa.me link handed back to the storefront after
// checkout so the customer can forward the order to the shop.
func WhatsAppURL(order *models.Order) string {
	number := os.Getenv("ADMIN_WHATSAPP_NUMBER")
	if number == "" {
		return ""
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(OrderMessage(order)))
}
