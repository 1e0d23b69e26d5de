package tracking

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/distrifone/tracking-backend/internal/shared"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusAbandoned Status = "abandoned"
	StatusCompleted Status = "completed"
)

// A session is considered abandoned after this much inactivity.
const abandonedAfter = 30 * time.Minute

type CategoryVisit struct {
	Name        string    `json:"name"`
	VisitCount  int       `json:"visitCount"`
	LastVisitAt time.Time `json:"lastVisitAt"`
}

type ProductView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category,omitempty"`
	VisitCount int       `json:"visitCount"`
	LastViewAt time.Time `json:"lastViewAt"`
}

// CategoryVisits stores a []CategoryVisit as a JSON text column.
type CategoryVisits []CategoryVisit

func (c CategoryVisits) Value() (driver.Value, error) {
	if len(c) == 0 {
		return "[]", nil
	}
	return json.Marshal(c)
}

func (c *CategoryVisits) Scan(value any) error {
	return scanJSON(value, c)
}

// ProductViews stores a []ProductView as a JSON text column.
type ProductViews []ProductView

func (p ProductViews) Value() (driver.Value, error) {
	if len(p) == 0 {
		return "[]", nil
	}
	return json.Marshal(p)
}

func (p *ProductViews) Scan(value any) error {
	return scanJSON(value, p)
}

func scanJSON(value, dest any) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}
	return json.Unmarshal(bytes, dest)
}

// VisitRecord is the relational row, one per session, upserted on every
// tracking call and never deleted. CartData holds the serialized
// {items,total} blob or nil when the cart is empty.
type VisitRecord struct {
	SessionID           string             `gorm:"primaryKey"`
	Whatsapp            string             `gorm:"index"`
	StartTime           time.Time          `gorm:"not null"`
	LastActivity        time.Time          `gorm:"not null;index"`
	SearchTerms         shared.StringSlice `gorm:"type:text"`
	CategoriesVisited   CategoryVisits     `gorm:"type:text"`
	ProductsViewed      ProductViews       `gorm:"type:text"`
	HasCart             bool
	CartValue           *float64
	CartItemCount       *int
	CartData            *string
	Status              string
	WhatsappCollectedAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Visit is the canonical, source-agnostic session view produced by the
// merger. It is derived in memory and never stored.
type Visit struct {
	SessionID              string          `json:"sessionId"`
	Whatsapp               string          `json:"whatsapp,omitempty"`
	WhatsappFormatted      string          `json:"whatsappFormatted,omitempty"`
	StartTime              time.Time       `json:"startTime"`
	LastActivity           time.Time       `json:"lastActivity"`
	SessionDurationSeconds int64           `json:"sessionDurationSeconds"`
	SearchTerms            []string        `json:"searchTerms"`
	CategoriesVisited      []CategoryVisit `json:"categoriesVisited"`
	ProductsViewed         []ProductView   `json:"productsViewed"`
	HasCart                bool            `json:"hasCart"`
	CartValue              *float64        `json:"cartValue"`
	CartItemCount          *int            `json:"cartItemCount"`
	Status                 Status          `json:"status"`
	WhatsappCollectedAt    *time.Time      `json:"whatsappCollectedAt,omitempty"`
}

type CartItem struct {
	ID         string  `json:"id,omitempty"`
	ProductID  string  `json:"productId,omitempty"`
	Name       string  `json:"name"`
	ModelName  string  `json:"modelName,omitempty"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// CartData is the serialized cart blob carried on the relational row and
// inside cart file records. Total, when present, is authoritative even if it
// disagrees with the sum of line totals (upstream discounts).
type CartData struct {
	Items []CartItem `json:"items"`
	Total *float64   `json:"total,omitempty"`
}

type CartAnalytics struct {
	TimeOnSiteSeconds int64           `json:"timeOnSiteSeconds"`
	CategoriesVisited []CategoryVisit `json:"categoriesVisited"`
	SearchTerms       []string        `json:"searchTerms"`
	ProductsViewed    []ProductView   `json:"productsViewed"`
}

// CartSnapshot is the detail view for one session, richer than the summary
// cart fields on a Visit.
type CartSnapshot struct {
	SessionID string        `json:"sessionId"`
	Whatsapp  string        `json:"whatsapp,omitempty"`
	Items     []CartItem    `json:"items"`
	Total     float64       `json:"total"`
	Analytics CartAnalytics `json:"analytics"`
}

// CartFileAnalytics mirrors the analyticsData object of the cart file.
// TimeOnSite is stored in milliseconds there, unlike the relational row.
type CartFileAnalytics struct {
	TimeOnSiteMs      int64           `json:"timeOnSite"`
	CategoriesVisited []CategoryVisit `json:"categoriesVisited,omitempty"`
	SearchTerms       []string        `json:"searchTerms,omitempty"`
	ProductsViewed    []ProductView   `json:"productsViewed,omitempty"`
}

// CartFileRecord is one entry of the cart flat file. It is the only source
// carrying webhookSent and contacted, which feed status derivation.
type CartFileRecord struct {
	SessionID     string            `json:"sessionId"`
	Whatsapp      string            `json:"whatsapp,omitempty"`
	CartData      CartData          `json:"cartData"`
	AnalyticsData CartFileAnalytics `json:"analyticsData"`
	LastActivity  time.Time         `json:"lastActivity"`
	WebhookSent   bool              `json:"webhookSent"`
	CreatedAt     time.Time         `json:"createdAt"`
	Contacted     bool              `json:"contacted"`
}

// TrackingFileRecord is one entry of the tracking flat file, written by a
// legacy path. Same shape as a relational row; may lag or diverge from it.
type TrackingFileRecord struct {
	SessionID           string          `json:"sessionId"`
	Whatsapp            string          `json:"whatsapp,omitempty"`
	StartTime           time.Time       `json:"startTime"`
	LastActivity        time.Time       `json:"lastActivity"`
	SearchTerms         []string        `json:"searchTerms,omitempty"`
	CategoriesVisited   []CategoryVisit `json:"categoriesVisited,omitempty"`
	ProductsViewed      []ProductView   `json:"productsViewed,omitempty"`
	HasCart             bool            `json:"hasCart"`
	CartValue           *float64        `json:"cartValue,omitempty"`
	CartItemCount       *int            `json:"cartItemCount,omitempty"`
	Status              string          `json:"status,omitempty"`
	WhatsappCollectedAt *time.Time      `json:"whatsappCollectedAt,omitempty"`
}

// deriveStatus applies the lifecycle rules for sources that carry no
// authoritative status: contacted wins, then inactivity or a sent
// notification marks abandonment.
func deriveStatus(contacted, webhookSent bool, lastActivity, now time.Time) Status {
	if contacted {
		return StatusCompleted
	}
	if now.Sub(lastActivity) > abandonedAfter || webhookSent {
		return StatusAbandoned
	}
	return StatusActive
}

// resolveStatus prefers a valid stored status and falls back to derivation.
func resolveStatus(stored string, lastActivity, now time.Time) Status {
	switch Status(stored) {
	case StatusActive, StatusAbandoned, StatusCompleted:
		return Status(stored)
	}
	return deriveStatus(false, false, lastActivity, now)
}

// normalizePhone strips everything except digits and a leading plus so that
// differently punctuated numbers compare equal.
func normalizePhone(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatWhatsapp renders a normalized number for display. Brazilian numbers
// with a country code get the usual +55 (DD) XXXXX-XXXX layout; anything else
// is returned normalized.
func formatWhatsapp(raw string) string {
	n := strings.TrimPrefix(normalizePhone(raw), "+")
	if strings.HasPrefix(n, "55") && (len(n) == 12 || len(n) == 13) {
		area := n[2:4]
		local := n[4:]
		split := len(local) - 4
		return fmt.Sprintf("+55 (%s) %s-%s", area, local[:split], local[split:])
	}
	if n == "" {
		return ""
	}
	return "+" + n
}

func durationSeconds(from, to time.Time) int64 {
	d := int64(to.Sub(from).Seconds())
	if d < 0 {
		return 0
	}
	return d
}
