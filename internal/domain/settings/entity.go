// internal/domain/settings/entity.go
package settings

// Settings is the store configuration edited from the dashboard.
type Settings struct {
	General       General       `json:"general"`
	Email         Email         `json:"email"`
	Payment       Payment       `json:"payment"`
	Shipping      Shipping      `json:"shipping"`
	Tax           Tax           `json:"tax"`
	Orders        Orders        `json:"orders"`
	Notifications Notifications `json:"notifications"`
}

type General struct {
	SiteName        string `json:"siteName"`
	SiteDescription string `json:"siteDescription,omitempty"`
	ContactEmail    string `json:"contactEmail,omitempty"`
	ContactPhone    string `json:"contactPhone,omitempty"`
	Address         string `json:"address,omitempty"`
	Currency        string `json:"currency,omitempty"`
	Timezone        string `json:"timezone,omitempty"`
	Language        string `json:"language,omitempty"`
}

type Email struct {
	SMTPHost     string `json:"smtpHost,omitempty"`
	SMTPPort     int    `json:"smtpPort,omitempty"`
	SMTPUser     string `json:"smtpUser,omitempty"`
	SMTPPassword string `json:"smtpPassword,omitempty"`
	Encryption   string `json:"encryption,omitempty"`
	FromEmail    string `json:"fromEmail,omitempty"`
	FromName     string `json:"fromName,omitempty"`
}

type Payment struct {
	EnableStripe    bool   `json:"enableStripe"`
	StripePublicKey string `json:"stripePublicKey,omitempty"`
	StripeSecretKey string `json:"stripeSecretKey,omitempty"`
	EnablePaypal    bool   `json:"enablePaypal"`
	PaypalClientID  string `json:"paypalClientId,omitempty"`
	PaypalSecret    string `json:"paypalSecret,omitempty"`
	PaymentMode     string `json:"paymentMode,omitempty"`
	PaymentCurrency string `json:"paymentCurrency,omitempty"`
}

type Shipping struct {
	EnableShipping        bool             `json:"enableShipping"`
	DefaultShippingCost   float64          `json:"defaultShippingCost"`
	FreeShippingThreshold float64          `json:"freeShippingThreshold"`
	ShippingMethods       []ShippingMethod `json:"shippingMethods,omitempty"`
}

type ShippingMethod struct {
	Name          string  `json:"name"`
	Cost          float64 `json:"cost"`
	EstimatedDays string  `json:"estimatedDays,omitempty"`
	Enabled       bool    `json:"enabled"`
}

type Tax struct {
	EnableTax    bool    `json:"enableTax"`
	TaxRate      float64 `json:"taxRate"`
	TaxInclusive bool    `json:"taxInclusive"`
}

type Orders struct {
	OrderPrefix    string  `json:"orderPrefix,omitempty"`
	MinOrderAmount float64 `json:"minOrderAmount"`
	MaxOrderAmount float64 `json:"maxOrderAmount"`
	AutoConfirm    bool    `json:"autoConfirm"`
}

type Notifications struct {
	EnableEmailNotifications bool   `json:"enableEmailNotifications"`
	AdminEmail               string `json:"adminEmail,omitempty"`
	NotifyOnNewOrder         bool   `json:"notifyOnNewOrder"`
	NotifyOnQuoteRequest     bool   `json:"notifyOnQuoteRequest"`
	NotifyOnLowStock         bool   `json:"notifyOnLowStock"`
	LowStockThreshold        int    `json:"lowStockThreshold"`
}

// Mask replaces secret values in redacted settings.
const Mask = "********"

// Redacted returns a copy with secrets blanked, for logs and non-admin views.
func (s Settings) Redacted() Settings {
	mask := func(v string) string {
		if v == "" {
			return ""
		}
		return Mask
	}
	s.Email.SMTPPassword = mask(s.Email.SMTPPassword)
	s.Payment.StripeSecretKey = mask(s.Payment.StripeSecretKey)
	s.Payment.PaypalSecret = mask(s.Payment.PaypalSecret)
	return s
}

// Masked reports whether any secret still holds the mask, i.e. the document
// came back from a redacted view.
func (s Settings) Masked() bool {
	return s.Email.SMTPPassword == Mask ||
		s.Payment.StripeSecretKey == Mask ||
		s.Payment.PaypalSecret == Mask
}

// Unmask puts back the secrets of current wherever s still holds the mask.
func (s Settings) Unmask(current Settings) Settings {
	keep := func(dst *string, src string) {
		if *dst == Mask {
			*dst = src
		}
	}
	keep(&s.Email.SMTPPassword, current.Email.SMTPPassword)
	keep(&s.Payment.StripeSecretKey, current.Payment.StripeSecretKey)
	keep(&s.Payment.PaypalSecret, current.Payment.PaypalSecret)
	return s
}
