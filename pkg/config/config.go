package config

import (
	"slices"
	"time"
)

type DB struct {
	Url            string `envconfig:"URL" default:"market.db"`
	Driver         string `envconfig:"DRIVER" default:""` // postgres or sqlite, inferred from Url when empty
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:""`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type Redis struct {
	URL       string `envconfig:"URL" default:""`
	KeyPrefix string `envconfig:"KEY_PREFIX" default:"pointmarket:"`
	Stream    string `envconfig:"STREAM" default:"pointmarket-events"`
	Group     string `envconfig:"GROUP" default:"pointmarket"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Market struct {
	AdminIDs           []string `envconfig:"ADMIN_IDS" default:""`
	AllowedLinkSchemes []string `envconfig:"ALLOWED_LINK_SCHEMES" default:"https://,http://"`
	BlockedRecipients  []string `envconfig:"BLOCKED_RECIPIENTS" default:""`
	ListLimit          int      `envconfig:"LIST_LIMIT" default:"25"`
}

// IsAdmin reports whether id is an administrative principal.
func (m *Market) IsAdmin(id string) bool {
	return id != "" && slices.Contains(m.AdminIDs, id)
}

// IsBlockedRecipient reports whether id may not receive transfers.
func (m *Market) IsBlockedRecipient(id string) bool {
	return slices.Contains(m.BlockedRecipients, id)
}

type Reward struct {
	DailyAmount int64  `envconfig:"DAILY_AMOUNT" default:"10"`
	Timezone    string `envconfig:"TIMEZONE" default:"UTC"`
}

// Location resolves Timezone. Load rejects unknown names, so the UTC
// fallback only applies to a Reward built in code.
func (r *Reward) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type Leaderboard struct {
	Limit    int           `envconfig:"LIMIT" default:"10"`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"30s"`
}

type Notify struct {
	WebhookURL string        `envconfig:"WEBHOOK_URL" default:""`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"5s"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[pointmarket]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env         string       `envconfig:"APP_ENV" default:"development"`
	Server      *Server      `envconfig:"SERVER"`
	Log         *Log         `envconfig:"LOG"`
	DB          *DB          `envconfig:"DATABASE"`
	Auth        *Auth        `envconfig:"AUTH"`
	Redis       *Redis       `envconfig:"REDIS"`
	RateLimit   *RateLimit   `envconfig:"RATE_LIMIT"`
	Market      *Market      `envconfig:"MARKET"`
	Reward      *Reward      `envconfig:"REWARD"`
	Leaderboard *Leaderboard `envconfig:"LEADERBOARD"`
	Notify      *Notify      `envconfig:"NOTIFY"`
}
