package schema

type IpRateWhitelist struct {
	ID          uint   `gorm:"primarykey"`
	OriginOrIP  string // e.g "188.0.2.2"
	Available   bool   `gorm:"index:idx3"` // true means effective
	Description string
}

// Param holds the runtime tunables. Only the row with ID 1 is read.
type Param struct {
	ID          uint   `gorm:"primarykey"`
	RateLimit   int    // requests per RatePeriod and origin/ip
	RatePeriod  string // "S", "M", "H" or "D"
	MaxTransfer int    // max items in one transfer batch
}

var DefaultParam = Param{
	ID:          1,
	RateLimit:   300,
	RatePeriod:  "M",
	MaxTransfer: 100,
}
