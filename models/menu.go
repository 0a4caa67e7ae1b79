package models

// MenuItem is one dish on the catalog. Prices are in won.
type MenuItem struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"desc" yaml:"desc"`
	Price       int64    `json:"price" yaml:"price"`
	Spicy       bool     `json:"spicy" yaml:"spicy"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
}

// ExtraOption is an add-on that can be attached to any menu item.
type ExtraOption struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Price int64  `json:"price" yaml:"price"`
}

// StoreInfo is the shop card shown to customers.
type StoreInfo struct {
	Name    string `json:"name" yaml:"name"`
	Phone   string `json:"phone" yaml:"phone"`
	Address string `json:"address" yaml:"address"`
	Hours   string `json:"hours" yaml:"hours"`
	Notice  string `json:"notice" yaml:"notice"`
}

type SpiceLevel string

const (
	SpiceMild   SpiceLevel = "mild"
	SpiceNormal SpiceLevel = "normal"
	SpiceHot    SpiceLevel = "hot"
)

// Label returns the Korean label used on receipts and in the bot.
func (s SpiceLevel) Label() string {
	switch s {
	case SpiceMild:
		return "순한맛"
	case SpiceNormal:
		return "보통"
	case SpiceHot:
		return "매운맛"
	default:
		return string(s)
	}
}

// AllowedSpice returns the spice levels offered for the item, mildest first.
func (m MenuItem) AllowedSpice() []SpiceLevel {
	if m.Spicy {
		return []SpiceLevel{SpiceMild, SpiceNormal, SpiceHot}
	}
	return []SpiceLevel{SpiceMild, SpiceNormal}
}

// DefaultSpice is "normal" for spicy dishes and "mild" for everything else.
func (m MenuItem) DefaultSpice() SpiceLevel {
	if m.Spicy {
		return SpiceNormal
	}
	return SpiceMild
}

func (m MenuItem) AllowsSpice(s SpiceLevel) bool {
	for _, a := range m.AllowedSpice() {
		if a == s {
			return true
		}
	}
	return false
}
