package model

import (
	"sort"
	"strings"
)

// Built-in category names.
const (
	CategoryFood        = "Food"
	CategoryTransport   = "Transport"
	CategoryBooks       = "Books"
	CategoryFun         = "Fun"
	CategoryBills       = "Bills"
	CategoryOther       = "Other"
	CategoryFees        = "Fees"
	CategoryScholarship = "Scholarship"
	CategoryAllowance   = "Allowance"
)

// UnknownColor is shown for category names that are neither built-in nor custom.
const UnknownColor = "#A0AEC0"

// DefaultCustomColor is assigned to new custom categories when no color is chosen.
const DefaultCustomColor = "#A0AEC0"

// Icon keys available to custom categories.
const (
	IconStar     = "Star"
	IconHeart    = "Heart"
	IconMusic    = "Music"
	IconShopping = "Shopping"
	IconWork     = "Work"
	IconGift     = "Gift"
	IconCoffee   = "Coffee"
	IconPhone    = "Phone"
	IconHome     = "Home"
	IconOther    = "Other"
)

// CustomIcons lists the icon keys a custom category may use, in display order.
var CustomIcons = []string{
	IconStar, IconHeart, IconMusic, IconShopping, IconWork,
	IconGift, IconCoffee, IconPhone, IconHome, IconOther,
}

// IsCustomIcon reports whether key is one of CustomIcons.
func IsCustomIcon(key string) bool {
	for _, k := range CustomIcons {
		if k == key {
			return true
		}
	}
	return false
}

// BuiltinCategory is a category shipped with the application.
type BuiltinCategory struct {
	Name    string
	IconKey string
	Color   string
	Income  bool
}

var builtinCategories = []BuiltinCategory{
	{Name: CategoryFood, IconKey: "Utensils", Color: "#FF6B6B"},
	{Name: CategoryTransport, IconKey: "Bus", Color: "#4ECDC4"},
	{Name: CategoryBooks, IconKey: "BookOpen", Color: "#45B7D1"},
	{Name: CategoryFun, IconKey: "PartyPopper", Color: "#96CEB4"},
	{Name: CategoryBills, IconKey: "Receipt", Color: "#FFEEAD"},
	{Name: CategoryOther, IconKey: "MoreHorizontal", Color: "#D4D4D4"},
	{Name: CategoryFees, IconKey: "CircleDollarSign", Color: "#FF9F43"},
	{Name: CategoryScholarship, IconKey: "GraduationCap", Color: "#10B981", Income: true},
	{Name: CategoryAllowance, IconKey: "Wallet", Color: "#3B82F6", Income: true},
}

// BuiltinCategories returns the built-in categories in display order.
func BuiltinCategories() []BuiltinCategory {
	out := make([]BuiltinCategory, len(builtinCategories))
	copy(out, builtinCategories)
	return out
}

// CustomCategory is a user-defined category. Custom categories are only ever added.
type CustomCategory struct {
	ID      string
	Name    string
	IconKey string
	Color   string
}

// CategoryKind tags how a category name was resolved.
type CategoryKind int

const (
	// KindUnknown is a name that matches nothing in the catalog.
	KindUnknown CategoryKind = iota
	// KindBuiltin is a built-in category.
	KindBuiltin
	// KindCustom is a user-defined category.
	KindCustom
)

func (k CategoryKind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// CategoryInfo is the display information for a category name.
type CategoryInfo struct {
	Name    string
	IconKey string
	Color   string
	Kind    CategoryKind
}

// Catalog resolves category names against the built-ins and a set of custom categories.
// Built-ins win over a custom category with the same name.
type Catalog struct {
	custom []CustomCategory
}

// NewCatalog returns a catalog that knows about the given custom categories.
func NewCatalog(custom []CustomCategory) *Catalog {
	c := make([]CustomCategory, len(custom))
	copy(c, custom)
	return &Catalog{custom: c}
}

// Resolve returns the display information for name. Unresolvable names are not an error.
func (c *Catalog) Resolve(name string) CategoryInfo {
	for _, b := range builtinCategories {
		if b.Name == name {
			return CategoryInfo{Name: b.Name, IconKey: b.IconKey, Color: b.Color, Kind: KindBuiltin}
		}
	}
	if c != nil {
		for _, cc := range c.custom {
			if cc.Name == name {
				icon := cc.IconKey
				if !IsCustomIcon(icon) {
					icon = IconOther
				}
				return CategoryInfo{Name: cc.Name, IconKey: icon, Color: cc.Color, Kind: KindCustom}
			}
		}
	}
	return CategoryInfo{Name: name, IconKey: IconOther, Color: UnknownColor, Kind: KindUnknown}
}

// Names returns every known category name: built-ins first, then custom ones sorted by name.
func (c *Catalog) Names() []string {
	if c == nil {
		c = &Catalog{}
	}
	names := make([]string, 0, len(builtinCategories)+len(c.custom))
	for _, b := range builtinCategories {
		names = append(names, b.Name)
	}
	custom := make([]string, 0, len(c.custom))
	for _, cc := range c.custom {
		custom = append(custom, cc.Name)
	}
	sort.Strings(custom)
	return append(names, custom...)
}

// Has reports whether name resolves to a built-in or custom category, ignoring case.
func (c *Catalog) Has(name string) bool {
	for _, n := range c.Names() {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
