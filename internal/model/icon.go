package model

import "strings"

// Icon is the closed set of task glyphs. Unknown keys resolve to IconTarget.
type Icon string

const (
	IconMusic       Icon = "Music"
	IconBookOpen    Icon = "BookOpen"
	IconDumbbell    Icon = "Dumbbell"
	IconBrain       Icon = "Brain"
	IconTarget      Icon = "Target"
	IconShoppingBag Icon = "ShoppingBag"
	IconZap         Icon = "Zap"
	IconMoon        Icon = "Moon"
	IconLaptop      Icon = "Laptop"
	IconBriefcase   Icon = "Briefcase"
)

var iconGlyphs = map[Icon]string{
	IconMusic:       "♪",
	IconBookOpen:    "📖",
	IconDumbbell:    "🏋",
	IconBrain:       "🧠",
	IconTarget:      "◎",
	IconShoppingBag: "🛍",
	IconZap:         "⚡",
	IconMoon:        "☾",
	IconLaptop:      "💻",
	IconBriefcase:   "💼",
}

func Icons() []Icon {
	return []Icon{
		IconMusic, IconBookOpen, IconDumbbell, IconBrain, IconTarget,
		IconShoppingBag, IconZap, IconMoon, IconLaptop, IconBriefcase,
	}
}

func (i Icon) IsValid() bool {
	_, ok := iconGlyphs[i]
	return ok
}

// ParseIcon matches case-insensitively and falls back to IconTarget.
func ParseIcon(key string) Icon {
	trimmed := strings.TrimSpace(key)
	if Icon(trimmed).IsValid() {
		return Icon(trimmed)
	}
	for _, icon := range Icons() {
		if strings.EqualFold(string(icon), trimmed) {
			return icon
		}
	}
	return IconTarget
}

func (i Icon) Glyph() string {
	if g, ok := iconGlyphs[i]; ok {
		return g
	}
	return iconGlyphs[IconTarget]
}

func (i Icon) String() string {
	return string(i)
}
