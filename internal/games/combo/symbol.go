// Package combo implements the Funny Combination memory game: a sequence of
// symbols grows by one per level, is played back on a fixed timer, and must
// be repeated by the player in order.
//
// The game holds pure state-machine logic with no terminal dependencies.
// The platform layer subscribes to snapshots and forwards key presses.
package combo

// Symbol is one member of the fixed five-symbol alphabet.
type Symbol int

const (
	SymbolNone Symbol = iota
	SymbolSmile
	SymbolHeart
	SymbolStar
	SymbolFire
	SymbolRocket
)

// Alphabet is the ordered set of symbols a sequence is drawn from.
// Button order on screen follows this order (keys 1-5).
var Alphabet = [...]Symbol{SymbolSmile, SymbolHeart, SymbolStar, SymbolFire, SymbolRocket}

// Valid reports whether s belongs to the alphabet.
func (s Symbol) Valid() bool {
	return s >= SymbolSmile && s <= SymbolRocket
}

// String returns the symbol name.
func (s Symbol) String() string {
	switch s {
	case SymbolSmile:
		return "Smile"
	case SymbolHeart:
		return "Heart"
	case SymbolStar:
		return "Star"
	case SymbolFire:
		return "Fire"
	case SymbolRocket:
		return "Rocket"
	default:
		return "None"
	}
}

// Emoji returns the glyph shown in emoji-capable terminals.
func (s Symbol) Emoji() string {
	switch s {
	case SymbolSmile:
		return "😊"
	case SymbolHeart:
		return "❤️"
	case SymbolStar:
		return "⭐"
	case SymbolFire:
		return "🔥"
	case SymbolRocket:
		return "🚀"
	default:
		return "?"
	}
}

// ASCII returns a single-width fallback glyph.
func (s Symbol) ASCII() string {
	switch s {
	case SymbolSmile:
		return ":)"
	case SymbolHeart:
		return "<3"
	case SymbolStar:
		return "**"
	case SymbolFire:
		return "~~"
	case SymbolRocket:
		return "=>"
	default:
		return "??"
	}
}

// SymbolForKey maps the keys "1".."5" to the alphabet.
func SymbolForKey(key string) (Symbol, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '5' {
		return SymbolNone, false
	}
	return Alphabet[key[0]-'1'], true
}
