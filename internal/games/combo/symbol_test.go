package combo

import "testing"

func TestAlphabet(t *testing.T) {
	seen := make(map[Symbol]bool)
	glyphs := make(map[string]bool)
	for _, s := range Alphabet {
		if !s.Valid() {
			t.Errorf("%v should be valid", s)
		}
		if seen[s] {
			t.Errorf("Duplicate symbol %v", s)
		}
		seen[s] = true
		if glyphs[s.Emoji()] {
			t.Errorf("Duplicate glyph %q", s.Emoji())
		}
		glyphs[s.Emoji()] = true
	}
	if len(seen) != 5 {
		t.Errorf("Expected 5 symbols, got %d", len(seen))
	}
	if SymbolNone.Valid() {
		t.Error("SymbolNone should not be valid")
	}
}

func TestSymbolForKey(t *testing.T) {
	for i, s := range Alphabet {
		key := string(rune('1' + i))
		got, ok := SymbolForKey(key)
		if !ok || got != s {
			t.Errorf("Key %q: expected %v, got %v", key, s, got)
		}
	}

	for _, key := range []string{"0", "6", "a", "", "12"} {
		if _, ok := SymbolForKey(key); ok {
			t.Errorf("Key %q should not map to a symbol", key)
		}
	}
}
