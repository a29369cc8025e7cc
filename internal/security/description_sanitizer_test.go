package security

import "testing"

func TestDescriptionSanitizer_RemovesScriptTags(t *testing.T) {
	s := NewDescriptionSanitizer()

	got := s.Sanitize(`<p>tasty</p><script>alert("xss")</script>`)
	if got != "<p>tasty</p>" {
		t.Errorf("Sanitize() = %q, want %q", got, "<p>tasty</p>")
	}
}

func TestDescriptionSanitizer_RemovesEventHandlers(t *testing.T) {
	s := NewDescriptionSanitizer()

	got := s.Sanitize(`<p onclick="steal()">tasty</p>`)
	if got != "<p>tasty</p>" {
		t.Errorf("Sanitize() = %q, want %q", got, "<p>tasty</p>")
	}
}

func TestDescriptionSanitizer_KeepsAllowedFormatting(t *testing.T) {
	s := NewDescriptionSanitizer()

	in := "<p><strong>fresh</strong> and <em>hot</em></p><ul><li>cheese</li></ul>"
	got := s.Sanitize(in)
	if got != in {
		t.Errorf("Sanitize() = %q, want unchanged %q", got, in)
	}
}

// リンクと画像は説明文では許可しない
func TestDescriptionSanitizer_StripsLinksAndImages(t *testing.T) {
	s := NewDescriptionSanitizer()

	got := s.Sanitize(`see <a href="https://evil.example">here</a><img src="https://x/y.png">`)
	if got != "see here" {
		t.Errorf("Sanitize() = %q, want %q", got, "see here")
	}
}

func TestDescriptionSanitizer_EmptyInput_ReturnsEmpty(t *testing.T) {
	s := NewDescriptionSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}

// 同一入力に対して常に同一出力（冪等性）
func TestDescriptionSanitizer_Idempotent(t *testing.T) {
	s := NewDescriptionSanitizer()

	once := s.Sanitize(`<p onclick="x">a</p><script>b</script>`)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("not idempotent: first %q, second %q", once, twice)
	}
}
