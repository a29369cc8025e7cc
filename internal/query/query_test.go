package query

import (
	"net/url"
	"testing"
)

func TestParse_AllParamsPresent(t *testing.T) {
	v := url.Values{}
	v.Set("name", "Pizza")
	v.Set("skip", "20")
	v.Set("size", "10")

	q := Parse(v)

	if q.Name != "Pizza" {
		t.Errorf("Name = %q, want %q", q.Name, "Pizza")
	}
	if q.Skip != 20 {
		t.Errorf("Skip = %d, want 20", q.Skip)
	}
	if q.Limit != 10 {
		t.Errorf("Limit = %d, want 10", q.Limit)
	}
}

func TestParse_EmptyParams_ReturnsZeroValues(t *testing.T) {
	q := Parse(url.Values{})

	if q.Name != "" {
		t.Errorf("Name = %q, want empty", q.Name)
	}
	if q.Skip != 0 {
		t.Errorf("Skip = %d, want 0", q.Skip)
	}
	if q.Limit != 0 {
		t.Errorf("Limit = %d, want 0 (unbounded)", q.Limit)
	}
}

// 非数値のskip/sizeは0（オフセットなし・無制限）に正規化されることを検証
func TestParse_NonNumericSkip_NormalizedToZero(t *testing.T) {
	v := url.Values{}
	v.Set("skip", "abc")
	v.Set("size", "10")

	q := Parse(v)

	if q.Skip != 0 {
		t.Errorf("Skip = %d, want 0", q.Skip)
	}
	if q.Limit != 10 {
		t.Errorf("Limit = %d, want 10", q.Limit)
	}
}

func TestParse_NegativeValues_NormalizedToZero(t *testing.T) {
	v := url.Values{}
	v.Set("skip", "-5")
	v.Set("size", "-1")

	q := Parse(v)

	if q.Skip != 0 {
		t.Errorf("Skip = %d, want 0", q.Skip)
	}
	if q.Limit != 0 {
		t.Errorf("Limit = %d, want 0", q.Limit)
	}
}
