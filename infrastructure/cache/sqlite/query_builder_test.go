package sqlite

import (
	"strings"
	"testing"
)

func TestQueryBuilder_Select(t *testing.T) {
	query, params, err := NewQueryBuilder().
		Select("value").
		From("render_cache").
		Where("key", "=", "k").
		Live("expiry", 100).
		Build()

	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	want := "SELECT value FROM render_cache WHERE key = ? AND (expiry = 0 OR expiry > ?)"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(params) != 2 || params[0] != "k" || params[1] != int64(100) {
		t.Errorf("params = %v", params)
	}
}

func TestQueryBuilder_SelectAllAndCount(t *testing.T) {
	query, _, _ := NewQueryBuilder().Select().From("t").Build()
	if query != "SELECT * FROM t" {
		t.Errorf("query = %q", query)
	}

	query, _, _ = NewQueryBuilder().Count().From("t").Expired("expiry", 1).Build()
	if query != "SELECT COUNT(*) FROM t WHERE (expiry != 0 AND expiry <= ?)" {
		t.Errorf("query = %q", query)
	}
}

func TestQueryBuilder_Upsert(t *testing.T) {
	query, params, err := NewQueryBuilder().
		InsertOrReplace("render_cache").
		Values([]string{"key", "value", "expiry"}, []interface{}{"k", []byte("v"), int64(0)}).
		Build()

	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if query != "INSERT OR REPLACE INTO render_cache (key, value, expiry) VALUES (?, ?, ?)" {
		t.Errorf("query = %q", query)
	}
	if len(params) != 3 {
		t.Errorf("len(params) = %d, want 3", len(params))
	}
}

func TestQueryBuilder_RejectsUnsafeInput(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
	}{
		{"column injection", func() error {
			_, _, err := NewQueryBuilder().Select("value; DROP TABLE render_cache;").From("t").Build()
			return err
		}},
		{"table injection", func() error {
			_, _, err := NewQueryBuilder().Delete("t; --").Build()
			return err
		}},
		{"operator", func() error {
			_, _, err := NewQueryBuilder().Select().From("t").Where("key", "LIKE", "%").Build()
			return err
		}},
		{"value count mismatch", func() error {
			_, _, err := NewQueryBuilder().InsertOrReplace("t").Values([]string{"a", "b"}, []interface{}{1}).Build()
			return err
		}},
		{"long name", func() error {
			_, _, err := NewQueryBuilder().Select().From(strings.Repeat("a", maxNameLength+1)).Build()
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.build(); err == nil {
				t.Error("expected Build to fail")
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"normal", "richview:0:md:abc", false},
		{"empty", "", true},
		{"too long", strings.Repeat("k", maxKeyLength+1), true},
		{"null byte", "a\x00b", true},
		{"suspicious but allowed", "a'; --", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestTruncateKey(t *testing.T) {
	if got := truncateKey("short"); got != "short" {
		t.Errorf("truncateKey(short) = %q", got)
	}
	if got := truncateKey(strings.Repeat("x", 60)); len(got) != 53 {
		t.Errorf("truncated length = %d, want 53", len(got))
	}
}
