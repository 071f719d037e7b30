package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	detector := NewDetector()

	tests := []struct {
		name string
		code string
		want string
	}{
		{"swift ui", "import SwiftUI\n\nstruct ContentView: View {}", "swift"},
		{"swift guard", "func load() -> Int {\n  guard let x = y else { return 0 }\n}", "swift"},
		{"go", "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}", "go"},
		{"go short assign", "func add() {\n\tx := 1\n}", "go"},
		{"rust", "fn main() {\n    let mut x = 5;\n    println!(\"{}\", x);\n}", "rust"},
		{"python", "def hello():\n    print('hi')", "python"},
		{"javascript", "const x = () => { console.log('hi') }", "javascript"},
		{"typescript", "interface User { name: string }\nconst f = (u: User) => u.name", "typescript"},
		{"java", "public class Main {\n  public static void main(String[] args) {}\n}", "java"},
		{"cpp", "#include <iostream>\nint main() { std::cout << 1; }", "cpp"},
		{"php", "<?php echo 'hi'; ?>", "php"},
		{"bash", "#!/bin/bash\necho hello", "bash"},
		{"sql", "SELECT * FROM users WHERE id = 1", "sql"},
		{"html", "<div class=\"x\">hi</div>", "html"},
		{"json", "{\"name\": \"v2ex\"}", "json"},
		{"dockerfile", "FROM alpine\nRUN apk add git", "dockerfile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detector.Detect(tt.code)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetector_KnownLimitationCReportedAsCpp(t *testing.T) {
	got, ok := NewDetector().Detect("#include <stdio.h>\nint main() { printf(\"hi\"); }")

	assert.True(t, ok)
	assert.Equal(t, "cpp", got)
}

func TestDetector_NoMatch(t *testing.T) {
	detector := NewDetector()

	for _, code := range []string{"", "   \n", "hello world", "just some prose here"} {
		got, ok := detector.Detect(code)
		assert.False(t, ok, "Detect(%q)", code)
		assert.Empty(t, got)
	}
}

func TestDetector_IsPure(t *testing.T) {
	detector := NewDetector()
	code := "fn main() {}"

	first, _ := detector.Detect(code)
	second, _ := detector.Detect(code)

	assert.Equal(t, first, second)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "C++", DisplayName("cpp"))
	assert.Equal(t, "C++", DisplayName("c++"))
	assert.Equal(t, "JavaScript", DisplayName("js"))
	assert.Equal(t, "Objective-C", DisplayName("objc"))
	assert.Equal(t, "ELIXIR", DisplayName("elixir"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "go", Normalize("Golang"))
	assert.Equal(t, "python", Normalize(" py "))
	assert.Equal(t, "haskell", Normalize("Haskell"))
	assert.True(t, IsKnown("TS"))
	assert.False(t, IsKnown("haskell"))
}

func TestLanguages(t *testing.T) {
	langs := Languages()

	assert.Contains(t, langs, "swift")
	assert.Contains(t, langs, "go")
	assert.IsIncreasing(t, langs)
}
