package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var inlineSeeds = []string{
	"",
	"int a;\n",
	"/* #private */\nstruct s {\n\tint a;\n\tunion { int b; char *c; } u;\n};\n",
	"typedef struct __wt_session_impl WT_SESSION_IMPL;\n",
	"#define WT_RET(a) do { if ((a) != 0) return (a); } while (0)\n" +
		"int\nf(void)\n{\n\tWT_RET(g());\n\treturn (0);\n}\n",
	"#define CAT(a, b) a ## b\n#define STR(x) #x\n#define V(fmt, ...) p(fmt, __VA_ARGS__)\n" +
		"int x = CAT(a, b) + V(\"%d\", STR(1));\n",
	"#define A B\n#define B A\nint A;\n",
	"static int\nhelper(int *p)\n{\n\treturn (p == NULL ? 0 : *p);\n}\n",
	"extern \"C\" {\nint api(void);\n}\n",
	"enum { X = 1, Y } e;\nint arr[3] = { 1, 2, 3 };\n",
	"struct s { int a; /* } */ int b; } v;\n",
	"{ open group never closed",
	"unterminated \"string\n next",
	"#if 0\nint x;\n#endif\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.c и *.h файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".c" && ext != ".h" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
