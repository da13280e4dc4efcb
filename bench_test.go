package bundle

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/meigma/bundle/internal/testutil"
)

type benchPattern string

const (
	benchPatternCompressible benchPattern = "compressible"
	benchPatternRandom       benchPattern = "random"

	benchDirCount = 8
)

func BenchmarkBuild(b *testing.B) {
	cases := []struct {
		name      string
		fileCount int
		fileSize  int
		level     int
		pattern   benchPattern
	}{
		{"files=128/size=16k/default/compressible", 128, 16 << 10, DefaultCompression, benchPatternCompressible},
		{"files=128/size=16k/speed/compressible", 128, 16 << 10, BestSpeed, benchPatternCompressible},
		{"files=128/size=16k/default/random", 128, 16 << 10, DefaultCompression, benchPatternRandom},
		{"files=1024/size=1k/default/compressible", 1024, 1 << 10, DefaultCompression, benchPatternCompressible},
	}

	for _, bc := range cases {
		b.Run(bc.name, func(b *testing.B) {
			root := testutil.Site(b)
			makeBenchAssets(b, root, bc.fileCount, bc.fileSize, bc.pattern)
			out := filepath.Join(b.TempDir(), "bench.zip")

			b.SetBytes(int64(bc.fileCount * bc.fileSize))
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				if _, err := Build(context.Background(), root, out, WithCompressionLevel(bc.level)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// makeBenchAssets adds fileCount files spread over benchDirCount
// subdirectories of assets/.
func makeBenchAssets(b *testing.B, root string, fileCount, fileSize int, pattern benchPattern) {
	b.Helper()
	rng := rand.New(rand.NewSource(1)) //nolint:gosec // intentional use for reproducible benchmarks
	for i := range fileCount {
		path := filepath.Join(root, "assets", fmt.Sprintf("dir%02d", i%benchDirCount), fmt.Sprintf("sprite%05d.png", i))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			b.Fatal(err)
		}
		content := make([]byte, fileSize)
		if pattern == benchPatternRandom {
			rng.Read(content)
		} else {
			for j := range content {
				content[j] = byte('a' + (i % 26))
			}
		}
		if err := os.WriteFile(path, content, 0o644); err != nil { //nolint:gosec // 0o644 is intentional for benchmark files
			b.Fatal(err)
		}
	}
}
