// Command profiler builds bundles from a generated site tree in a loop and
// writes CPU, heap, and execution-trace profiles.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand" //nolint:gosec // intentional use for reproducible benchmarks
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"time"

	"github.com/meigma/bundle"
)

type config struct {
	files      int
	fileSize   int
	dirCount   int
	level      int
	pattern    string
	duration   time.Duration
	iterations int
	cpuProfile string
	memProfile string
	traceFile  string
	tempDir    string
	keepTemp   bool
	randomSeed int64
}

type profileStats struct {
	ops     int
	bytes   uint64
	elapsed time.Duration
}

//nolint:gocognit // main function complexity is acceptable for CLI tool
func main() {
	cfg := parseFlags()

	dir, cleanup, err := setupTempDir(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if cleanup != nil {
		defer cleanup() //nolint:errcheck // cleanup errors are non-fatal in profiler
	}

	if err := makeSite(dir, cfg); err != nil {
		log.Fatal(err) //nolint:gocritic // exitAfterDefer is intentional - cleanup is best-effort
	}

	if cfg.cpuProfile != "" {
		cpuFile, cpuErr := os.Create(cfg.cpuProfile)
		if cpuErr != nil {
			log.Fatal(cpuErr)
		}
		if cpuErr = pprof.StartCPUProfile(cpuFile); cpuErr != nil {
			log.Fatal(cpuErr)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = cpuFile.Close()
		}()
	}

	if cfg.traceFile != "" {
		traceFile, traceErr := os.Create(cfg.traceFile)
		if traceErr != nil {
			log.Fatal(traceErr)
		}
		if traceErr = trace.Start(traceFile); traceErr != nil {
			log.Fatal(traceErr)
		}
		defer func() {
			trace.Stop()
			_ = traceFile.Close()
		}()
	}

	stats, err := runProfile(cfg, dir)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile != "" {
		runtime.GC()
		f, err := os.Create(cfg.memProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal(err)
		}
		_ = f.Close()
	}

	fmt.Printf("ops=%d bytes=%d elapsed=%s throughput=%.2f MB/s\n",
		stats.ops,
		stats.bytes,
		stats.elapsed,
		float64(stats.bytes)/(1024*1024)/stats.elapsed.Seconds(),
	)
}

//nolint:gocritic // hugeParam acceptable for config struct in CLI tool
func runProfile(cfg config, root string) (profileStats, error) {
	out := filepath.Join(root, "dist", "profile.zip")
	if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
		return profileStats{}, err
	}

	start := time.Now()
	var stats profileStats
	for {
		if cfg.iterations > 0 && stats.ops >= cfg.iterations {
			break
		}
		if cfg.iterations <= 0 && time.Since(start) >= cfg.duration {
			break
		}
		s, err := bundle.Build(context.Background(), root, out, bundle.WithCompressionLevel(cfg.level))
		if err != nil {
			return profileStats{}, err
		}
		stats.ops++
		stats.bytes += s.Bytes
	}
	stats.elapsed = time.Since(start)
	return stats, nil
}

func parseFlags() config {
	var cfg config
	flag.IntVar(&cfg.files, "files", 512, "number of asset files")
	flag.IntVar(&cfg.fileSize, "file-size", 16<<10, "asset file size in bytes")
	flag.IntVar(&cfg.dirCount, "dir-count", 16, "number of asset directories")
	flag.IntVar(&cfg.level, "level", bundle.DefaultCompression, "deflate level")
	flag.StringVar(&cfg.pattern, "pattern", "compressible", "pattern: compressible or random")
	flag.DurationVar(&cfg.duration, "duration", 10*time.Second, "duration to run (ignored if iterations > 0)")
	flag.IntVar(&cfg.iterations, "iterations", 0, "number of iterations to run")
	flag.StringVar(&cfg.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	flag.StringVar(&cfg.memProfile, "memprofile", "", "write heap profile to file")
	flag.StringVar(&cfg.traceFile, "trace", "", "write trace to file")
	flag.StringVar(&cfg.tempDir, "temp-dir", "", "directory to use for the generated site")
	flag.BoolVar(&cfg.keepTemp, "keep-temp", false, "keep temp dir after run")
	flag.Int64Var(&cfg.randomSeed, "seed", 1, "random seed")
	flag.Parse()
	return cfg
}

//nolint:gocritic // hugeParam acceptable for config struct in CLI tool
func setupTempDir(cfg config) (string, func() error, error) {
	if cfg.tempDir != "" {
		return cfg.tempDir, nil, os.MkdirAll(cfg.tempDir, 0o755) //nolint:gosec // 0o755 is intentional for profiler temp dirs
	}
	dir, err := os.MkdirTemp("", "bundle-profiler-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() error {
		if cfg.keepTemp {
			return nil
		}
		return os.RemoveAll(dir)
	}
	return dir, cleanup, nil
}

// makeSite writes the files of the default layout plus generated assets and
// one font.
//
//nolint:gocritic // hugeParam acceptable for config struct in CLI tool
func makeSite(dir string, cfg config) error {
	root := map[string]string{
		"index.html":  "<!doctype html><title>profile</title>",
		"style.css":   "body{margin:0}",
		"script.js":   "console.log('profile')",
		"fonts/a.ttf": "font",
	}
	for name, content := range root {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // 0o755 is intentional for profiler
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // 0o644 is intentional for profiler test files
			return err
		}
	}

	dirCount := cfg.dirCount
	if dirCount <= 0 {
		dirCount = 1
	}
	rng := rand.New(rand.NewSource(cfg.randomSeed)) //nolint:gosec // intentional use for reproducible benchmarks
	for i := range cfg.files {
		path := filepath.Join(dir, "assets", fmt.Sprintf("dir%02d", i%dirCount), fmt.Sprintf("file%05d.dat", i))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // 0o755 is intentional for profiler
			return err
		}

		content := make([]byte, cfg.fileSize)
		switch cfg.pattern {
		case "random":
			if _, err := rng.Read(content); err != nil {
				return err
			}
		default:
			fillByte := byte('a' + (i % 26))
			for j := range content {
				content[j] = fillByte
			}
			if len(content) > 0 {
				content[0] = byte(i)
			}
		}

		if err := os.WriteFile(path, content, 0o644); err != nil { //nolint:gosec // 0o644 is intentional for profiler test files
			return err
		}
	}
	return nil
}
