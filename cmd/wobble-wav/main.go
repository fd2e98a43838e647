// Command wobble-wav renders WAV files through the wobble engine.
//
// Usage:
//
//	wobble-wav input.wav output.wav
//	wobble-wav -rate 0.5 -depth 1500 -quality sinc input.wav output.wav
//	wobble-wav -cv modulation.wav input.wav output.wav   # also write the CV track
//	wobble-wav -batch ./dry -out ./wet -jobs 4           # render a directory
//
// The engine is mono. Multichannel input is down-mixed with a warning.
// Each file in batch mode gets its own engine; engines are never shared.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	wobble "github.com/tphakala/go-wobble"
)

const (
	// Frames per processing chunk
	bufferSize = 65536

	// Sample format constants
	monoChannels    = 1
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32
	wavFormatPCM    = 1

	// Conversion constants
	maxInt16          = 32767.0
	maxInt24          = 8388607.0
	maxInt32          = 2147483647.0
	voltsPerFullScale = 5.0 // ±1.0 PCM maps to the ±5 V signal convention
	progressInterval  = 10  // Print progress every N%
	percentScale      = 100

	// CLI defaults
	minRequiredArgs = 2
	defaultSeed     = 1
	outputDirPerm   = 0o755
)

// renderOptions are shared by every file of one invocation.
type renderOptions struct {
	quality  wobble.Quality
	params   wobble.Params
	seed     uint64
	unipolar bool
	tail     bool
	verbose  bool
	progress bool
}

// job names the files of one render.
type job struct {
	input  string
	output string
	cv     string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rate := flag.Float64("rate", wobble.DefaultRate, "Wobble rate in [0, 1]")
	depth := flag.Float64("depth", wobble.DefaultDepth, "Wobble depth in samples")
	color := flag.Float64("color", wobble.DefaultColor, "Reserved, no effect")
	quality := flag.String("quality", "quick", "Converter quality: quick, linear, sinc")
	seed := flag.Uint64("seed", defaultSeed, "Random seed for the modulation")
	cvPath := flag.String("cv", "", "Also write the modulation CV to this WAV file")
	unipolar := flag.Bool("unipolar", false, "Write CV as 0..10 V instead of -5..+5 V")
	tail := flag.Bool("tail", true, "Append silence so the delayed signal is not cut off")
	batch := flag.String("batch", "", "Render every WAV file in this directory")
	outDir := flag.String("out", "", "Output directory for -batch")
	jobs := flag.Int("jobs", runtime.NumCPU(), "Files rendered concurrently in -batch mode")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	q, err := wobble.ParseQuality(*quality)
	if err != nil {
		return err
	}

	opts := renderOptions{
		quality:  q,
		params:   wobble.Params{Rate: *rate, Depth: *depth, Color: *color},
		seed:     *seed,
		unipolar: *unipolar,
		tail:     *tail,
		verbose:  *verbose,
	}

	if *batch != "" {
		if *outDir == "" {
			return errors.New("-batch requires -out")
		}
		return runBatch(context.Background(), *batch, *outDir, *jobs, opts)
	}

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [options] -batch dir -out dir\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return errors.New("insufficient arguments")
	}

	if *verbose {
		log.Printf("Input: %s", args[0])
		log.Printf("Output: %s", args[1])
		log.Printf("Quality: %s", q)
		log.Printf("Params: rate=%.3f depth=%.0f color=%.2f", *rate, *depth, *color)
	}

	opts.progress = true
	start := time.Now()
	stats, err := renderFile(context.Background(), job{input: args[0], output: args[1], cv: *cvPath}, opts)
	if err != nil {
		return err
	}

	printSummary(stats, time.Since(start))
	return nil
}

// runBatch renders every WAV file of inDir into outDir, at most jobs at a
// time. The first failure cancels the remaining renders.
func runBatch(ctx context.Context, inDir, outDir string, jobs int, opts renderOptions) error {
	inputs, err := listWAVFiles(inDir)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no WAV files in %s", inDir)
	}

	if err := os.MkdirAll(outDir, outputDirPerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	start := time.Now()
	results := make([]*renderStats, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, jobs))

	for i, input := range inputs {
		fileOpts := opts
		fileOpts.seed = opts.seed + uint64(i)
		fileOpts.progress = false

		g.Go(func() error {
			st, err := renderFile(ctx, job{
				input:  input,
				output: filepath.Join(outDir, filepath.Base(input)),
			}, fileOpts)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(input), err)
			}
			results[i] = st
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	for _, st := range results {
		printSummary(st, elapsed)
	}
	fmt.Printf("Rendered %d files in %.2fs\n", len(results), elapsed.Seconds())

	return nil
}

func printSummary(stats *renderStats, elapsed time.Duration) {
	fmt.Printf("Wobbled %s -> %s\n", filepath.Base(stats.input), filepath.Base(stats.output))
	fmt.Printf("  %d Hz, %d channel(s), %d-bit, %s converter\n",
		stats.sampleRate, stats.channels, stats.bitDepth, stats.algorithm)
	fmt.Printf("  %d frames -> %d frames\n", stats.inputFrames, stats.outputFrames)
	fmt.Printf("  Dropped: %d, starved: %d, last ratio: %.4f\n",
		stats.dropped, stats.starved, stats.lastRatio)
	if secs := elapsed.Seconds(); secs > 0 {
		fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
			secs, float64(stats.inputFrames)/float64(stats.sampleRate)/secs)
	}
}
