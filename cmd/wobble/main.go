// Command wobble inspects the wobble engine, renders a demonstration signal
// through it or plays it live on the default audio device.
//
// Usage:
//
//	wobble                          # print engine info
//	wobble -demo -source logistic   # render and analyse 5 s of audio
//	wobble -play -rate 0.6          # listen to the wobble on a sine
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	wobble "github.com/tphakala/go-wobble"
	"github.com/tphakala/go-wobble/internal/analysis"
	"github.com/tphakala/go-wobble/internal/playback"
	"github.com/tphakala/go-wobble/internal/source"
)

type options struct {
	quality    wobble.Quality
	params     wobble.Params
	seed       uint64
	sampleRate int
	duration   float64
	source     string
	unipolar   bool
	verbose    bool
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		quality    = flag.String("quality", "quick", "Converter quality: quick, linear, sinc")
		rate       = flag.Float64("rate", wobble.DefaultRate, "Wobble rate in [0, 1]")
		depth      = flag.Float64("depth", wobble.DefaultDepth, "Wobble depth in samples")
		color      = flag.Float64("color", wobble.DefaultColor, "Reserved, no effect")
		seed       = flag.Uint64("seed", defaultSeed, "Random seed for the modulation")
		sampleRate = flag.Int("sample-rate", defaultSampleRate, "Sample rate in Hz")
		duration   = flag.Float64("duration", defaultDuration, "Seconds to render or play")
		src        = flag.String("source", defaultSource, "Demo signal: sine, logistic, spring")
		unipolar   = flag.Bool("unipolar", false, "Report CV as 0..10 V instead of -5..+5 V")
		demo       = flag.Bool("demo", false, "Render a demo signal and print an analysis")
		play       = flag.Bool("play", false, "Play the demo signal live")
		verbose    = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	q, err := wobble.ParseQuality(*quality)
	if err != nil {
		return err
	}

	opts := options{
		quality:    q,
		params:     wobble.Params{Rate: *rate, Depth: *depth, Color: *color},
		seed:       *seed,
		sampleRate: *sampleRate,
		duration:   *duration,
		source:     *src,
		unipolar:   *unipolar,
		verbose:    *verbose,
	}

	e, err := newEngine(opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	printInfo(e.Info())

	switch {
	case *play:
		return runPlay(e, opts)
	case *demo:
		return runDemo(e, opts)
	default:
		return nil
	}
}

func newEngine(opts options) (*wobble.Engine, error) {
	cfg := wobble.DefaultConfig()
	cfg.Quality = opts.quality
	cfg.Random = wobble.NewRand(opts.seed)
	cfg.CVUnipolar = opts.unipolar

	return wobble.New(cfg)
}

func newGenerator(name string, sampleRate float64, seed uint64) (source.Generator, error) {
	switch name {
	case "sine":
		return source.NewSine(sineFrequency, sampleRate, sineAmplitude), nil
	case "logistic":
		return source.NewLogisticMap(logisticFrequency, sampleRate, logisticGrowth), nil
	case "spring":
		r := rand.New(rand.NewPCG(seed, ^seed))
		return source.NewSpring(springFrequency, sampleRate, springChaos, r), nil
	default:
		return nil, fmt.Errorf("unknown source %q (valid: sine, logistic, spring)", name)
	}
}

func printInfo(info wobble.Info) {
	fmt.Printf("Wobble engine:\n")
	fmt.Printf("  Converter: %s\n", info.Algorithm)
	fmt.Printf("  Latency: %d samples\n", info.Latency)
	fmt.Printf("  History: %d samples, queue: %d samples\n", info.HistorySize, info.QueueSize)
	fmt.Printf("  Base offset: %d samples, max depth: %.0f samples\n", info.BaseOffset, info.MaxDepth)
	fmt.Printf("  CV range: %+.0f..%+.0f V\n", info.CVRangeVolts[0], info.CVRangeVolts[1])
	fmt.Printf("  Memory usage: %.2f KB\n", float64(info.MemoryUsage)/bytesPerKilobyte)
	fmt.Printf("  SIMD: %s\n", info.SIMD)
}

// render runs n samples of gen through e and returns input, output and CV.
func render(e *wobble.Engine, gen source.Generator, n int, p wobble.Params) (in, out, cv []float64) {
	in = make([]float64, n)
	out = make([]float64, n)
	cv = make([]float64, n)

	source.Fill(gen, in)
	e.ProcessBlock(in, out, cv, p)

	return in, out, cv
}

func runDemo(e *wobble.Engine, opts options) error {
	gen, err := newGenerator(opts.source, float64(opts.sampleRate), opts.seed)
	if err != nil {
		return err
	}

	n := int(opts.duration * float64(opts.sampleRate))
	if n <= 0 {
		return errors.New("duration must be positive")
	}

	start := time.Now()
	in, out, cv := render(e, gen, n, opts.params)
	elapsed := time.Since(start)

	p := opts.params.Sanitized(wobble.DefaultMaxDepth)
	maxLag := e.Latency() + int(p.Depth) + delaySearchMargin
	delay, err := analysis.EstimateDelay(in, out, maxLag)
	if err != nil {
		return err
	}

	stats := e.Stats()

	fmt.Printf("\nRendered %d samples of %s at %d Hz\n", n, opts.source, opts.sampleRate)
	fmt.Printf("  Params: rate=%.3f depth=%.0f color=%.2f\n", p.Rate, p.Depth, p.Color)
	fmt.Printf("  Estimated delay: %d samples (%.1f ms)\n", delay, 1000*float64(delay)/float64(opts.sampleRate))
	fmt.Printf("  Input:  %s\n", analysis.Summarize(in))
	fmt.Printf("  Output: %s\n", analysis.Summarize(out))
	fmt.Printf("  CV:     %s\n", analysis.Summarize(cv))
	fmt.Printf("  Refills: %d, last ratio: %.4f, dropped: %d, starved: %d\n",
		stats.Refills, stats.LastRatio, stats.Dropped, stats.Starved)
	fmt.Printf("  Duration: %.3fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(), float64(n)/float64(opts.sampleRate)/elapsed.Seconds())

	if opts.verbose && delay < len(in) {
		sim, err := analysis.Similarity(in[:len(in)-delay], out[delay:])
		if err == nil {
			log.Printf("Correlation with input at estimated delay: %.4f", sim)
		}
	}

	return nil
}

func runPlay(e *wobble.Engine, opts options) error {
	gen, err := newGenerator(opts.source, float64(opts.sampleRate), opts.seed)
	if err != nil {
		return err
	}

	// The engine is only touched from the audio callback from here on.
	p := opts.params
	player, err := playback.New(opts.sampleRate, func() float32 {
		out, _ := e.Process(gen.Next(), p)
		return float32(out)
	})
	if err != nil {
		return err
	}

	if opts.verbose {
		log.Printf("Playing %s for %.1fs", opts.source, opts.duration)
	}

	player.Start()
	time.Sleep(time.Duration(opts.duration * float64(time.Second)))

	return player.Close()
}
