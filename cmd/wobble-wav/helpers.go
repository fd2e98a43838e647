package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"golang.org/x/term"

	wobble "github.com/tphakala/go-wobble"
	"github.com/tphakala/go-wobble/internal/simdops"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	// Duration is only used for progress reporting.
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    bitDepth,
		totalFrames: int64(duration.Seconds() * float64(format.SampleRate)),
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// wavOutputWriter wraps an output file and its mono encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates a mono PCM WAV file.
func createWAVOutput(path string, sampleRate, bitDepth int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, monoChannels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: monoChannels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes PCM samples to the output file.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	w.buf.Data = samples
	return w.encoder.Write(w.buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// downmixInto averages interleaved int samples into dst as normalized mono.
// It returns the number of frames written.
func downmixInto(data []int, dst []float64, numChannels int, invMaxVal float64) int {
	frames := min(len(data)/numChannels, len(dst))

	if numChannels == monoChannels {
		for i := range frames {
			dst[i] = float64(data[i]) * invMaxVal
		}
		return frames
	}

	scale := invMaxVal / float64(numChannels)
	for i := range frames {
		sum := 0
		for _, s := range data[i*numChannels : (i+1)*numChannels] {
			sum += s
		}
		dst[i] = float64(sum) * scale
	}
	return frames
}

// quantizeInto clamps normalized samples to [-1, 1] and converts them to
// PCM integers in dst. It returns the number of samples written.
func quantizeInto(src []float64, dst []int, maxVal float64) int {
	n := min(len(src), len(dst))
	for i := range n {
		s := math.Max(-1, math.Min(1, src[i]))
		dst[i] = int(math.Round(s * maxVal))
	}
	return n
}

// listWAVFiles returns the .wav files of dir in lexical order.
func listWAVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)

	return files, nil
}

// progressTracker handles progress reporting. On a terminal it redraws one
// line; otherwise it logs every progressInterval percent when verbose.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	enabled      bool
	interactive  bool
	out          io.Writer
}

// newProgressTracker creates a progress tracker writing to out.
func newProgressTracker(totalFrames int64, verbose bool, out *os.File) *progressTracker {
	interactive := out != nil && term.IsTerminal(int(out.Fd()))

	return &progressTracker{
		totalFrames: totalFrames,
		enabled:     verbose || interactive,
		interactive: interactive,
		out:         out,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.enabled || p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress < p.lastProgress+progressInterval {
		return
	}
	p.lastProgress = progress

	if p.interactive {
		fmt.Fprintf(p.out, "\rProgress: %3d%%", min(progress, percentScale))
		return
	}
	log.Printf("Progress: %d%%", progress)
}

// done ends an interactive progress line.
func (p *progressTracker) done() {
	if p.enabled && p.interactive {
		fmt.Fprintln(p.out)
	}
}

// renderStats summarizes one render.
type renderStats struct {
	input        string
	output       string
	algorithm    string
	sampleRate   int
	channels     int
	bitDepth     int
	inputFrames  int64
	outputFrames int64
	dropped      uint64
	starved      uint64
	lastRatio    float64
}

// renderBuffers holds all preallocated buffers for one render.
type renderBuffers struct {
	intBuffer *audio.IntBuffer
	in        []float64
	out       []float64
	cv        []float64
	pcm       []int
	ops       *simdops.Ops[float64]
	maxVal    float64
	invMaxVal float64
}

func newRenderBuffers(channels, bitDepth int, format *audio.Format) *renderBuffers {
	maxVal := getMaxValue(bitDepth)

	return &renderBuffers{
		intBuffer: &audio.IntBuffer{
			Data:   make([]int, bufferSize*channels),
			Format: format,
		},
		in:        make([]float64, bufferSize),
		out:       make([]float64, bufferSize),
		cv:        make([]float64, bufferSize),
		pcm:       make([]int, bufferSize),
		ops:       simdops.Float64Ops(),
		maxVal:    maxVal,
		invMaxVal: 1.0 / maxVal,
	}
}

// newFileEngine builds the engine for one render.
func newFileEngine(opts renderOptions) (*wobble.Engine, error) {
	cfg := wobble.DefaultConfig()
	cfg.Quality = opts.quality
	cfg.Random = wobble.NewRand(opts.seed)
	cfg.CVUnipolar = opts.unipolar

	return wobble.New(cfg)
}

// renderFile runs one WAV file through a fresh engine.
func renderFile(ctx context.Context, j job, opts renderOptions) (stats *renderStats, err error) {
	input, err := openWAVInput(j.input, opts.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	if input.channels < monoChannels {
		return nil, fmt.Errorf("invalid channel count %d", input.channels)
	}
	if input.channels > monoChannels {
		log.Printf("warning: %s has %d channels, down-mixing to mono", filepath.Base(j.input), input.channels)
	}

	e, err := newFileEngine(opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = e.Close() }()

	output, err := createWAVOutput(j.output, input.rate, input.bitDepth)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	var cvOut *wavOutputWriter
	if j.cv != "" {
		cvOut, err = createWAVOutput(j.cv, input.rate, input.bitDepth)
		if err != nil {
			return nil, err
		}
		defer func() {
			if closeErr := cvOut.Close(); err == nil {
				err = closeErr
			}
		}()
	}

	info := e.Info()
	cvScale := 1 / math.Max(math.Abs(info.CVRangeVolts[0]), math.Abs(info.CVRangeVolts[1]))

	bufs := newRenderBuffers(input.channels, input.bitDepth, input.format)
	stats = &renderStats{
		input:      j.input,
		output:     j.output,
		algorithm:  info.Algorithm,
		sampleRate: input.rate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
	}
	progress := newProgressTracker(input.totalFrames, opts.verbose, progressOutput(opts))
	defer progress.done()

	// writeChunk renders n mono frames already in bufs.in.
	writeChunk := func(n int) error {
		e.ProcessBlock(bufs.in[:n], bufs.out[:n], bufs.cv[:n], opts.params)

		bufs.ops.Scale(bufs.out[:n], bufs.out[:n], 1/voltsPerFullScale)
		written := quantizeInto(bufs.out[:n], bufs.pcm, bufs.maxVal)
		if err := output.WriteSamples(bufs.pcm[:written]); err != nil {
			return fmt.Errorf("failed to write audio data: %w", err)
		}

		if cvOut != nil {
			bufs.ops.Scale(bufs.cv[:n], bufs.cv[:n], cvScale)
			written = quantizeInto(bufs.cv[:n], bufs.pcm, bufs.maxVal)
			if err := cvOut.WriteSamples(bufs.pcm[:written]); err != nil {
				return fmt.Errorf("failed to write CV data: %w", err)
			}
		}

		stats.outputFrames += int64(n)
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := input.decoder.PCMBuffer(bufs.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		if n == 0 {
			break
		}

		frames := downmixInto(bufs.intBuffer.Data[:n], bufs.in, input.channels, bufs.invMaxVal)
		bufs.ops.Scale(bufs.in[:frames], bufs.in[:frames], voltsPerFullScale)
		stats.inputFrames += int64(frames)

		if err := writeChunk(frames); err != nil {
			return nil, err
		}
		progress.reportIfNeeded(stats.inputFrames)
	}

	if opts.tail {
		p := opts.params.Sanitized(wobble.DefaultMaxDepth)
		remaining := e.Latency() + int(math.Ceil(p.Depth))
		clear(bufs.in)
		for remaining > 0 {
			n := min(remaining, bufferSize)
			if err := writeChunk(n); err != nil {
				return nil, err
			}
			remaining -= n
		}
	}

	s := e.Stats()
	stats.dropped = s.Dropped
	stats.starved = s.Starved
	stats.lastRatio = s.LastRatio

	return stats, nil
}

// progressOutput returns the stream progress is drawn on, or nil when the
// render should stay quiet.
func progressOutput(opts renderOptions) *os.File {
	if !opts.progress {
		return nil
	}
	return os.Stderr
}
