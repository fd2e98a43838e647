package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wobble "github.com/tphakala/go-wobble"
	"github.com/tphakala/go-wobble/internal/testutil"
)

const testRate = 48000

// writeTestWAV writes interleaved 16-bit samples to path.
func writeTestWAV(t *testing.T, path string, channels int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, testRate, bitsPerSample16, channels, wavFormatPCM)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: testRate},
		Data:           data,
		SourceBitDepth: bitsPerSample16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

// readTestWAV decodes a WAV file into normalized mono samples.
func readTestWAV(t *testing.T, path string) ([]float64, *audio.Format) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)

	out := make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		out[i] = float64(s) / maxInt16
	}
	return out, buf.Format
}

func testOptions() renderOptions {
	return renderOptions{
		quality: wobble.QualityQuick,
		params:  wobble.Params{Rate: wobble.DefaultRate, Depth: 0},
		seed:    1,
		tail:    true,
	}
}

func TestOpenWAVInput_FileNotFound(t *testing.T) {
	_, err := openWAVInput("/nonexistent/file.wav", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestOpenWAVInput_InvalidWAV(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not a wav file"), 0o644))

	_, err := openWAVInput(invalidFile, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestOpenWAVInput_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeTestWAV(t, path, 2, make([]int, 2*testRate))

	in, err := openWAVInput(path, false)
	require.NoError(t, err)
	defer func() { _ = in.Close() }()

	assert.Equal(t, testRate, in.rate)
	assert.Equal(t, 2, in.channels)
	assert.Equal(t, bitsPerSample16, in.bitDepth)
	assert.InDelta(t, testRate, in.totalFrames, 1)
}

func TestCreateWAVOutput_InvalidDirectory(t *testing.T) {
	_, err := createWAVOutput("/nonexistent/dir/output.wav", testRate, bitsPerSample16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestGetMaxValue(t *testing.T) {
	assert.InDelta(t, maxInt16, getMaxValue(16), 0)
	assert.InDelta(t, maxInt24, getMaxValue(24), 0)
	assert.InDelta(t, maxInt32, getMaxValue(32), 0)
	assert.InDelta(t, maxInt16, getMaxValue(12), 0)
}

func TestDownmixInto(t *testing.T) {
	dst := make([]float64, 4)

	n := downmixInto([]int{2, 4, -6}, dst, 1, 0.5)
	assert.Equal(t, 3, n)
	assert.Equal(t, []float64{1, 2, -3}, dst[:n])

	n = downmixInto([]int{2, 4, -6, 6, 1}, dst, 2, 1)
	assert.Equal(t, 2, n, "a trailing partial frame is ignored")
	assert.Equal(t, []float64{3, 0}, dst[:n])
}

func TestQuantizeInto(t *testing.T) {
	dst := make([]int, 5)
	n := quantizeInto([]float64{0, 0.5, -0.5, 2, -2}, dst, maxInt16)

	assert.Equal(t, 5, n)
	assert.Equal(t, []int{0, 16384, -16384, 32767, -32767}, dst)
}

func TestListWAVFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.wav", "a.WAV", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.wav"), 0o755))

	files, err := listWAVFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.WAV"), filepath.Join(dir, "b.wav")}, files)

	_, err = listWAVFiles(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestProgressTracker_Quiet(t *testing.T) {
	tracker := newProgressTracker(1000, false, nil)
	require.NotNil(t, tracker)

	assert.False(t, tracker.enabled)
	tracker.reportIfNeeded(500)
	tracker.done()
	assert.Equal(t, 0, tracker.lastProgress)
}

func TestProgressTracker_Verbose(t *testing.T) {
	tracker := newProgressTracker(1000, true, nil)

	tracker.reportIfNeeded(250)
	assert.Equal(t, 25, tracker.lastProgress)

	tracker.reportIfNeeded(300)
	assert.Equal(t, 25, tracker.lastProgress, "below the reporting interval")
}

func TestRenderFile_ImpulseIsDelayed(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")
	cvPath := filepath.Join(dir, "cv.wav")

	data := make([]int, 4000)
	data[0] = 16384
	writeTestWAV(t, inPath, 1, data)

	stats, err := renderFile(context.Background(), job{input: inPath, output: outPath, cv: cvPath}, testOptions())
	require.NoError(t, err)

	latency := wobble.DefaultBaseOffset + 2
	assert.Equal(t, int64(len(data)), stats.inputFrames)
	assert.Equal(t, int64(len(data)+latency), stats.outputFrames)
	assert.Equal(t, "cubic", stats.algorithm)
	assert.Zero(t, stats.dropped)

	out, format := readTestWAV(t, outPath)
	require.Len(t, out, len(data)+latency)
	assert.Equal(t, 1, format.NumChannels)
	assert.Equal(t, testRate, format.SampleRate)
	assert.Equal(t, latency, testutil.PeakIndex(out))
	assert.InDelta(t, 0.5, out[latency], 1e-3)

	cv, _ := readTestWAV(t, cvPath)
	require.Len(t, cv, len(out))
	testutil.AssertAllInRange(t, cv, -1, 1)
}

func TestRenderFile_DownmixesStereo(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "stereo.wav")
	outPath := filepath.Join(dir, "out.wav")

	frames := 2000
	data := make([]int, 2*frames)
	data[0], data[1] = 16384, 0
	writeTestWAV(t, inPath, 2, data)

	opts := testOptions()
	opts.tail = false
	stats, err := renderFile(context.Background(), job{input: inPath, output: outPath}, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.channels)
	assert.Equal(t, int64(frames), stats.outputFrames)

	out, format := readTestWAV(t, outPath)
	assert.Equal(t, 1, format.NumChannels)
	require.Len(t, out, frames)
	assert.InDelta(t, 0.25, out[wobble.DefaultBaseOffset+2], 1e-3)
}

func TestRenderFile_Cancelled(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	writeTestWAV(t, inPath, 1, make([]int, 1000))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := renderFile(ctx, job{input: inPath, output: filepath.Join(dir, "out.wav")}, testOptions())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunBatch(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "wet")

	for _, name := range []string{"one.wav", "two.wav", "three.wav"} {
		writeTestWAV(t, filepath.Join(inDir, name), 1, make([]int, 3000))
	}

	require.NoError(t, runBatch(context.Background(), inDir, outDir, 2, testOptions()))

	for _, name := range []string{"one.wav", "two.wav", "three.wav"} {
		out, _ := readTestWAV(t, filepath.Join(outDir, name))
		assert.Len(t, out, 3000+wobble.DefaultBaseOffset+2, name)
	}
}

func TestRunBatch_Failures(t *testing.T) {
	err := runBatch(context.Background(), t.TempDir(), t.TempDir(), 2, testOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no WAV files")

	inDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "bad.wav"), []byte("junk"), 0o644))
	err = runBatch(context.Background(), inDir, t.TempDir(), 2, testOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.wav")
}
