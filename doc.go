// Package wobble implements an adaptive time-varying delay in pure Go.
//
// Every input sample is appended to a history ring. A slowly wandering
// random walk sets a target delay between a fixed base offset and the base
// offset plus a depth. The engine reads the history through a streaming
// sample-rate converter whose ratio is nudged toward the target whenever a
// small output queue runs dry, so the delay glides instead of jumping and
// the result is a smooth pitch and time wobble.
//
// # Quick Start
//
//	e, err := wobble.New(wobble.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Close()
//
//	p := wobble.DefaultParams()
//	for i := range input {
//	    output[i], cv[i] = e.Process(input[i], p)
//	}
//
// Block processing with fixed parameters is also available:
//
//	n := e.ProcessBlock(input, output, cv, p)
//
// # Parameters
//
//   - Rate in [0, 1] sets how fast the delay wanders. Zero freezes it.
//   - Depth in samples sets the span above the base offset (default 2048
//     of a maximum 4096).
//   - Color is accepted and reserved. It currently has no audible effect.
//
// # Converter Quality
//
//   - [QualityQuick]: 4-point cubic Hermite. The default.
//   - [QualityLinear]: 2-point linear interpolation. Cheapest.
//   - [QualitySinc]: Kaiser-windowed sinc, band-limited when the ratio
//     drops below one.
//
// # Real-Time Use
//
// All buffers are allocated by [New]. [Engine.Process] and
// [Engine.ProcessBlock] never allocate, never block and never return an
// error. An engine is not safe for concurrent use; run one engine per
// channel or per voice.
//
// # Diagnostics
//
// Process also returns a control voltage that follows the modulation
// position, -5 V to +5 V by default or 0 V to 10 V with
// [Config.CVUnipolar]. [Engine.Stats] reports counters such as dropped
// input samples and the last conversion ratio.
package wobble
