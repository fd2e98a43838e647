// Package control computes the conversion ratio that steers the wobble
// reader toward its moving target delay.
//
// The controller is evaluated once per output-queue refill. It compares the
// desired history occupancy (the target delay in samples) with the actual
// occupancy and maps the signed difference onto a ratio through a power of
// ten, so the correction is smooth and bounded to one decade either way.
package control

import "math"

// TargetIndex returns the desired history occupancy for a modulation
// position in [0, 1] and a depth in samples. Inputs are clamped so the
// result is always within [baseOffset, baseOffset+depth].
func TargetIndex(baseOffset int, position, depth float64) int {
	position = clamp(position, 0, 1)
	depth = clamp(depth, 0, maxDepth)

	return baseOffset + int(math.Round(position*depth))
}

// Consume returns how many samples the reader is away from the target.
// Positive means the history holds too few samples.
func Consume(targetIndex, occupancy int) int {
	return targetIndex - occupancy
}

// Ratio maps a consume distance to an output/input conversion ratio.
//
// Within DeadZone of the target the ratio is exactly 1. Outside it the
// distance is normalised by Scale, clamped to [-1, 1] and raised as a power
// of ten, giving a ratio in [MinRatio, MaxRatio].
func Ratio(consume float64) float64 {
	if math.IsNaN(consume) || math.Abs(consume) < DeadZone {
		return 1
	}

	normalized := clamp(consume/Scale, -1, 1)
	return math.Pow(ratioBase, normalized)
}

// Controller tracks the target delay and the last ratio decision for one
// engine. Target is evaluated every tick; Ratio only when the output queue
// needs refilling.
type Controller struct {
	baseOffset int
	target     int
	ratio      float64
}

// NewController creates a controller for the given minimum latency.
func NewController(baseOffset int) *Controller {
	return &Controller{baseOffset: baseOffset, target: baseOffset, ratio: 1}
}

// Target computes and stores the target index for the current modulation
// position and depth.
func (c *Controller) Target(position, depth float64) int {
	c.target = TargetIndex(c.baseOffset, position, depth)
	return c.target
}

// Ratio computes the conversion ratio from the stored target and the
// current history occupancy.
func (c *Controller) Ratio(occupancy int) float64 {
	c.ratio = Ratio(float64(Consume(c.target, occupancy)))
	return c.ratio
}

// LastTarget returns the most recent target index.
func (c *Controller) LastTarget() int {
	return c.target
}

// LastRatio returns the most recent ratio, or 1 before the first refill.
func (c *Controller) LastRatio() float64 {
	return c.ratio
}

// BaseOffset returns the minimum latency in samples.
func (c *Controller) BaseOffset() int {
	return c.baseOffset
}

// Reset forgets the last decision.
func (c *Controller) Reset() {
	c.target = c.baseOffset
	c.ratio = 1
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
