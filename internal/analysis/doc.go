// Package analysis inspects recorded runs.
//
//   - [Spectrum] and [DominantFrequency]: oscillation content of a series
//   - [Component] and [Separation]: series extracted from recorded states
//   - [PhasePortrait]: two state components plotted against each other
//   - [Crossings]: upward threshold crossings, for period estimates
//
// A pendulum that rings at the expected frequency and then settles shows a
// single sharp peak:
//
//	d := analysis.Separation(states, 0, 1)
//	f := analysis.DominantFrequency(d, dt)
package analysis
