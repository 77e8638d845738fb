// Package modulation provides modulated-delay effects.
//
// Included processors:
//   - Chorus: Multi-voice modulated delay.
//   - Flanger: Short modulated delay with feedback.
//
// Both read a delay.Line at fractional positions, so the modulated delay
// glides without zipper noise.
package modulation
