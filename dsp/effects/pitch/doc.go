// Package pitch provides streaming pitch shifters.
//
// Included processors:
//   - Shifter: Rotating two-tap delay-line pitch shifter.
package pitch
