//go:build !fastmath

package spectral

// kernelEps bounds the error of kernels that round-trip through
// magnitude and phase.
const kernelEps = 1e-9
