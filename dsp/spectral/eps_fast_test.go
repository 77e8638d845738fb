//go:build fastmath

package spectral

// kernelEps bounds the error of kernels that round-trip through
// magnitude and phase with the approximated math.
const kernelEps = 1e-4
