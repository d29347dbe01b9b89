// Package qrio implements the QR code symbology: building the data bit
// stream, constructing symbols with Reed-Solomon error correction, rendering
// the module matrix, and locating and decoding symbols in images.
//
// The root package holds the shared vocabulary: symbol versions (Normal and
// Micro), error correction levels, encoding modes, the constructed Symbol,
// and the luminance/binarizer interfaces used on the decode path. The actual
// work happens in the subpackages: encoder, decoder, detector, binarizer,
// transform, render and scan.
package qrio
