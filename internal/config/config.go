package config

// Spectral analysis settings
// These match the defaults of the reference MFCC pipeline so that vectors stay
// comparable with ones produced by earlier tooling.
const (
	FFTSize     = 2048
	HopLength   = 512
	NumMelBands = 128
	TopDB       = 80.0  // Dynamic range kept after dB conversion
	AminPower   = 1e-10 // Power floor before log10
	DeltaWidth  = 9     // Savitzky-Golay window for delta features
)

// Decoding settings
const (
	ReadChunkSize = 8192 // Samples requested per decoder read
)

// Batch settings
const (
	DefaultWorkers = 4
)

// Output settings
const (
	DefaultPrecision = 8 // Significant digits in text output
)

// Heatmap settings
const (
	HeatmapWidth      = 1280
	HeatmapHeight     = 720
	HeatmapMargin     = 40
	HeatmapTitleSize  = 28.0
	HeatmapCaptionGap = 16
)
