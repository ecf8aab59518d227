package models

// Sizing controls the intensity of every workload generator.
// Each generator reads only the fields relevant to it.
type Sizing struct {
	// MaxPrime is the upper bound of the primality sweep
	MaxPrime int `yaml:"maxPrime" json:"maxPrime"`
	// PrimeIterations is how many times the sweep is repeated
	PrimeIterations int `yaml:"primeIterations" json:"primeIterations"`

	// OuterIterations is the loop count of the heavy arithmetic kernel
	OuterIterations int `yaml:"outerIterations" json:"outerIterations"`
	// InnerIterations is the refinement steps per heavy_math call
	InnerIterations int `yaml:"innerIterations" json:"innerIterations"`
	// DiffusionRounds is the round count of the bit-diffusion function
	DiffusionRounds int `yaml:"diffusionRounds" json:"diffusionRounds"`

	// IOIterations is the number of write/read cycles
	IOIterations int `yaml:"ioIterations" json:"ioIterations"`
	// IOBufferSize is the number of bytes written and read per cycle
	IOBufferSize int `yaml:"ioBufferSize" json:"ioBufferSize"`
	// IOByteWrites is the number of single-byte writes of the bytes pattern
	IOByteWrites int `yaml:"ioByteWrites" json:"ioByteWrites"`
	// ComputeSteps is the pure computation done between two I/O cycles
	ComputeSteps int `yaml:"computeSteps" json:"computeSteps"`
	// WorkFile is the base name of the I/O work file
	WorkFile string `yaml:"workFile" json:"workFile"`
}
