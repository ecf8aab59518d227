package workload

import (
	"fmt"
	"math/bits"
	"mlfqbench/models"
)

const (
	// Modulus bounds every accumulator of the arithmetic kernel.
	Modulus = 1_000_000_007

	seedMulA uint32 = 0x9E3779B9
	seedMulB uint32 = 0x85EBCA6B

	interleaveEven uint32 = 0x55555555
	interleaveOdd  uint32 = 0xAAAAAAAA
)

// IsPrime tests n by trial division with divisors of the form 6k±1.
func IsPrime(n int) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}
	for i := 5; i*i <= n; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

// CountPrimes sweeps [2, max] iterations times and returns the average
// number of primes found per sweep.
func CountPrimes(max, iterations int) int {
	if iterations <= 0 {
		return 0
	}
	total := 0
	for iter := 0; iter < iterations; iter++ {
		for n := 2; n <= max; n++ {
			if IsPrime(n) {
				total++
			}
		}
	}
	return total / iterations
}

// HeavyMath mixes a cube, an integer division and a modular product, then
// refines the value for inner steps. The result is below Modulus.
func HeavyMath(x uint64, inner int) uint64 {
	x %= Modulus
	cube := x * x % Modulus * x % Modulus
	quotient := cube / (x%97 + 1)
	value := cube * quotient % Modulus
	for j := 0; j < inner; j++ {
		value = (value*31 + uint64(j)*cube + quotient) % Modulus
		value ^= value >> 7
	}
	return value % Modulus
}

// Diffuse scrambles seed over rounds of xor-shift, bit interleave,
// complement and rotation.
func Diffuse(seed uint32, rounds int) uint32 {
	v := seed
	for r := 0; r < rounds; r++ {
		v ^= v << 13
		v ^= v >> 17
		v ^= v << 5
		v = (v&interleaveEven)<<1 | (v&interleaveOdd)>>1
		v = ^v
		v = bits.RotateLeft32(v, 7+r%5)
	}
	return v
}

// Arithmetic runs the heavy arithmetic and bit-diffusion kernel.
func Arithmetic(outer, inner, rounds int) (acc, bitAcc uint64) {
	for i := 0; i < outer; i++ {
		acc = (acc + HeavyMath(uint64(i)+1, inner)) % Modulus
		seed := uint32(i)*seedMulA ^ uint32(i)*seedMulB
		bitAcc = (bitAcc + uint64(Diffuse(seed, rounds))) % Modulus
	}
	return acc, bitAcc
}

type PrimesGenerator struct {
	Max        int
	Iterations int
}

func (g *PrimesGenerator) Kind() Kind { return KindCPU }

func (g *PrimesGenerator) Describe() string {
	return fmt.Sprintf("Calculating prime numbers up to %d (%d iterations)...", g.Max, g.Iterations)
}

func (g *PrimesGenerator) Run() (models.WorkloadResult, error) {
	return models.WorkloadResult{PrimeCount: CountPrimes(g.Max, g.Iterations)}, nil
}

type ArithmeticGenerator struct {
	Outer  int
	Inner  int
	Rounds int
}

func (g *ArithmeticGenerator) Kind() Kind { return KindCPU }

func (g *ArithmeticGenerator) Describe() string {
	return fmt.Sprintf("Running heavy arithmetic and bit diffusion (%d iterations)...", g.Outer)
}

func (g *ArithmeticGenerator) Run() (models.WorkloadResult, error) {
	acc, bitAcc := Arithmetic(g.Outer, g.Inner, g.Rounds)
	return models.WorkloadResult{Accumulator: acc, BitAccumulator: bitAcc}, nil
}
