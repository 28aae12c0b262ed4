package domain

// SecretCodeGenerator produces fixed-length numeric codes and their hashes.
// Verification goes through the hash primitive, never a plaintext comparison.
type SecretCodeGenerator interface {
	// Generate produces a random numeric code of exactly length digits,
	// left-zero-padded, from a cryptographic randomness source
	Generate(length int) (string, error)

	// Hash produces a one-way salted hash of a plaintext code
	Hash(code string) (string, error)

	// Verify checks a plaintext code against its stored hash
	Verify(code, hash string) bool
}
