package mega

import (
	"crypto/aes"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"math/big"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// keySize is the AES key and block length used throughout the protocol.
	keySize = 16
	// derivedKeySize is the PBKDF2 output length: the first half encrypts
	// the master key, the second half is the authentication key.
	derivedKeySize = 2 * keySize
	// pbkdf2Iterations is fixed by the v2 account format.
	pbkdf2Iterations = 100000
	// saltPadLength is the length the "mega.nz" prefix is padded to before
	// the client random value is appended.
	saltPadLength = 200
)

// ToBase64 encodes data in MEGA's base64 variant: URL-safe, no padding.
func ToBase64(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// FromBase64 decodes MEGA base64. It is lenient about the alphabet and
// padding since confirmation keys are copied out of email bodies.
func FromBase64(s string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	data, err = base64.URLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	data, err = base64.RawStdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	return base64.StdEncoding.DecodeString(s)
}

// randBytes returns n cryptographically random bytes.
func randBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}
	return b, nil
}

// ecbEncrypt encrypts data block by block with AES-ECB. MEGA wraps all its
// key material this way. The data length must be a multiple of the AES
// block size.
func ecbEncrypt(key, data []byte) ([]byte, error) {
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("data length %d is not a multiple of the block size", len(data))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		block.Encrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}
	return out, nil
}

// ecbDecrypt reverses ecbEncrypt.
func ecbDecrypt(key, data []byte) ([]byte, error) {
	if len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("data length %d is not a multiple of the block size", len(data))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		block.Decrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}
	return out, nil
}

// clientRandomSalt computes the v2 account salt: SHA-256 over "mega.nz"
// padded with 'P' to 200 bytes, followed by the client random value.
func clientRandomSalt(crv []byte) []byte {
	buf := make([]byte, 0, saltPadLength+len(crv))
	buf = append(buf, "mega.nz"...)
	for len(buf) < saltPadLength {
		buf = append(buf, 'P')
	}
	buf = append(buf, crv...)
	sum := sha256.Sum256(buf)
	return sum[:]
}

// deriveKey stretches the password with PBKDF2-HMAC-SHA512 into the v2
// derived key.
func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, derivedKeySize, sha512.New)
}

// hashedAuthKey computes the server-side verifier for the authentication
// key: the first half of its SHA-256 hash.
func hashedAuthKey(authKey []byte) []byte {
	sum := sha256.Sum256(authKey)
	return sum[:keySize]
}

// mpi serializes a big integer in MEGA's MPI format: a 16-bit big-endian
// bit count followed by the magnitude bytes.
func mpi(n *big.Int) []byte {
	b := n.Bytes()
	bits := n.BitLen()
	out := make([]byte, 2+len(b))
	out[0] = byte(bits >> 8)
	out[1] = byte(bits)
	copy(out[2:], b)
	return out
}
