package mega

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"
)

func TestBase64RoundTrip(t *testing.T) {
	data := []byte{0xfb, 0xff, 0xbf, 0x00, 0x01, 0x7f, 0xfe, 0x3e}

	encoded := ToBase64(data)
	if strings.ContainsAny(encoded, "+/=") {
		t.Errorf("encoded contains non-URL-safe characters: %s", encoded)
	}

	decoded, err := FromBase64(encoded)
	if err != nil {
		t.Fatalf("FromBase64() error = %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("decoded = %x, want %x", decoded, data)
	}
}

func TestFromBase64_Lenient(t *testing.T) {
	data := []byte{0xfb, 0xff, 0xbf, 0x00, 0x01}

	tests := []struct {
		name  string
		input string
	}{
		{name: "url-safe no padding", input: base64.RawURLEncoding.EncodeToString(data)},
		{name: "url-safe padded", input: base64.URLEncoding.EncodeToString(data)},
		{name: "standard no padding", input: base64.RawStdEncoding.EncodeToString(data)},
		{name: "standard padded", input: base64.StdEncoding.EncodeToString(data)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := FromBase64(tt.input)
			if err != nil {
				t.Fatalf("FromBase64(%q) error = %v", tt.input, err)
			}
			if !bytes.Equal(decoded, data) {
				t.Errorf("decoded = %x, want %x", decoded, data)
			}
		})
	}
}

func TestECBRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, keySize)
	data := []byte("exactly thirty-two bytes of data")

	encrypted, err := ecbEncrypt(key, data)
	if err != nil {
		t.Fatalf("ecbEncrypt() error = %v", err)
	}
	if bytes.Equal(encrypted, data) {
		t.Error("ciphertext equals plaintext")
	}

	decrypted, err := ecbDecrypt(key, encrypted)
	if err != nil {
		t.Fatalf("ecbDecrypt() error = %v", err)
	}
	if !bytes.Equal(decrypted, data) {
		t.Errorf("decrypted = %q, want %q", decrypted, data)
	}
}

func TestECB_KnownVector(t *testing.T) {
	// FIPS-197 appendix C.1
	key, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	plaintext, _ := hex.DecodeString("00112233445566778899aabbccddeeff")
	want, _ := hex.DecodeString("69c4e0d86a7b0430d8cdb78070b4c55a")

	got, err := ecbEncrypt(key, plaintext)
	if err != nil {
		t.Fatalf("ecbEncrypt() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("ciphertext = %x, want %x", got, want)
	}
}

func TestECB_RejectsPartialBlock(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, keySize)

	if _, err := ecbEncrypt(key, make([]byte, 15)); err == nil {
		t.Error("ecbEncrypt() expected error for partial block")
	}
	if _, err := ecbDecrypt(key, make([]byte, 17)); err == nil {
		t.Error("ecbDecrypt() expected error for partial block")
	}
}

func TestClientRandomSalt(t *testing.T) {
	crv := bytes.Repeat([]byte{0x01}, keySize)

	salt := clientRandomSalt(crv)
	if len(salt) != 32 {
		t.Errorf("len(salt) = %d, want 32", len(salt))
	}
	if !bytes.Equal(salt, clientRandomSalt(crv)) {
		t.Error("salt is not deterministic")
	}

	other := clientRandomSalt(bytes.Repeat([]byte{0x02}, keySize))
	if bytes.Equal(salt, other) {
		t.Error("different random values produced the same salt")
	}
}

func TestDeriveKey(t *testing.T) {
	salt := clientRandomSalt(bytes.Repeat([]byte{0x01}, keySize))

	derived := deriveKey("correct horse battery staple", salt)
	if len(derived) != derivedKeySize {
		t.Fatalf("len(derived) = %d, want %d", len(derived), derivedKeySize)
	}
	if !bytes.Equal(derived, deriveKey("correct horse battery staple", salt)) {
		t.Error("derivation is not deterministic")
	}
	if bytes.Equal(derived, deriveKey("wrong password", salt)) {
		t.Error("different passwords produced the same key")
	}

	otherSalt := clientRandomSalt(bytes.Repeat([]byte{0x02}, keySize))
	if bytes.Equal(derived, deriveKey("correct horse battery staple", otherSalt)) {
		t.Error("different salts produced the same key")
	}
}

func TestHashedAuthKey(t *testing.T) {
	authKey := bytes.Repeat([]byte{0x07}, keySize)

	hak := hashedAuthKey(authKey)
	if len(hak) != keySize {
		t.Errorf("len(hak) = %d, want %d", len(hak), keySize)
	}
	if bytes.Equal(hak, authKey) {
		t.Error("hashed auth key equals auth key")
	}
	if !bytes.Equal(hak, hashedAuthKey(authKey)) {
		t.Error("hashing is not deterministic")
	}
}

func TestMPI(t *testing.T) {
	tests := []struct {
		name string
		n    *big.Int
		want []byte
	}{
		{name: "one", n: big.NewInt(1), want: []byte{0x00, 0x01, 0x01}},
		{name: "byte", n: big.NewInt(0xff), want: []byte{0x00, 0x08, 0xff}},
		{name: "two bytes", n: big.NewInt(0x100), want: []byte{0x00, 0x09, 0x01, 0x00}},
		{name: "rsa exponent", n: big.NewInt(65537), want: []byte{0x00, 0x11, 0x01, 0x00, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mpi(tt.n)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("mpi(%v) = %x, want %x", tt.n, got, tt.want)
			}
		})
	}
}

func TestRandBytes(t *testing.T) {
	a, err := randBytes(keySize)
	if err != nil {
		t.Fatalf("randBytes() error = %v", err)
	}
	if len(a) != keySize {
		t.Fatalf("len = %d, want %d", len(a), keySize)
	}

	b, err := randBytes(keySize)
	if err != nil {
		t.Fatalf("randBytes() error = %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("two random reads returned identical bytes")
	}
}
