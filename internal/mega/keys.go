package mega

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/cloudflare/circl/dh/x25519"
	"github.com/cloudflare/circl/sign/ed25519"
)

// signedKeyPrefix domain-separates key signatures from other Ed25519
// signatures of the account.
const signedKeyPrefix = "keyauth"

// Keyset is the asymmetric key material attached to a confirmed account:
// an RSA-2048 sharing keypair, an Ed25519 signing keypair and a Curve25519
// chat keypair. The RSA public key and the chat public key are signed with
// the Ed25519 key.
type Keyset struct {
	RSAKey     *rsa.PrivateKey
	SigningKey ed25519.PrivateKey
	SigningPub ed25519.PublicKey
	ChatKey    x25519.Key
	ChatPub    x25519.Key
}

// GenerateKeyset creates a fresh set of account keys.
func GenerateKeyset() (*Keyset, error) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("generate RSA key: %w", err)
	}

	signingPub, signingKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate Ed25519 key: %w", err)
	}

	var chatKey, chatPub x25519.Key
	if _, err := rand.Read(chatKey[:]); err != nil {
		return nil, fmt.Errorf("generate Curve25519 key: %w", err)
	}
	x25519.KeyGen(&chatPub, &chatKey)

	return &Keyset{
		RSAKey:     rsaKey,
		SigningKey: signingKey,
		SigningPub: signingPub,
		ChatKey:    chatKey,
		ChatPub:    chatPub,
	}, nil
}

// PublicRSA serializes the RSA public key as MPI(n) || MPI(e).
func (k *Keyset) PublicRSA() []byte {
	out := mpi(k.RSAKey.PublicKey.N)
	return append(out, mpi(big.NewInt(int64(k.RSAKey.PublicKey.E)))...)
}

// WrappedPrivateRSA serializes the RSA private key as MPI(p) || MPI(q) ||
// MPI(d) || MPI(u), where u is the CRT coefficient p^-1 mod q, pads it to
// the AES block size with random bytes and encrypts it with the master key.
func (k *Keyset) WrappedPrivateRSA(masterKey []byte) ([]byte, error) {
	p := k.RSAKey.Primes[0]
	q := k.RSAKey.Primes[1]
	u := new(big.Int).ModInverse(p, q)

	buf := mpi(p)
	buf = append(buf, mpi(q)...)
	buf = append(buf, mpi(k.RSAKey.D)...)
	buf = append(buf, mpi(u)...)

	if rem := len(buf) % keySize; rem != 0 {
		pad, err := randBytes(keySize - rem)
		if err != nil {
			return nil, err
		}
		buf = append(buf, pad...)
	}

	return ecbEncrypt(masterKey, buf)
}

// SignPubRSA signs the serialized RSA public key with the Ed25519 key.
func (k *Keyset) SignPubRSA() []byte {
	return ed25519.Sign(k.SigningKey, append([]byte(signedKeyPrefix), k.PublicRSA()...))
}

// SignChatPub signs the Curve25519 public key with the Ed25519 key.
func (k *Keyset) SignChatPub() []byte {
	return ed25519.Sign(k.SigningKey, append([]byte(signedKeyPrefix), k.ChatPub[:]...))
}
