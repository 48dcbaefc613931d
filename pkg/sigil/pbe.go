package sigil

import (
	"bytes"
	"crypto/cipher"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/codahale/sigil/pkg/sigil/internal"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrInvalidPassphrase is returned when an encrypted private key cannot be decrypted, either due
// to an incorrect passphrase or tampering.
var ErrInvalidPassphrase = errors.New("invalid passphrase or corrupted private key")

// Argon2idParams contains the parameters of the Argon2id passphrase-based KDF algorithm.
type Argon2idParams struct {
	Time, Memory uint32 // The time and memory Argon2id parameters.
	Parallelism  uint8  // The parallelism Argon2id parameter.
}

// EncryptPrivateKey encrypts the private key with the given passphrase and optional Argon2id
// parameters. Returns the encrypted key.
//
// The result is the Argon2id parameters, a random salt, and the private scalar sealed with
// ChaCha20-Poly1305 under a key and nonce derived from the passphrase and salt. The parameters
// and salt are authenticated as associated data.
func (s *Scheme) EncryptPrivateKey(sk *PrivateKey, passphrase []byte, params *Argon2idParams) ([]byte, error) {
	var hdr encryptedKeyHeader

	// Use default parameters if none are provided.
	if params == nil {
		// As recommended in https://tools.ietf.org/html/draft-irtf-cfrg-argon2-12#section-7.4.
		hdr.Params = Argon2idParams{
			Time:        1,
			Memory:      1 * 1024 * 1024, // 1GiB
			Parallelism: 4,
		}
	} else {
		hdr.Params = *params
	}

	if err := hdr.Params.validate(); err != nil {
		return nil, err
	}

	// Generate a random salt.
	if _, err := io.ReadFull(s.rand, hdr.Salt[:]); err != nil {
		return nil, err
	}

	// Encode the Argon2id params and the salt.
	buf := bytes.NewBuffer(nil)
	if err := binary.Write(buf, binary.BigEndian, &hdr); err != nil {
		panic(err)
	}

	// Use Argon2id to derive a key and nonce from the passphrase and salt.
	aead, nonce := pbeKDF(passphrase, hdr.Salt[:], &hdr.Params)

	// Encrypt the private scalar, authenticating the header.
	hdrBytes := buf.Bytes()

	return aead.Seal(internal.Copy(hdrBytes), nonce, sk.bytes(s.curve), hdrBytes), nil
}

// DecryptPrivateKey decrypts the given private key with the given passphrase. Returns the
// decrypted private key.
func (s *Scheme) DecryptPrivateKey(data, passphrase []byte) (*PrivateKey, error) {
	// Decode the header.
	var hdr encryptedKeyHeader
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &hdr); err != nil {
		return nil, internal.MakeError(internal.ErrMalformedInput,
			fmt.Sprintf("invalid encrypted private key: %v", err))
	}

	if err := hdr.Params.validate(); err != nil {
		return nil, err
	}

	hdrLen := binary.Size(&hdr)
	if len(data) != hdrLen+scalarSize(s.curve)+chacha20poly1305.Overhead {
		return nil, internal.MakeError(internal.ErrMalformedInput,
			fmt.Sprintf("encrypted private key is %d bytes, expected %d", len(data),
				hdrLen+scalarSize(s.curve)+chacha20poly1305.Overhead))
	}

	// Use Argon2id to re-derive the key and nonce from the passphrase and salt.
	aead, nonce := pbeKDF(passphrase, hdr.Salt[:], &hdr.Params)

	// Decrypt the private scalar.
	plaintext, err := aead.Open(nil, nonce, data[hdrLen:], data[:hdrLen])
	if err != nil {
		return nil, ErrInvalidPassphrase
	}

	return s.NewPrivateKey(new(big.Int).SetBytes(plaintext))
}

// encryptedKeyHeader is a fixed-size struct of the encoded values preceding an encrypted key.
type encryptedKeyHeader struct {
	Params Argon2idParams
	Salt   [saltSize]byte
}

func (p *Argon2idParams) validate() error {
	if p.Time < 1 || p.Memory < 8*uint32(p.Parallelism) || p.Parallelism < 1 {
		return internal.MakeError(internal.ErrInvalidState,
			fmt.Sprintf("invalid Argon2id parameters t=%d m=%d p=%d", p.Time, p.Memory, p.Parallelism))
	}

	return nil
}

// pbeKDF uses Argon2id to derive a ChaCha20-Poly1305 key and nonce from the passphrase, salt, and
// parameters.
func pbeKDF(passphrase, salt []byte, params *Argon2idParams) (cipher.AEAD, []byte) {
	k := argon2.IDKey(passphrase, salt, params.Time, params.Memory, params.Parallelism,
		chacha20poly1305.KeySize+chacha20poly1305.NonceSize)

	aead, err := chacha20poly1305.New(k[:chacha20poly1305.KeySize])
	if err != nil {
		panic(err)
	}

	return aead, k[chacha20poly1305.KeySize:]
}

const saltSize = 16 // per https://tools.ietf.org/html/draft-irtf-cfrg-argon2-12#section-3.1
