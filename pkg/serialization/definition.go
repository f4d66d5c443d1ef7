package serialization

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mdflow/mdflow/pkg/validation"
)

// Envelope layout of a binary definition file:
//
//	offset 0  4 bytes  magic "MDFG"
//	offset 4  1 byte   format version
//	offset 5  1 byte   codec id
//	offset 6  1 byte   compression id
//	offset 7  1 byte   flags (bit 0: payload is AES-GCM encrypted)
//	offset 8  ...      payload
//
// Files that start with '{' instead are hand-written bare JSON definitions
// and carry no envelope.
const (
	formatVersion = 1
	headerSize    = 8

	flagEncrypted = 1 << 0
)

var magic = [4]byte{'M', 'D', 'F', 'G'}

// Codec and compression ids stored in the header.
const (
	codecJSON    = 1
	codecMsgPack = 2

	compressionNone = 0
	compressionGzip = 1
	compressionZstd = 2
)

var (
	ErrBadMagic           = errors.New("not a definition file")
	ErrUnsupportedVersion = errors.New("unsupported definition format version")
	ErrUnknownCodec       = errors.New("unknown codec id in header")
	ErrUnknownCompression = errors.New("unknown compression id in header")
	ErrKeyRequired        = errors.New("definition is encrypted and no key was given")
)

// Options selects how EncodeDefinition writes the payload. The choices are
// recorded in the envelope header, so decoding needs no options beyond the
// key for encrypted files.
type Options struct {
	Codec       Codec
	Compression CompressionType
	EncryptKey  []byte // AES-256 key (32 bytes), optional
}

// DefaultOptions is the msgpack+zstd combination used for .mdg files.
func DefaultOptions() Options {
	return Options{Codec: NewMsgPackCodec(), Compression: CompressionZstd}
}

// EncodeDefinition writes a graph definition in the envelope format.
func EncodeDefinition(gd *validation.GraphDefinition, opts Options) ([]byte, error) {
	if gd == nil {
		return nil, fmt.Errorf("definition is nil")
	}
	if opts.Codec == nil {
		opts.Codec = NewMsgPackCodec()
	}

	cid, err := codecID(opts.Codec)
	if err != nil {
		return nil, err
	}
	zid, err := compressionID(opts.Compression)
	if err != nil {
		return nil, err
	}

	payload, err := opts.Codec.Encode(gd)
	if err != nil {
		return nil, fmt.Errorf("codec encoding failed: %w", err)
	}
	payload, err = compress(payload, opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}

	var flags byte
	if len(opts.EncryptKey) > 0 {
		flags |= flagEncrypted
		payload, err = encrypt(payload, opts.EncryptKey)
		if err != nil {
			return nil, fmt.Errorf("encryption failed: %w", err)
		}
	}

	out := make([]byte, 0, headerSize+len(payload))
	out = append(out, magic[:]...)
	out = append(out, formatVersion, cid, zid, flags)
	return append(out, payload...), nil
}

// DecodeDefinition reads a definition file in either form: the binary
// envelope, or bare JSON for hand-written files. key is only consulted
// when the envelope says the payload is encrypted.
func DecodeDefinition(data []byte, key []byte) (*validation.GraphDefinition, error) {
	if isBareJSON(data) {
		var gd validation.GraphDefinition
		if err := json.Unmarshal(data, &gd); err != nil {
			return nil, fmt.Errorf("decoding bare JSON definition: %w", err)
		}
		return &gd, nil
	}

	if len(data) < headerSize || !bytes.Equal(data[:4], magic[:]) {
		return nil, ErrBadMagic
	}
	if data[4] != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[4])
	}
	codec, err := codecByID(data[5])
	if err != nil {
		return nil, err
	}
	compression, err := compressionByID(data[6])
	if err != nil {
		return nil, err
	}

	payload := data[headerSize:]
	if data[7]&flagEncrypted != 0 {
		if len(key) == 0 {
			return nil, ErrKeyRequired
		}
		payload, err = decrypt(payload, key)
		if err != nil {
			return nil, fmt.Errorf("decryption failed: %w", err)
		}
	}

	payload, err = decompress(payload, compression)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}

	var gd validation.GraphDefinition
	if err := codec.Decode(payload, &gd); err != nil {
		return nil, fmt.Errorf("codec decoding failed: %w", err)
	}
	return &gd, nil
}

// isBareJSON reports whether the file is a hand-written JSON definition:
// the first non-whitespace byte is '{'.
func isBareJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func codecID(c Codec) (byte, error) {
	switch c.Name() {
	case "json":
		return codecJSON, nil
	case "msgpack":
		return codecMsgPack, nil
	default:
		return 0, fmt.Errorf("codec %q cannot be stored in a definition header", c.Name())
	}
}

func codecByID(id byte) (Codec, error) {
	switch id {
	case codecJSON:
		return NewJSONCodec(), nil
	case codecMsgPack:
		return NewMsgPackCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, id)
	}
}

func compressionID(kind CompressionType) (byte, error) {
	switch kind {
	case CompressionNone, "":
		return compressionNone, nil
	case CompressionGzip:
		return compressionGzip, nil
	case CompressionZstd:
		return compressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", kind)
	}
}

func compressionByID(id byte) (CompressionType, error) {
	switch id {
	case compressionNone:
		return CompressionNone, nil
	case compressionGzip:
		return CompressionGzip, nil
	case compressionZstd:
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownCompression, id)
	}
}

// encrypt seals the payload with AES-GCM, nonce prepended.
func encrypt(data, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, data, nil), nil
}

// decrypt opens an AES-GCM sealed payload.
func decrypt(data, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("invalid ciphertext size")
	}
	nonce, sealed := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}
