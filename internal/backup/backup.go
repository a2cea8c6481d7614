// Package backup turns an AppState into an opaque text token and back, for
// manual copy-paste backups. The token is base64 over an lz4 block with a
// small header: 8-byte magic "ebbgLz4\x00" + 4-byte LE uint32 uncompressed
// size + block data. An incompressible payload is stored raw; the decoder
// detects that case by the payload length matching the header size.
package backup

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/danbi/ebbing/internal/types"
	"github.com/pierrec/lz4/v4"
)

var magic = []byte("ebbgLz4\x00")

const headerSize = 12 // 8 magic + 4 size

// maxDecodedSize bounds the allocation for the size header of an untrusted
// token. Real states are a few hundred KB at most.
const maxDecodedSize = 64 << 20

// Encode serializes the state into a backup token.
func Encode(state types.AppState) (string, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}

	buf := make([]byte, headerSize, headerSize+len(raw))
	copy(buf, magic)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(raw)))

	dst := make([]byte, lz4.CompressBlockBound(len(raw)))
	n, err := lz4.CompressBlock(raw, dst, nil)
	if err != nil {
		return "", fmt.Errorf("compress state: %w", err)
	}
	if n == 0 || n >= len(raw) {
		// Incompressible; store raw.
		buf = append(buf, raw...)
	} else {
		buf = append(buf, dst[:n]...)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// Decode parses a backup token back into an AppState. A malformed token is
// rejected without producing a partial state.
func Decode(token string) (*types.AppState, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("decode token: too short (%d bytes)", len(data))
	}
	for i := range magic {
		if data[i] != magic[i] {
			return nil, fmt.Errorf("decode token: invalid header magic")
		}
	}

	size := binary.LittleEndian.Uint32(data[8:12])
	if size > maxDecodedSize {
		return nil, fmt.Errorf("decode token: declared size %d exceeds limit", size)
	}
	body := data[headerSize:]

	var raw []byte
	if uint32(len(body)) == size {
		raw = body
	} else {
		raw = make([]byte, size)
		n, err := lz4.UncompressBlock(body, raw)
		if err != nil {
			return nil, fmt.Errorf("decompress token: %w", err)
		}
		raw = raw[:n]
	}

	var state types.AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("parse token payload: %w", err)
	}
	return &state, nil
}
