package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/includedir/internal/tabletype"
)

func encode(t *testing.T, data []byte, c tabletype.Compression) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, c)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := map[string][]byte{
		"empty":        {},
		"crlf":         []byte("foo\r\n"),
		"compressible": bytes.Repeat([]byte("includedir "), 4096),
	}
	compressions := []tabletype.Compression{
		tabletype.CompressionNone,
		tabletype.CompressionGzip,
		tabletype.CompressionZstd,
	}

	for name, data := range inputs {
		for _, c := range compressions {
			t.Run(name+"/"+c.String(), func(t *testing.T) {
				t.Parallel()
				encoded := encode(t, data, c)

				got, err := DecodeAll(encoded, c, int64(len(data)))
				require.NoError(t, err)
				assert.Equal(t, len(data), len(got))
				assert.True(t, bytes.Equal(data, got))

				rc, err := NewReader(bytes.NewReader(encoded), c)
				require.NoError(t, err)
				streamed, err := io.ReadAll(rc)
				require.NoError(t, err)
				require.NoError(t, rc.Close())
				assert.True(t, bytes.Equal(data, streamed))
			})
		}
	}
}

func TestGzipShrinksCompressibleInput(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("a"), 64<<10)
	encoded := encode(t, data, tabletype.CompressionGzip)
	assert.Less(t, len(encoded), len(data))
	assert.Equal(t, []byte{0x1f, 0x8b}, encoded[:2])
}

func TestDecodeCorruptGzip(t *testing.T) {
	t.Parallel()

	_, err := DecodeAll([]byte("definitely not gzip"), tabletype.CompressionGzip, -1)
	require.Error(t, err)

	_, err = DecodeAll(nil, tabletype.CompressionGzip, -1)
	require.Error(t, err)
}

func TestDecodeTruncatedGzip(t *testing.T) {
	t.Parallel()

	encoded := encode(t, bytes.Repeat([]byte("boom\r\n"), 1000), tabletype.CompressionGzip)
	_, err := DecodeAll(encoded[:len(encoded)/2], tabletype.CompressionGzip, -1)
	require.Error(t, err)
}

func TestUnknownCompression(t *testing.T) {
	t.Parallel()

	_, err := NewWriter(io.Discard, tabletype.Compression(99))
	require.ErrorIs(t, err, tabletype.ErrUnknownCompression)

	_, err = NewReader(bytes.NewReader(nil), tabletype.Compression(99))
	require.ErrorIs(t, err, tabletype.ErrUnknownCompression)
}
