package file

import (
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/includedir/internal/tabletype"
	"github.com/meigma/includedir/internal/testutil"
)

func TestFileReadVerifies(t *testing.T) {
	t.Parallel()

	for _, c := range []tabletype.Compression{
		tabletype.CompressionNone,
		tabletype.CompressionGzip,
		tabletype.CompressionZstd,
	} {
		t.Run(c.String(), func(t *testing.T) {
			t.Parallel()

			content := strings.Repeat("embedded content\n", 100)
			f := Open("dir/a.txt", testutil.NewEntry(t, []byte(content), c), true)
			defer f.Close()

			got, err := io.ReadAll(f)
			require.NoError(t, err)
			assert.Equal(t, content, string(got))

			info, err := f.Stat()
			require.NoError(t, err)
			assert.Equal(t, "a.txt", info.Name())
			assert.Equal(t, int64(len(content)), info.Size())
			assert.False(t, info.IsDir())
		})
	}
}

func TestFileHashMismatchAtEOF(t *testing.T) {
	t.Parallel()

	entry := testutil.NewEntry(t, []byte("hello"), tabletype.CompressionGzip)
	entry.Digest = digest.FromString("goodbye")

	f := Open("a", entry, true)
	_, err := io.ReadAll(f)
	require.ErrorIs(t, err, tabletype.ErrHashMismatch)

	// The error is sticky.
	_, err = f.Read(make([]byte, 1))
	require.ErrorIs(t, err, tabletype.ErrHashMismatch)

	// Without verification the content is returned as stored.
	got, err := io.ReadAll(Open("a", entry, false))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestFileCorruptPayload(t *testing.T) {
	t.Parallel()

	entry := tabletype.Entry{Compression: tabletype.CompressionGzip, Data: "not gzip at all"}
	f := Open("a", entry, true)
	_, err := io.ReadAll(f)
	require.ErrorIs(t, err, tabletype.ErrDecompression)
}

func TestFileUnknownCompression(t *testing.T) {
	t.Parallel()

	f := Open("a", tabletype.Entry{Compression: 42, Data: "x"}, true)
	_, err := f.Read(make([]byte, 8))
	require.ErrorIs(t, err, tabletype.ErrUnknownCompression)
}

func TestFileReadAfterClose(t *testing.T) {
	t.Parallel()

	f := Open("a", testutil.NewEntry(t, []byte("x"), tabletype.CompressionNone), true)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	_, err := f.Read(make([]byte, 1))
	require.ErrorIs(t, err, fs.ErrClosed)
}

func TestDecodedSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(3), DecodedSize(tabletype.Entry{Data: "abc"}))
	assert.Equal(t, int64(10), DecodedSize(tabletype.Entry{Compression: tabletype.CompressionGzip, Data: "abc", Size: 10}))
}

func TestDirEntry(t *testing.T) {
	t.Parallel()

	de := NewDirEntry(NewDirInfo("sub"))
	assert.Equal(t, "sub", de.Name())
	assert.True(t, de.IsDir())
	assert.Equal(t, fs.ModeDir, de.Type())

	fe := NewDirEntry(NewInfo(tabletype.Entry{Data: "abc"}, "f"))
	assert.False(t, fe.IsDir())
	assert.Equal(t, fs.FileMode(0), fe.Type())
}

func TestCountingReader(t *testing.T) {
	t.Parallel()

	cr := &CountingReader{R: strings.NewReader("twelve bytes")}
	_, err := io.Copy(io.Discard, cr)
	require.NoError(t, err)
	assert.Equal(t, int64(12), cr.N)
}
