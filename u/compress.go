package u

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// implement io.ReadCloser over os.File wrapped with io.Reader.
// io.Closer goes to os.File, io.Reader goes to wrapping reader
type readerWrappedFile struct {
	f *os.File
	r io.Reader
}

func (rc *readerWrappedFile) Close() error {
	return rc.f.Close()
}

func (rc *readerWrappedFile) Read(p []byte) (int, error) {
	return rc.r.Read(p)
}

func wrapInReadCloser(f *os.File, r io.Reader, err error) (io.ReadCloser, error) {
	if err != nil {
		f.Close()
		return nil, err
	}
	return &readerWrappedFile{f: f, r: r}, nil
}

// IsCompressedPath returns true if path names a compressed file
// handled by OpenFileMaybeCompressed
func IsCompressedPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".bz2", ".zst", ".zstd", ".br":
		return true
	}
	return false
}

// OpenFileMaybeCompressed opens a file that might be compressed with
// gzip or bzip2 or zstd or brotli, by extension
func OpenFileMaybeCompressed(path string) (io.ReadCloser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch ext {
	case ".gz":
		r, err := gzip.NewReader(f)
		return wrapInReadCloser(f, r, err)
	case ".bz2":
		r := bzip2.NewReader(f)
		return wrapInReadCloser(f, r, nil)
	case ".zst", ".zstd":
		r, err := zstd.NewReader(f)
		return wrapInReadCloser(f, r, err)
	case ".br":
		r := brotli.NewReader(f)
		return wrapInReadCloser(f, r, nil)
	}
	return f, nil
}

// ReadFileMaybeCompressed reads file, decompressing by extension
func ReadFileMaybeCompressed(path string) ([]byte, error) {
	r, err := OpenFileMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func getErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// GzipCompressData compresses d with best gzip compression
func GzipCompressData(d []byte) ([]byte, error) {
	var dst bytes.Buffer
	w, err := gzip.NewWriterLevel(&dst, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(d)
	err2 := w.Close()
	if err = getErr(err, err2); err != nil {
		return nil, err
	}
	return dst.Bytes(), nil
}

// BrCompressData compresses d with default brotli compression
func BrCompressData(d []byte) ([]byte, error) {
	var dst bytes.Buffer
	w := brotli.NewWriterLevel(&dst, brotli.DefaultCompression)
	_, err := w.Write(d)
	err2 := w.Close()
	if err = getErr(err, err2); err != nil {
		return nil, err
	}
	return dst.Bytes(), nil
}

// ZstdCompressData compresses d with zstd
func ZstdCompressData(d []byte) ([]byte, error) {
	var dst bytes.Buffer
	// zstd.SpeedBestCompression is much slower and not much better
	w, err := zstd.NewWriter(&dst, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	_, err = w.Write(d)
	if err != nil {
		return nil, err
	}
	err = w.Close()
	if err != nil {
		return nil, err
	}
	return dst.Bytes(), nil
}

// ZstdDecompressData decompresses zstd-compressed d
func ZstdDecompressData(d []byte) ([]byte, error) {
	zr, err := zstd.NewReader(bytes.NewReader(d))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// CompressDataByExt compresses d the way path's extension asks for.
// An extension it doesn't know returns d unchanged.
func CompressDataByExt(path string, d []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return GzipCompressData(d)
	case ".zst", ".zstd":
		return ZstdCompressData(d)
	case ".br":
		return BrCompressData(d)
	}
	return d, nil
}
