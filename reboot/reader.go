package reboot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	zstdMagic   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

type readCloser struct {
	io.Reader
	close func() error
}

func (rc readCloser) Close() error {
	if rc.close == nil {
		return nil
	}
	return rc.close()
}

// NewReader returns a reader of the uncompressed stream.  Gzip, zstd and framed snappy
// streams are detected by their magic bytes; anything else is passed through.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(snappyMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("can't read gzip stream: %v", err)
		}
		return zr, nil
	case bytes.HasPrefix(magic, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("can't read zstd stream: %v", err)
		}
		return dec.IOReadCloser(), nil
	case bytes.HasPrefix(magic, snappyMagic):
		return readCloser{Reader: snappy.NewReader(br)}, nil
	default:
		return readCloser{Reader: br}, nil
	}
}

// ReadProcedure reads a text or JSON procedure from a possibly compressed stream.
// JSON is recognized by a leading '{'.
func ReadProcedure(r io.Reader) (*Procedure, error) {
	rc, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if trimmed := bytes.TrimLeft(head, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '{' {
		return DecodeJSON(br)
	}
	return ParseProcedure(br)
}

// ReadProcedureFile reads a procedure from the named file, or from stdin if path is "-".
func ReadProcedureFile(path string) (*Procedure, error) {
	if path == "-" {
		return ReadProcedure(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	proc, err := ReadProcedure(f)
	if err != nil {
		return nil, fmt.Errorf("procedure file %q: %v", path, err)
	}
	return proc, nil
}
