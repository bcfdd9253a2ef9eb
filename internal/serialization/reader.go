package serialization

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Read decodes a SafeTensors stream. The header is validated before any array is
// accepted and the data checksum is verified when the metadata carries one.
func Read(r io.Reader) (*File, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, errors.Wrap(err, "failed to read header size")
	}
	if headerSize > MaxHeaderSize {
		return nil, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}
	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}
	var h header
	if err := json.Unmarshal(headerBytes, &h); err != nil {
		return nil, errors.Wrapf(ErrMalformedHeader, "%v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read array data")
	}
	if err := validateHeader(&h, int64(len(data))); err != nil {
		return nil, err
	}

	f := New()
	for k, v := range h.Metadata {
		f.Metadata[k] = v
	}
	sum := sha256.New()
	for _, name := range h.names() {
		info := h.Arrays[name]
		chunk := data[info.DataOffsets[0]:info.DataOffsets[1]]
		f.infos[name] = Info{DType: info.DType, Shape: info.Shape}
		f.data[name] = chunk
		sum.Write(chunk)
	}
	if stored, ok := h.Metadata[ChecksumKey]; ok {
		want, err := hex.DecodeString(stored)
		if err != nil {
			return nil, errors.Wrapf(ErrChecksumMalformed, "%q", stored)
		}
		if got := sum.Sum(nil); string(got) != string(want) {
			return nil, errors.WithStack(ErrChecksumMismatch)
		}
	}
	klog.V(1).Infof("serialization: read %d arrays, %d data bytes", len(f.infos), len(data))
	return f, nil
}

// ReadFile reads a SafeTensors file.
func ReadFile(path string) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer func() {
		_ = file.Close() // Best effort close
	}()
	return Read(bufio.NewReader(file))
}
