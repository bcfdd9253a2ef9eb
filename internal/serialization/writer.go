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

// WriteTo writes the file in SafeTensors format. Arrays are laid out in alphabetical
// order of their names and the checksum of the data section is added to the metadata.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	h := header{Metadata: make(map[string]string, len(f.Metadata)+1), Arrays: make(map[string]Info, len(f.infos))}
	for k, v := range f.Metadata {
		h.Metadata[k] = v
	}
	names := f.Names()
	sum := sha256.New()
	var offset int64
	for _, name := range names {
		info := f.infos[name]
		size := int64(len(f.data[name]))
		info.DataOffsets = [2]int64{offset, offset + size}
		h.Arrays[name] = info
		offset += size
		sum.Write(f.data[name])
	}
	h.Metadata[ChecksumKey] = hex.EncodeToString(sum.Sum(nil))

	headerJSON, err := json.Marshal(&h)
	if err != nil {
		return 0, errors.Wrap(err, "failed to marshal header")
	}

	var written int64
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return written, errors.Wrap(err, "failed to write header size")
	}
	written += 8
	n, err := w.Write(headerJSON)
	written += int64(n)
	if err != nil {
		return written, errors.Wrap(err, "failed to write header")
	}
	for _, name := range names {
		n, err := w.Write(f.data[name])
		written += int64(n)
		if err != nil {
			return written, errors.Wrapf(err, "failed to write array %s", name)
		}
	}
	klog.V(1).Infof("serialization: wrote %d arrays, %d bytes", len(names), written)
	return written, nil
}

// WriteFile writes f to path in SafeTensors format.
func WriteFile(path string, f *File) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for saving
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "failed to close file")
		}
	}()
	bw := bufio.NewWriter(file)
	if _, err := f.WriteTo(bw); err != nil {
		return err
	}
	return errors.Wrap(bw.Flush(), "failed to flush file")
}
