package upload

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// CompressReader returns a reader yielding the zstd-compressed form of src.
// Compression runs in a goroutine feeding a pipe, so nothing is buffered
// beyond the encoder's window. Close releases the goroutine if the consumer
// stops early.
func CompressReader(src io.Reader) io.ReadCloser {
	pr, pw := io.Pipe()

	go func() {
		enc, err := zstd.NewWriter(pw, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(enc, src); err != nil {
			_ = enc.Close()
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(enc.Close())
	}()

	return pr
}
