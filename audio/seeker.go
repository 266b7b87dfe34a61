// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"fmt"
	"io"
)

// ReadSeeker returns r itself when it can seek. Otherwise the remaining data
// is buffered in memory, since several container parsers need random access
// to locate their chunks.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering audio data: %w", err)
	}

	return bytes.NewReader(data), nil
}
