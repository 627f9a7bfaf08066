package seed

import "errors"

// bytesProvider feeds raw bytes to koanf so the embedded catalog goes
// through the same parser as files on disk.
type bytesProvider struct {
	b []byte
}

func (p bytesProvider) ReadBytes() ([]byte, error) {
	return p.b, nil
}

func (p bytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("bytes provider does not support Read")
}
