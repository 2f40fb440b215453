package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore keeps dependent profile photos on local disk, namespaced by
// client id so one family's uploads stay together.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) *DiskStore {
	return &DiskStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

// Save writes the photo under <root>/<clientID>/ and returns its public URL.
func (s *DiskStore) Save(clientID uint, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty photo for client %d", clientID)
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	name := fmt.Sprintf("%s_%d%s", sanitize(base), time.Now().UnixNano(), ext)

	dir := filepath.Join(s.root, fmt.Sprint(clientID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/photos/%d/%s", s.baseURL, clientID, name), nil
}

// Root is the directory the router serves under /photos/.
func (s *DiskStore) Root() string { return s.root }

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "photo"
	}
	return b.String()
}
