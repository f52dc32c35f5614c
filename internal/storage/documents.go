// Package storage resolves document references to bytes and persists form,
// template and submission records. It is the single decode boundary: callers
// always receive strongly-typed structures, never raw JSON.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DocumentStore resolves opaque document references. A reference is either
// an http(s) URL or a path relative to the configured documents directory;
// local paths are confined to that directory. Bytes are fetched fresh per
// operation and never cached.
type DocumentStore struct {
	baseDir     string
	maxFileSize int64
	client      *http.Client
}

// NewDocumentStore creates a document store rooted at baseDir.
func NewDocumentStore(baseDir string, maxFileSize int64) (*DocumentStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("documents directory cannot be empty")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve documents directory: %w", err)
	}
	return &DocumentStore{
		baseDir:     abs,
		maxFileSize: maxFileSize,
		client:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// BaseDir returns the configured documents directory.
func (s *DocumentStore) BaseDir() string {
	return s.baseDir
}

// Fetch resolves a document reference to its raw bytes.
func (s *DocumentStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("document reference cannot be empty")
	}
	if isURL(ref) {
		return s.fetchURL(ctx, ref)
	}
	return s.fetchFile(ref)
}

// Put stores uploaded document bytes under the documents directory and
// returns the reference future fetches resolve.
func (s *DocumentStore) Put(name string, data []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("document name cannot be empty")
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return "", fmt.Errorf("document too large: %d bytes (max: %d bytes)", len(data), s.maxFileSize)
	}
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create documents directory: %w", err)
	}
	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}
	rel, err := filepath.Rel(s.baseDir, path)
	if err != nil {
		return "", fmt.Errorf("failed to relativize document path: %w", err)
	}
	return rel, nil
}

func (s *DocumentStore) fetchFile(ref string) ([]byte, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("document does not exist: %s", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("document reference is a directory: %s", ref)
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		return nil, fmt.Errorf("document too large: %d bytes (max: %d bytes)", info.Size(), s.maxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

func (s *DocumentStore) fetchURL(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid document URL: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch document: unexpected status %s", resp.Status)
	}

	reader := io.Reader(resp.Body)
	if s.maxFileSize > 0 {
		reader = io.LimitReader(resp.Body, s.maxFileSize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read document body: %w", err)
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("document too large (max: %d bytes)", s.maxFileSize)
	}
	return data, nil
}

// resolve confines a local reference to the documents directory, rejecting
// traversal outside it.
func (s *DocumentStore) resolve(ref string) (string, error) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve document path: %w", err)
	}
	clean := filepath.Clean(abs)

	dirWithSep := s.baseDir
	if !strings.HasSuffix(dirWithSep, string(filepath.Separator)) {
		dirWithSep += string(filepath.Separator)
	}
	if clean != s.baseDir && !strings.HasPrefix(clean, dirWithSep) {
		return "", fmt.Errorf("document reference is outside the documents directory: %s", ref)
	}
	return clean, nil
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
