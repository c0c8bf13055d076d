package codestream

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/cocosip/go-subband-codec/codec"
)

// Store persists a single representation and loads it back.
type Store interface {
	Save(rep *Representation) error
	Load() (*Representation, error)
}

// MemoryStore keeps the serialized codestream in memory.
type MemoryStore struct {
	mu  sync.Mutex
	buf []byte
}

// Save serializes rep into the store, replacing previous contents
func (m *MemoryStore) Save(rep *Representation) error {
	data, err := Marshal(rep)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.buf = data
	m.mu.Unlock()
	return nil
}

// Load parses the stored codestream
func (m *MemoryStore) Load() (*Representation, error) {
	m.mu.Lock()
	data := m.buf
	m.mu.Unlock()
	if data == nil {
		return nil, fmt.Errorf("%w: memory store is empty", codec.ErrPersistence)
	}
	return Read(bytes.NewReader(data))
}

// Bytes returns the stored codestream
func (m *MemoryStore) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buf
}

// FileStore persists the codestream to a file.
type FileStore struct {
	Path string
}

// Save writes rep to Path, creating or truncating the file
func (f FileStore) Save(rep *Representation) (err error) {
	data, err := Marshal(rep)
	if err != nil {
		return err
	}

	out, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", codec.ErrPersistence, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %v", codec.ErrPersistence, cerr)
		}
	}()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("%w: %v", codec.ErrPersistence, err)
	}
	return nil
}

// Load reads and parses the file at Path
func (f FileStore) Load() (*Representation, error) {
	in, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codec.ErrPersistence, err)
	}
	defer in.Close()

	return Read(in)
}
