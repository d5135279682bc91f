package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/archway-warp/warp-cli/internal/infra/filesystem"
	"github.com/archway-warp/warp-cli/internal/logger"
	"github.com/gofrs/flock"
)

// FileName is the ledger file kept next to Warp.toml.
const FileName = "Deployment.toml"

var ErrLocked = errors.New("deployment ledger is locked by another warp process")

// Ledger maps a chain id to the contract address of every deployed step on that chain.
type Ledger struct {
	Deployment map[string]map[string]string `toml:"deployment"`
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{Deployment: map[string]map[string]string{}}
}

// Network returns the mutable step map for chainID, creating it when absent.
func (l *Ledger) Network(chainID string) map[string]string {
	if l.Deployment == nil {
		l.Deployment = map[string]map[string]string{}
	}

	network, ok := l.Deployment[chainID]
	if !ok {
		network = map[string]string{}
		l.Deployment[chainID] = network
	}
	return network
}

// Lookup returns the recorded address of stepID on chainID.
func (l *Ledger) Lookup(chainID, stepID string) (string, bool) {
	address, ok := l.Deployment[chainID][stepID]
	return address, ok
}

// Store persists a ledger under a project root.
type Store struct {
	path   string
	reader filesystem.Reader
	writer filesystem.Writer
	lock   *flock.Flock
	logger *slog.Logger
}

func NewStore(root string, reader filesystem.Reader, writer filesystem.Writer) *Store {
	path := filepath.Join(root, FileName)
	return &Store{
		path:   path,
		reader: reader,
		writer: writer,
		lock:   flock.New(path + ".lock"),
		logger: logger.Named("ledger"),
	}
}

// Path returns the location of the ledger file.
func (s *Store) Path() string {
	return s.path
}

// Lock takes the advisory ledger lock without waiting. The returned function releases it.
func (s *Store) Lock() (func() error, error) {
	locked, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock '%s': %w", s.lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: '%s'", ErrLocked, s.lock.Path())
	}

	s.logger.Debug("Acquired ledger lock", "path", s.lock.Path())
	return s.lock.Unlock, nil
}

// Load reads the ledger. A missing file yields an empty ledger.
func (s *Store) Load() (*Ledger, error) {
	ledger := New()
	if err := s.reader.ReadTOML(s.path, ledger); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("No deployment ledger yet", "path", s.path)
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read '%s': %w", FileName, err)
	}

	if ledger.Deployment == nil {
		ledger.Deployment = map[string]map[string]string{}
	}
	return ledger, nil
}

// Save writes every network of the ledger back to disk.
func (s *Store) Save(ledger *Ledger) error {
	if err := s.writer.WriteTOML(s.path, ledger); err != nil {
		return fmt.Errorf("failed to save '%s': %w", FileName, err)
	}

	s.logger.Debug("Saved deployment ledger", "path", s.path, "networks", len(ledger.Deployment))
	return nil
}
