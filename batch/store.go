package batch

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.etcd.io/bbolt"

	"github.com/katalvlaran/tspforge/tsp"
)

var runsBucket = []byte("runs")

// Store persists partition results in a bbolt file. Values are zstd-compressed
// JSON records keyed by run id (sub-bucket) and big-endian part index.
// A Store is safe for concurrent use.
type Store struct {
	db *bbolt.DB

	enc *zstd.Encoder
	dec *zstd.Decoder

	mu     sync.RWMutex
	closed bool
}

// record is the stored form of a part result.
type record struct {
	Tour         []int        `json:"tour"`
	Distance     float64      `json:"distance"`
	Strategy     tsp.Strategy `json:"strategy"`
	Iterations   int          `json:"iterations"`
	Improvements int          `json:"improvements"`
	Optimal      bool         `json:"optimal"`
	Fallbacks    []string     `json:"fallbacks,omitempty"`
	SavedAt      time.Time    `json:"saved_at"`
}

// OpenStore opens (creating if needed) the checkpoint file at path.
func OpenStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{
		Timeout:      5 * time.Second,
		NoGrowSync:   bbolt.DefaultOptions.NoGrowSync,
		FreelistType: bbolt.DefaultOptions.FreelistType,
	})
	if err != nil {
		return nil, fmt.Errorf("batch: open checkpoint store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("batch: init checkpoint store: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, enc: enc, dec: dec}, nil
}

func partKey(index int) []byte {
	var k [4]byte
	binary.BigEndian.PutUint32(k[:], uint32(index))

	return k[:]
}

// Save stores the result of part index under runID, replacing any earlier value.
func (s *Store) Save(runID string, index int, res tsp.Result) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	raw, err := json.Marshal(record{
		Tour:         res.Tour,
		Distance:     res.Distance,
		Strategy:     res.Strategy,
		Iterations:   res.Iterations,
		Improvements: res.Improvements,
		Optimal:      res.Optimal,
		Fallbacks:    res.Fallbacks,
		SavedAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("batch: encode partition %d: %w", index, err)
	}
	val := s.enc.EncodeAll(raw, nil)

	return s.db.Update(func(tx *bbolt.Tx) error {
		run, err := tx.Bucket(runsBucket).CreateBucketIfNotExists([]byte(runID))
		if err != nil {
			return err
		}

		return run.Put(partKey(index), val)
	})
}

// Load returns the stored result of part index, and false when none exists.
func (s *Store) Load(runID string, index int) (tsp.Result, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return tsp.Result{}, false, ErrStoreClosed
	}

	var val []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		run := tx.Bucket(runsBucket).Bucket([]byte(runID))
		if run == nil {
			return nil
		}
		if v := run.Get(partKey(index)); v != nil {
			// bbolt values are only valid inside the transaction.
			val = append([]byte(nil), v...)
		}

		return nil
	})
	if err != nil || val == nil {
		return tsp.Result{}, false, err
	}

	raw, err := s.dec.DecodeAll(val, nil)
	if err != nil {
		return tsp.Result{}, false, fmt.Errorf("batch: decompress partition %d: %w", index, err)
	}
	var rec record
	if err = json.Unmarshal(raw, &rec); err != nil {
		return tsp.Result{}, false, fmt.Errorf("batch: decode partition %d: %w", index, err)
	}

	return tsp.Result{
		Tour:         rec.Tour,
		Distance:     rec.Distance,
		Strategy:     rec.Strategy,
		Iterations:   rec.Iterations,
		Improvements: rec.Improvements,
		Optimal:      rec.Optimal,
		Fallbacks:    rec.Fallbacks,
	}, true, nil
}

// Runs lists the stored run ids in key order.
func (s *Store) Runs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	var ids []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(k, v []byte) error {
			if v == nil {
				ids = append(ids, string(k))
			}
			return nil
		})
	})

	return ids, err
}

// Delete removes every stored part of runID. Unknown ids are not an error.
func (s *Store) Delete(runID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		err := tx.Bucket(runsBucket).DeleteBucket([]byte(runID))
		if errors.Is(err, bbolt.ErrBucketNotFound) {
			return nil
		}

		return err
	})
}

// Close releases the codecs and the database file. Further calls are no-ops.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.dec.Close()
	_ = s.enc.Close()

	return s.db.Close()
}
