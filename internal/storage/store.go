package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ErrTermCount indicates term labels that do not line up with the
// coefficient rows.
var ErrTermCount = errors.New("storage: term label count does not match coefficient rows")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	System     string             `json:"system"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Optimizer  string             `json:"optimizer"`
	Threshold  float64            `json:"threshold"`
	Iterations int                `json:"iterations"`
	Converged  bool               `json:"converged"`
	Equations  []string           `json:"equations,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata.json and coefficients.csv.
// The caller fills everything in meta except ID and Timestamp. Coefficient
// values are written in full precision so loads reproduce them exactly.
func (s *Store) Save(meta RunMetadata, terms []string, xi mat.Matrix) (string, error) {
	rows, cols := xi.Dims()
	if len(terms) != rows {
		return "", fmt.Errorf("%w: %d labels, %d rows", ErrTermCount, len(terms), rows)
	}

	runID := fmt.Sprintf("%s_%d", meta.System, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "coefficients.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"term"}
	for j := 0; j < cols; j++ {
		header = append(header, fmt.Sprintf("dx%d", j))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := 0; i < rows; i++ {
		row := []string{terms[i]}
		for j := 0; j < cols; j++ {
			row = append(row, strconv.FormatFloat(xi.At(i, j), 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadCoefficients reads a run's coefficient matrix back along with its
// term labels. Unlike List, a malformed file is an error here: the matrix
// is the primary artifact and silently dropping rows would corrupt it.
func (s *Store) LoadCoefficients(runID string) ([]string, *mat.Dense, error) {
	csvPath := filepath.Join(s.baseDir, runID, "coefficients.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 || len(records[0]) < 2 {
		return nil, nil, fmt.Errorf("storage: run %s has no coefficients", runID)
	}

	cols := len(records[0]) - 1
	terms := make([]string, 0, len(records)-1)
	xi := mat.NewDense(len(records)-1, cols, nil)

	for i, record := range records[1:] {
		if len(record) != cols+1 {
			return nil, nil, fmt.Errorf("storage: run %s row %d has %d fields, want %d", runID, i+1, len(record), cols+1)
		}
		terms = append(terms, record[0])
		for j := 1; j < len(record); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: run %s row %d: %w", runID, i+1, err)
			}
			xi.Set(i, j-1, v)
		}
	}

	return terms, xi, nil
}
