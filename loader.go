package holdings

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Named portfolios are plain .jsonl ledger files under a portfolio
// directory. The portfolio name is the file's relative path without the
// extension, so "2024/broker" lives at "<path>/2024/broker.jsonl".

// FindLedger returns the unique ledger matching the name.
// If the query is empty and no ledger exists, an empty default ledger is
// returned so a fresh directory is usable without ceremony.
func FindLedger(path, query string) (*Ledger, error) {
	ledgerPaths, err := findLedgerPaths(path, query)
	if err != nil {
		return nil, err
	}
	switch len(ledgerPaths) {
	case 0:
		if query == "" {
			l := NewLedger()
			l.name = "transactions"
			return l, nil
		}
		return nil, fmt.Errorf("could not find portfolio %q", query)
	case 1:
		return loadLedgerFile(path, ledgerPaths[0])
	default:
		return nil, fmt.Errorf("multiple portfolios found for %q", query)
	}
}

// FindLedgers discovers and loads ledger files from a portfolio path.
// If query is empty, all ledgers in the path are loaded; otherwise only the
// named one.
func FindLedgers(path, query string) ([]*Ledger, error) {
	ledgerPaths, err := findLedgerPaths(path, query)
	if err != nil {
		return nil, err
	}

	var loadedLedgers []*Ledger
	for _, fullPath := range ledgerPaths {
		ledger, err := loadLedgerFile(path, fullPath)
		if err != nil {
			// Fail fast: a corrupt portfolio file is worth stopping for.
			return nil, err
		}
		loadedLedgers = append(loadedLedgers, ledger)
	}
	return loadedLedgers, nil
}

// ListLedgers returns the names of all portfolios under the path, sorted by
// walk order.
func ListLedgers(path string) ([]string, error) {
	ledgerPaths, err := findLedgerPaths(path, "")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ledgerPaths))
	for _, p := range ledgerPaths {
		relPath, err := filepath.Rel(path, p)
		if err != nil {
			return nil, err
		}
		names = append(names, strings.TrimSuffix(relPath, ".jsonl"))
	}
	return names, nil
}

// loadLedgerFile opens, decodes, and names a ledger from a file path.
func loadLedgerFile(portfolioPath, fullPath string) (*Ledger, error) {
	relPath, err := filepath.Rel(portfolioPath, fullPath)
	if err != nil {
		return nil, fmt.Errorf("could not determine relative path for %q: %w", fullPath, err)
	}
	ledgerName := strings.TrimSuffix(relPath, ".jsonl")

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("could not open portfolio file %q: %w", fullPath, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode portfolio file %q: %w", fullPath, err)
	}
	ledger.name = ledgerName
	return ledger, nil
}

// SaveLedger saves a ledger to its file under the portfolio path, creating
// intermediate directories as needed.
func SaveLedger(path string, ledger *Ledger) error {
	ledgerName := ledger.Name()
	if ledgerName == "" {
		return fmt.Errorf("cannot save portfolio with an empty name")
	}

	filePath := filepath.Join(path, ledgerName+".jsonl")
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("could not create directory for portfolio %q: %w", filePath, err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("error opening portfolio file %q for writing: %w", filePath, err)
	}
	defer file.Close()

	return EncodeLedger(file, ledger)
}

// DeleteLedger removes a named portfolio file.
func DeleteLedger(path, name string) error {
	if name == "" {
		return fmt.Errorf("cannot delete portfolio with an empty name")
	}
	filePath := filepath.Join(path, name+".jsonl")
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("could not delete portfolio %q: %w", name, err)
	}
	return nil
}

// findLedgerPaths scans a directory for ledger files matching the query.
func findLedgerPaths(path, query string) ([]string, error) {
	var ledgers []string

	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".jsonl") {
			relPath, err := filepath.Rel(path, p)
			if err != nil {
				return err
			}
			ledgerName := strings.TrimSuffix(relPath, ".jsonl")
			if query == "" || ledgerName == query {
				ledgers = append(ledgers, p)
			}
		}
		return nil
	})
	if os.IsNotExist(err) {
		// A missing portfolio directory is an empty one.
		return nil, nil
	}
	return ledgers, err
}
