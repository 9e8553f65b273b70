package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"

	"filedrop/domain"
)

func main() {
	dbPath := flag.String("db", ".filedrop/state", "Path to the badger state store")
	prefix := flag.String("prefix", "", "Prefix to scan (auth: or cache:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				table.Append([]string{key, kind(key), describe(key, v)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func kind(key string) string {
	switch {
	case strings.HasPrefix(key, "auth:"):
		return "CREDENTIAL"
	case strings.HasPrefix(key, "cache:"):
		return "SNAPSHOT"
	default:
		return "RAW"
	}
}

// describe summarizes a value without leaking secrets: the token is shown
// only by length.
func describe(key string, v []byte) string {
	if strings.HasPrefix(key, "auth:") {
		return fmt.Sprintf("token, %d bytes (redacted)", len(v))
	}
	if strings.HasPrefix(key, "cache:") {
		var snap struct {
			SavedAt time.Time             `json:"savedAt"`
			Files   []domain.UploadedFile `json:"files"`
		}
		if err := json.Unmarshal(v, &snap); err != nil {
			return fmt.Sprintf("unreadable snapshot: %v", err)
		}
		return fmt.Sprintf("%d files, saved %s", len(snap.Files), snap.SavedAt.Format("15:04:05"))
	}
	return fmt.Sprintf("Size: %d bytes", len(v))
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// A crashed CLI run can leave the value log in need of a truncate;
		// one writable open repairs it.
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
