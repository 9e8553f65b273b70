package internal

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"filedrop/observability"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key       string
	Namespace string
	Detail    string
}

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  observability.TransferSnapshot
}

// StartInspectServer exposes the client state store and the transfer
// counters over HTTP for troubleshooting. Development only; it listens on
// all interfaces and has no auth.
func StartInspectServer(db *badger.DB, stats *observability.TransferStats, port int) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")

		data := PageData{
			Prefix: prefix,
			Stats:  stats.Snapshot(),
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapRow(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

// mapRow splits the "namespace:name" key convention used by the
// repositories. Token values are never echoed.
func mapRow(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		Namespace: "default",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}
	if parts := strings.SplitN(key, ":", 2); len(parts) == 2 {
		row.Namespace = parts[0]
	}
	return row
}
