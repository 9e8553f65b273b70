package query

import (
	"github.com/samber/lo"

	"filedrop/domain"
)

// ReconcileUpload folds a freshly uploaded record into a cached listing
// without a round trip. A record whose id is already present replaces the
// stale row in place; an unknown id is prepended so the newest upload leads
// the listing. The result never holds two rows with the same id.
func ReconcileUpload(files []domain.UploadedFile, uploaded domain.UploadedFile) []domain.UploadedFile {
	_, index, found := lo.FindIndexOf(files, func(f domain.UploadedFile) bool {
		return f.ID == uploaded.ID
	})
	if found {
		next := make([]domain.UploadedFile, len(files))
		copy(next, files)
		next[index] = uploaded
		return next
	}
	next := make([]domain.UploadedFile, 0, len(files)+1)
	next = append(next, uploaded)
	return append(next, files...)
}
