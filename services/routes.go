package services

import (
	"fmt"

	"filedrop/domain"
)

// Routes describes one backend contract. Two are in the wild: the standard
// REST family and the legacy /file/* family. Download and view are path
// templates over the file id; no network call is involved in building them.
type Routes struct {
	List           string
	Upload         string
	Login          string
	Register       string
	downloadFormat string
	viewFormat     string
}

var StandardRoutes = Routes{
	List:           "/files",
	Upload:         "/files",
	Login:          "/user/login",
	Register:       "/user/register",
	downloadFormat: "/files/%s",
	viewFormat:     "/files/%s",
}

// LegacyRoutes: note that view and download are the same endpoint there.
var LegacyRoutes = Routes{
	List:           "/file/getAll",
	Upload:         "/file/upload",
	Login:          "/user/login",
	Register:       "/user/register",
	downloadFormat: "/file/download/%s",
	viewFormat:     "/file/download/%s",
}

func RoutesFor(flavor string) (Routes, error) {
	switch flavor {
	case "", "standard":
		return StandardRoutes, nil
	case "legacy":
		return LegacyRoutes, nil
	default:
		return Routes{}, fmt.Errorf("unknown API flavor %q (want standard or legacy)", flavor)
	}
}

func (r Routes) DownloadURL(id domain.FileID) string {
	return fmt.Sprintf(r.downloadFormat, id)
}

func (r Routes) ViewURL(id domain.FileID) string {
	return fmt.Sprintf(r.viewFormat, id)
}
