package main

import (
	"net/http"

	"github.com/gorilla/mux"
)

func service(cfg *config, fsys FileSystem) http.Handler {
	const pathPrefix = "/"

	file := serveFileHandler(cfg, fsys)

	r := mux.NewRouter()
	// Traversal paths have to reach filePathMiddleware as sent; a cleaning
	// router would redirect them instead.
	r.SkipClean(true)
	r.PathPrefix(pathPrefix).Handler(file)
	// Requests without a leading slash, such as the empty path.
	r.NotFoundHandler = file

	return recoveryHandler(r)
}
