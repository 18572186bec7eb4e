package main

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/unrolled/render"
)

type key int

const (
	keyFileName key = iota
)

const (
	badRequestBody = "Bad request"
	notFoundBody   = "Not Found"
)

var (
	ren = render.New(render.Options{Charset: "UTF-8"})

	plog = capnslog.NewPackageLogger("github.com/twsiyuan/static-file-server", "main")
)

// recoveryHandler is a handler that logs panics and aborts the connection
// instead of letting them reach the listener.
func recoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err != http.ErrAbortHandler {
					stack := make([]byte, 5012)
					stack = stack[:runtime.Stack(stack, false)]
					plog.Errorf("Unexpected error serving %s: %v, in %s", req.URL.Path, err, stack)
				}
				panic(http.ErrAbortHandler)
			}
		}()

		next.ServeHTTP(w, req)
	})
}

// requestPath returns the percent-decoded path of u, query excluded.
func requestPath(u *url.URL) (string, error) {
	raw := u.RawPath
	if raw == "" {
		raw = u.EscapedPath()
	}
	return url.PathUnescape(raw)
}

// withinRoot reports whether the cleaned absolute path name lies inside root.
func withinRoot(root, name string) bool {
	if name == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(name, prefix)
}

// resolvePath maps a request path to an absolute file name under cfg.Root.
// ok is false if the path cannot be decoded or escapes the root.
func resolvePath(cfg *config, u *url.URL) (name string, ok bool) {
	p, err := requestPath(u)
	if err != nil {
		return "", false
	}
	if p == "/" || p == "" {
		p = "/" + cfg.DefaultDocument
	}

	name = filepath.Join(cfg.Root, filepath.FromSlash(p))
	if !withinRoot(cfg.Root, name) {
		return "", false
	}
	return name, true
}

// filePathMiddleware is a middleware that converts URL path to physical file path, then stores the file path into context
//
// Paths that fail to decode or resolve outside the document root are answered with http.StatusBadRequest
// before anything touches the filesystem.
func filePathMiddleware(cfg *config, next http.Handler) http.Handler {
	if len(cfg.Root) <= 0 {
		panic("document root should not be empty")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fileName, ok := resolvePath(cfg, req.URL)
		if !ok {
			ren.Text(w, http.StatusBadRequest, badRequestBody)
			return
		}

		ctx := context.WithValue(req.Context(), keyFileName, fileName)
		req = req.WithContext(ctx)
		next.ServeHTTP(w, req)
	})
}

// fileExistsMiddleware is a middleware that check a regular file exists at certain path, the path is from Context()
//
// If it does not, it will response http.StatusNotFound
//
// Note: Must pass filePathMiddleware
func fileExistsMiddleware(fsys FileSystem, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fileName := req.Context().Value(keyFileName).(string)

		ok := false
		if fileInfo, err := fsys.Stat(fileName); err == nil {
			ok = fileInfo.Mode().IsRegular()
		}

		if !ok {
			notFound(w)
			return
		}

		next.ServeHTTP(w, req)
	})
}

// streamFileHandler is a handler that copies the file to the response body
//
// Note: Must pass fileExistsMiddleware
func streamFileHandler(fsys FileSystem) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fileName := req.Context().Value(keyFileName).(string)

		f, err := fsys.Open(fileName)
		if err != nil {
			notFound(w)
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", contentType(fileName))
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, f); err != nil {
			if req.Context().Err() != nil {
				plog.Debugf("Client went away while serving %s: %v", req.URL.Path, err)
				return
			}
			plog.Warningf("Streaming %s failed: %v", fileName, err)
			panic(http.ErrAbortHandler)
		}
	})
}

// serveFileHandler is a handler that resolves the request path and serves the file behind it
func serveFileHandler(cfg *config, fsys FileSystem) http.Handler {
	return filePathMiddleware(cfg, fileExistsMiddleware(fsys, streamFileHandler(fsys)))
}

func notFound(w http.ResponseWriter) {
	ren.Text(w, http.StatusNotFound, notFoundBody)
}
