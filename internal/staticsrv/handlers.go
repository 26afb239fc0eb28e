package staticsrv

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/julienschmidt/httprouter"
)

const indexPage = "index.html"

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
}

func (s *Server) setupRoutes() {
	s.router.GET("/*filepath", s.handleFile())
	s.router.HEAD("/*filepath", s.handleFile())
	s.router.OPTIONS("/*filepath", s.handlePreflight())
}

// handleFile serves a file under root. Directories resolve to their index page,
// they are never listed.
func (s *Server) handleFile() httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, p httprouter.Params) {
		name := p.ByName("filepath")
		if containsDotDot(name) {
			http.Error(w, "403 Forbidden", http.StatusForbidden)
			return
		}

		f, info, err := s.open(name)
		if err != nil {
			sendFSError(w, err)
			return
		}
		defer f.Close()

		http.ServeContent(w, req, info.Name(), info.ModTime(), f)
	}
}

// handlePreflight acknowledges CORS preflight requests for any path.
func (s *Server) handlePreflight() httprouter.Handle {
	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) open(name string) (http.File, fs.FileInfo, error) {
	name = path.Clean("/" + name)
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.IsDir() {
		return f, info, nil
	}

	f.Close()
	f, err = s.fs.Open(path.Join(name, indexPage))
	if err != nil {
		return nil, nil, err
	}
	info, err = f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, fs.ErrNotExist
	}
	return f, info, nil
}

func setCORSHeaders(h http.Header) {
	for k, v := range corsHeaders {
		h.Set(k, v)
	}
}

func sendFSError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "404 page not found", http.StatusNotFound)
	case errors.Is(err, fs.ErrPermission):
		http.Error(w, "403 Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
	}
}

func containsDotDot(v string) bool {
	if !strings.Contains(v, "..") {
		return false
	}
	for _, ent := range strings.FieldsFunc(v, isSlashRune) {
		if ent == ".." {
			return true
		}
	}
	return false
}

func isSlashRune(r rune) bool { return r == '/' || r == '\\' }
