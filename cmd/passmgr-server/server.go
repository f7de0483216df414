// passmgr-server serves a credential store over HTTP on the local
// machine. Every request is handed to a single goroutine that owns
// the store file, so the file is only ever touched by one writer.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kisom/passmgr/common/config"
	"github.com/kisom/passmgr/common/password"
	"github.com/kisom/passmgr/common/store"
	"github.com/kisom/passmgr/common/util"
)

const maxBody = 64 * 1024

type command struct {
	op        string
	website   string
	record    store.Record
	overwrite bool
	cb        chan *response
}

type response struct {
	status int
	out    []byte
	err    error
}

type server struct {
	file     *store.File
	dispatch chan command
}

func newServer(f *store.File) *server {
	return &server{
		file:     f,
		dispatch: make(chan command, 16),
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func jsonResponse(status int, v interface{}) *response {
	out, err := json.Marshal(v)
	if err != nil {
		return &response{err: err}
	}
	return &response{status: status, out: out}
}

func (s *server) save(cmd command) *response {
	p, err := s.file.Propose(cmd.website, cmd.record)
	if err != nil {
		return &response{err: err}
	}

	if p.Fresh {
		if ok, _ := util.Exists(s.file.Path); ok {
			log.Printf("WARNING: %s couldn't be read and will be replaced", s.file.Path)
		}
	}

	if p.Overwrites() && !cmd.overwrite {
		log.Printf("not overwriting %s without confirmation", p.Website)
		return &response{
			status: http.StatusConflict,
			out:    []byte(p.Question()),
		}
	}

	if err = p.Commit(); err != nil {
		return &response{err: err}
	}

	status := http.StatusCreated
	if p.Overwrites() {
		status = http.StatusOK
	}
	return &response{status: status, out: []byte("stored " + p.Website)}
}

func (s *server) process(cmd command) *response {
	switch cmd.op {
	case "generate":
		log.Printf("generate request")
		return &response{status: http.StatusOK, out: []byte(password.Generate())}
	case "list":
		log.Printf("list request")
		names, err := s.file.List()
		if errors.Is(err, store.ErrNoStore) {
			names = []string{}
		} else if err != nil {
			return &response{err: err}
		}
		return jsonResponse(http.StatusOK, names)
	case "lookup":
		log.Printf("lookup request for %s", store.Normalize(cmd.website))
		rec, err := s.file.Lookup(cmd.website)
		if err != nil {
			return &response{err: err}
		}
		return jsonResponse(http.StatusOK, rec)
	case "save":
		log.Printf("save request for %s", store.Normalize(cmd.website))
		return s.save(cmd)
	case "remove":
		log.Printf("remove request for %s", store.Normalize(cmd.website))
		if err := s.file.Remove(cmd.website); err != nil {
			return &response{err: err}
		}
		return &response{status: http.StatusOK, out: []byte("removed " + store.Normalize(cmd.website))}
	default:
		return &response{status: http.StatusBadRequest, err: errors.New("invalid command")}
	}
}

// run processes commands until the dispatch channel is closed.
func (s *server) run() {
	for cmd := range s.dispatch {
		cmd.cb <- s.process(cmd)
	}
}

func (s *server) sendCommand(w http.ResponseWriter, cmd command) {
	cmd.cb = make(chan *response, 1)
	s.dispatch <- cmd
	resp := <-cmd.cb

	if resp.err != nil {
		status := resp.status
		if status == 0 {
			status = errorStatus(resp.err)
		}
		if status == http.StatusInternalServerError {
			log.Printf("request failed: %v", resp.err)
		}
		w.WriteHeader(status)
		w.Write([]byte(store.Describe(resp.err)))
		return
	}

	w.WriteHeader(resp.status)
	w.Write(resp.out)
}

func (s *server) generate(w http.ResponseWriter, r *http.Request) {
	s.sendCommand(w, command{op: "generate"})
}

func (s *server) listSites(w http.ResponseWriter, r *http.Request) {
	s.sendCommand(w, command{op: "list"})
}

func (s *server) getSite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.sendCommand(w, command{op: "lookup", website: vars["website"]})
}

func (s *server) putSite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	r.Body.Close()

	var rec store.Record
	if err = json.Unmarshal(body, &rec); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid record: " + err.Error()))
		return
	}

	s.sendCommand(w, command{
		op:        "save",
		website:   vars["website"],
		record:    rec,
		overwrite: r.URL.Query().Get("overwrite") == "true",
	})
}

func (s *server) deleteSite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	s.sendCommand(w, command{op: "remove", website: vars["website"]})
}

func (s *server) router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/generate", s.generate).Methods(http.MethodGet)
	router.HandleFunc("/sites", s.listSites).Methods(http.MethodGet)
	router.HandleFunc("/sites/{website}", s.getSite).Methods(http.MethodGet)
	router.HandleFunc("/sites/{website}", s.putSite).Methods(http.MethodPut)
	router.HandleFunc("/sites/{website}", s.deleteSite).Methods(http.MethodDelete)
	return router
}

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "path to config file")
	address := flag.String("a", "", "listening address")
	storePath := flag.String("f", "", "path to credential store")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load %s: %v", *cfgPath, err)
	}

	if *address == "" {
		*address = cfg.ListenAddr()
	}

	if *storePath == "" {
		*storePath = cfg.StorePath()
	}

	s := newServer(store.Open(*storePath))
	go s.run()

	srv := &http.Server{
		Addr:              *address,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("passmgr-server %s serving %s on %s", util.VersionString(), *storePath, *address)
	log.Fatal(srv.ListenAndServe())
}
