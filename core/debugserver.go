package core

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Status 守护进程状态，供排障使用
type Status struct {
	Running    bool   `json:"running"`
	APIPort    int    `json:"apiPort"`
	ConfigPath string `json:"configPath"`
}

// DebugServer serves pprof and a status page on the debugger address.
type DebugServer struct {
	srv *http.Server
	ln  net.Listener

	wg sync.WaitGroup
}

func StartDebugServer(addr string, status func(ctx context.Context) Status) (*DebugServer, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/status", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status(req.Context())); err != nil {
			log.Warnf("Unable to write status: %v", err)
		}
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	d := &DebugServer{
		srv: &http.Server{Handler: mux},
		ln:  ln,
	}
	d.wg.Add(1)
	go d.listen()
	return d, nil
}

func (d *DebugServer) Addr() string {
	return d.ln.Addr().String()
}

func (d *DebugServer) listen() {
	defer d.wg.Done()

	log.Infof("Debugger listening on %s", d.Addr())
	if err := d.srv.Serve(d.ln); err != http.ErrServerClosed {
		log.Errorf("Debugger stopped: %v", err)
	}
}

func (d *DebugServer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := d.srv.Shutdown(ctx); err != nil {
		log.Warnf("Debugger shutdown: %v", err)
	}
	d.wg.Wait()
}
