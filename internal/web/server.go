package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"checktree/internal/docs"
	"checktree/internal/model"
	"checktree/internal/store"
	"checktree/internal/tree"
	"checktree/internal/vdom"

	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const DefaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

type ServerConfig struct {
	Addr string
	Dir  string

	// DatastarURL is where the page loads the datastar client from.
	DatastarURL string

	// Toggle overrides each tree's own partial-toggle policy when set.
	Toggle *model.PartialToggle
}

type Server struct {
	// mu serializes dispatches so two clicks can't interleave their
	// load/apply/save cycles.
	mu    sync.Mutex
	cfg   ServerConfig
	store store.Store
	tmpl  *template.Template

	bc        *broadcaster
	watcher   *storeWatcher
	closeOnce sync.Once
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	cfg.DatastarURL = strings.TrimSpace(cfg.DatastarURL)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Dir == "" {
		return nil, errors.New("web: dir is empty")
	}
	if cfg.DatastarURL == "" {
		cfg.DatastarURL = DefaultDatastarURL
	}

	st := store.Store{Dir: cfg.Dir}
	if err := st.Ensure(); err != nil {
		return nil, err
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	srv := &Server{cfg: cfg, store: st, tmpl: tmpl, bc: newBroadcaster()}
	w, err := newStoreWatcher(cfg.Dir, srv.bc.broadcastAll)
	if err != nil {
		// Streams still update on local dispatches.
		log.Printf("web: store watcher disabled: %v", err)
	} else {
		srv.watcher = w
		w.Start()
	}
	return srv, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Close() {
	s.closeOnce.Do(func() {
		if s.watcher != nil {
			s.watcher.Close()
		}
	})
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/tree.css", s.handleTreeCSS)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /docs", s.handleDocs)
	mux.HandleFunc("GET /docs/{topic}", s.handleDocs)
	mux.HandleFunc("GET /trees/{treeId}", s.handleTree)
	mux.HandleFunc("GET /trees/{treeId}/events", s.handleTreeEvents)
	mux.HandleFunc("POST /trees/{treeId}/dispatch/{handlerId}", s.handleDispatch)
	return mux
}

// Serve runs the server on ln until ctx is cancelled. The store watcher is
// closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.Close()

	hs := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("web: listening on http://%s", ln.Addr())
		errCh <- hs.Serve(ln)
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleTreeCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/tree.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

type baseVM struct {
	Title       string
	DatastarURL string
}

type homeVM struct {
	baseVM
	Trees []store.TreeSummary
}

type treeVM struct {
	baseVM
	ID        string
	Label     string
	Toggle    string
	StreamURL string
	TreeHTML  template.HTML
}

type docsVM struct {
	baseVM
	Topics []string
	Body   template.HTML
}

func (s *Server) base(title string) baseVM {
	return baseVM{Title: title, DatastarURL: s.cfg.DatastarURL}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	trees, err := s.store.ListTrees(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeHTMLTemplate(w, "home.html", homeVM{baseVM: s.base("checktree"), Trees: trees})
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	vm := docsVM{baseVM: s.base("checktree docs"), Topics: docs.Topics()}
	if topic := r.PathValue("topic"); topic != "" {
		body, ok := docs.Get(topic)
		if !ok {
			http.NotFound(w, r)
			return
		}
		vm.Title = "checktree docs: " + topic
		vm.Body = renderMarkdownHTML(body)
	}
	s.writeHTMLTemplate(w, "docs.html", vm)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("treeId"))
	c, err := s.open(r.Context(), id, nil)
	if err != nil {
		s.writeOpenError(w, err)
		return
	}
	body, err := s.renderTree(c)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	def := c.Def()
	label := strings.TrimSpace(def.Label)
	if label == "" {
		label = def.ID
	}
	s.writeHTMLTemplate(w, "tree.html", treeVM{
		baseVM:    s.base(label),
		ID:        def.ID,
		Label:     label,
		Toggle:    c.Toggle().String(),
		StreamURL: "/trees/" + url.PathEscape(def.ID) + "/events",
		TreeHTML:  template.HTML(body),
	})
}

// handleTreeEvents keeps a datastar stream open and re-patches the tree
// whenever it changes.
func (s *Server) handleTreeEvents(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("treeId"))
	if _, err := s.store.LoadTree(r.Context(), id); err != nil {
		s.writeOpenError(w, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	ch, cancel := s.bc.hubFor(id).subscribe()
	defer cancel()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	s.patchTree(sse, id)
	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			s.patchTree(sse, id)
		}
	}
}

// handleDispatch routes a browser event to the node handler it was bound to,
// persists the result, and answers with the re-rendered tree.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("treeId"))
	hid := r.PathValue("handlerId")

	s.mu.Lock()
	var changed *tree.Change
	c, err := s.open(r.Context(), id, func(ch tree.Change) { changed = &ch })
	if err != nil {
		s.mu.Unlock()
		s.writeOpenError(w, err)
		return
	}
	frame := vdom.Mount(c.Render())
	if err := frame.Dispatch(hid, vdom.Event{}); err != nil {
		s.mu.Unlock()
		if errors.Is(err, vdom.ErrNoHandler) {
			// The page was rendered from a tree shape that no longer exists.
			http.Error(w, "stale handler: "+hid, http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if changed != nil && changed.Err != nil {
		s.mu.Unlock()
		http.Error(w, changed.Err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := s.store.SaveState(r.Context(), id, c.State()); err != nil {
		s.mu.Unlock()
		log.Printf("web: save %s: %v", id, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.mu.Unlock()

	s.bc.broadcast(id)

	sse := datastar.NewSSE(w, r)
	html, err := s.renderTree(c)
	if err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		return
	}
	_ = sse.PatchElements(html, datastar.WithSelector(treeSelector(id)), datastar.WithMode(datastar.ElementPatchModeInner))
}

func (s *Server) patchTree(sse *datastar.ServerSentEventGenerator, id string) {
	c, err := s.open(sse.Context(), id, nil)
	if err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		return
	}
	html, err := s.renderTree(c)
	if err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		return
	}
	_ = sse.PatchElements(html, datastar.WithSelector(treeSelector(id)), datastar.WithMode(datastar.ElementPatchModeInner))
}

func (s *Server) open(ctx context.Context, id string, hook func(tree.Change)) (*tree.Controller, error) {
	var opts []tree.Option
	if s.cfg.Toggle != nil {
		opts = append(opts, tree.WithToggle(*s.cfg.Toggle))
	}
	if hook != nil {
		opts = append(opts, tree.WithChangeHook(hook))
	}
	return s.store.Open(ctx, id, opts...)
}

// renderTree serializes the tree with every node handler bound to a
// datastar action posting back to the dispatch route.
func (s *Server) renderTree(c *tree.Controller) (string, error) {
	id := c.TreeID()
	return vdom.RenderHTMLString(c.Render(), vdom.Options{
		Bind: func(handlerID, prop string) (string, string, bool) {
			event, ok := domEvents[prop]
			if !ok {
				return "", "", false
			}
			return "data-on:" + event, fmt.Sprintf("@post('%s')", dispatchURL(id, handlerID)), true
		},
	})
}

var domEvents = map[string]string{
	"onClick":  "click",
	"onChange": "change",
}

func dispatchURL(treeID, handlerID string) string {
	return "/trees/" + url.PathEscape(treeID) + "/dispatch/" + url.PathEscape(handlerID)
}

func treeSelector(treeID string) string {
	return "#tree-" + treeID
}

func (s *Server) writeOpenError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrTreeNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}
