package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/felixgeelhaar/nihulit/pkg/application"
	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

const maxBody = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.svc.Health != nil {
		if err := s.svc.Health(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Username string `json:"username"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expiresAt"`
	User      access.User `json:"user"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, u, err := s.svc.Session.Login(r.Context(), req.Username)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, loginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
		User:      u,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), bearerPrefix)
	if err := s.svc.Session.Logout(r.Context(), token); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, ok := access.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// queryFromRequest reads view, project (repeatable or comma separated),
// status, priority, from, to, sort, desc and q.
func queryFromRequest(r *http.Request) (planning.Query, error) {
	v := r.URL.Query()
	view, ok := planning.ParseView(v.Get("view"))
	if !ok {
		return planning.Query{}, fmt.Errorf("unknown view %q", v.Get("view"))
	}
	q := planning.Query{
		View:    view,
		Search:  v.Get("q"),
		EndFrom: v.Get("from"),
		EndTo:   v.Get("to"),
	}
	for _, p := range v["project"] {
		for _, id := range strings.Split(p, ",") {
			if id = strings.TrimSpace(id); id != "" {
				q.ProjectIDs = append(q.ProjectIDs, id)
			}
		}
	}
	if raw := v.Get("status"); raw != "" {
		st, err := planning.ParseTaskStatus(raw)
		if err != nil {
			return planning.Query{}, err
		}
		q.Status = st
	}
	if raw := v.Get("priority"); raw != "" {
		pr, err := planning.ParseTaskPriority(raw)
		if err != nil {
			return planning.Query{}, err
		}
		q.Priority = pr
	}
	switch sortBy := planning.SortKey(v.Get("sort")); sortBy {
	case "", planning.SortByPlannedEnd, planning.SortByPlannedStart, planning.SortByProject:
		q.SortBy = sortBy
	default:
		return planning.Query{}, fmt.Errorf("unknown sort %q", sortBy)
	}
	q.Descending = v.Get("desc") == "true"
	return q, nil
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := s.svc.Stats.Query(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if views == nil {
		views = []application.TaskView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Task.Task(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if u, ok := access.UserFrom(r.Context()); ok && !access.CanView(u, t.ProjectID) {
		// Hidden tasks look absent.
		writeError(w, http.StatusNotFound, planning.ErrTaskNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, application.BuildViews([]planning.Task{t}, s.today())[0])
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var t planning.Task
	if err := decode(w, r, &t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.svc.Task.Create(r.Context(), t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// syncResponse is an UpdateOutcome with the store errors spelled out.
type syncResponse struct {
	Persisted bool          `json:"persisted"`
	Value     planning.Task `json:"value"`
	Error     string        `json:"error,omitempty"`
}

type updateResponse struct {
	Result     syncResponse   `json:"result"`
	Propagated []syncResponse `json:"propagated,omitempty"`
}

func toSyncResponse(r application.SyncResult) syncResponse {
	out := syncResponse{Persisted: r.Persisted, Value: r.Value}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return out
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var upd planning.TaskUpdate
	if err := decode(w, r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.svc.Task.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := updateResponse{Result: toSyncResponse(out.Result)}
	for _, p := range out.Propagated {
		resp.Propagated = append(resp.Propagated, toSyncResponse(p))
	}
	// 202 tells the client the change is held locally but not yet saved.
	status := http.StatusOK
	if !out.AllPersisted() {
		status = http.StatusAccepted
	}
	writeJSON(w, status, resp)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Task.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) pendingSync(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"pending": s.svc.Task.PendingSync()})
}

func (s *Server) retrySync(w http.ResponseWriter, r *http.Request) {
	results := s.svc.Task.Retry(r.Context())
	resp := make([]syncResponse, 0, len(results))
	for _, res := range results {
		resp = append(resp, toSyncResponse(res))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Stats.Dashboard(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) timeline(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 366 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 366")
			return
		}
		days = n
	}
	points, err := s.svc.Stats.Timeline(r.Context(), days)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Server) financeSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Finance.Summary(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) projectFinance(w http.ResponseWriter, r *http.Request) {
	pf, err := s.svc.Finance.Project(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pf)
}
