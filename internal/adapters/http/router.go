package httpadapter

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
	"github.com/dylanlee20/job-resume-builder/internal/core/ports"
	"github.com/dylanlee20/job-resume-builder/internal/observability/metrics"
)

const (
	ownerIDHeader    = "X-Owner-ID"
	ownerTierHeader  = "X-Owner-Tier"
	adminTokenHeader = "X-Admin-Token"
)

type Router struct {
	jobs        ports.JobQueryService
	uploader    ports.ResumeUploader
	assessments ports.ResumeAssessmentService
	resumes     ports.ResumeRepository
	metrics     *metrics.HTTPServerMetrics
	service     string
	adminToken  string
}

func NewRouter(
	jobs ports.JobQueryService,
	uploader ports.ResumeUploader,
	assessments ports.ResumeAssessmentService,
	resumes ports.ResumeRepository,
	httpMetrics *metrics.HTTPServerMetrics,
	service string,
	adminToken string,
) *Router {
	return &Router{
		jobs:        jobs,
		uploader:    uploader,
		assessments: assessments,
		resumes:     resumes,
		metrics:     httpMetrics,
		service:     service,
		adminToken:  adminToken,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}
	mux.HandleFunc("/v1/jobs", rt.listJobs)
	mux.HandleFunc("/v1/jobs/export", rt.exportJobs)
	mux.HandleFunc("/v1/resumes", rt.uploadResume)
	mux.HandleFunc("/v1/resumes/", rt.resumeSubtree)

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// isAdmin compares the presented token in constant time. An unset server
// token disables admin access entirely.
func (rt *Router) isAdmin(r *http.Request) bool {
	if rt.adminToken == "" {
		return false
	}
	presented := r.Header.Get(adminTokenHeader)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(rt.adminToken)) == 1
}

func (rt *Router) jobFilterFromQuery(r *http.Request) domain.JobFilter {
	q := r.URL.Query()
	filter := domain.JobFilter{
		Company:  q.Get("company"),
		Location: q.Get("location"),
		Category: domain.Category(q.Get("category")),
		JobType:  domain.JobType(q.Get("job_type")),
	}
	if q.Get("include_excluded") == "true" && rt.isAdmin(r) {
		filter.IncludeExcluded = true
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	return filter
}

func (rt *Router) listJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	jobs, err := rt.jobs.List(r.Context(), rt.jobFilterFromQuery(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs, "count": len(jobs)})
}

func (rt *Router) exportJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	workbook, err := rt.jobs.ExportWorkbook(r.Context(), rt.jobFilterFromQuery(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="job_postings.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

func (rt *Router) uploadResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ownerID := strings.TrimSpace(r.Header.Get(ownerIDHeader))
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, ownerIDHeader+" header is required")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	resume, err := rt.uploader.Upload(
		r.Context(),
		ownerID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		if rt.metrics != nil {
			rt.metrics.RecordResumeUpload(rt.service, "rejected")
		}
		writeDomainError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordResumeUpload(rt.service, "accepted")
	}
	writeJSON(w, http.StatusAccepted, resume)
}

// resumeSubtree dispatches /v1/resumes/{id} and /v1/resumes/{id}/assessments.
func (rt *Router) resumeSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/resumes/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		rt.getResume(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "assessments":
		rt.assessmentsEndpoint(w, r, parts[0])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (rt *Router) getResume(w http.ResponseWriter, r *http.Request, resumeID string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ownerID := strings.TrimSpace(r.Header.Get(ownerIDHeader))
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, ownerIDHeader+" header is required")
		return
	}

	resume, err := rt.resumes.GetByID(r.Context(), resumeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// A foreign resume looks identical to a missing one.
	if resume.OwnerID != ownerID {
		writeError(w, http.StatusNotFound, "resume not found")
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

func (rt *Router) assessmentsEndpoint(w http.ResponseWriter, r *http.Request, resumeID string) {
	ownerID := strings.TrimSpace(r.Header.Get(ownerIDHeader))
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, ownerIDHeader+" header is required")
		return
	}

	switch r.Method {
	case http.MethodPost:
		rt.createAssessment(w, r, resumeID, ownerID)
	case http.MethodGet:
		rt.listAssessments(w, r, resumeID, ownerID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (rt *Router) createAssessment(w http.ResponseWriter, r *http.Request, resumeID, ownerID string) {
	tier, err := domain.ParseTier(r.Header.Get(ownerTierHeader))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	start := time.Now()
	result, err := rt.assessments.Assess(r.Context(), resumeID, ownerID, tier)
	if err != nil {
		if rt.metrics != nil && domain.IsKind(err, domain.ErrQuotaExceeded) {
			rt.metrics.RecordQuotaDenied(rt.service)
		}
		writeDomainError(w, err)
		return
	}
	if rt.metrics != nil {
		outcome := "final"
		if result.Degraded {
			outcome = "fallback"
		}
		rt.metrics.RecordAssessment(rt.service, outcome, time.Since(start))
	}
	writeJSON(w, http.StatusCreated, result)
}

func (rt *Router) listAssessments(w http.ResponseWriter, r *http.Request, resumeID, ownerID string) {
	history, err := rt.assessments.History(r.Context(), resumeID, ownerID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assessments": history, "count": len(history)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
