package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"taskmill"
)

// JobStatus tracks where a job is in its lifecycle.
type JobStatus string

const (
	StatusProcessing JobStatus = "processing"
	StatusReady      JobStatus = "ready"
	StatusFailed     JobStatus = "failed"
)

// JobView is the status payload returned to clients.
type JobView struct {
	ID           string    `json:"id"`
	Status       JobStatus `json:"status"`
	Stage        string    `json:"stage,omitempty"`
	Percent      int       `json:"percent"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Filename     string    `json:"filename,omitempty"`
	AssemblyName string    `json:"assembly_name,omitempty"`
	Strategy     string    `json:"strategy,omitempty"`
	TaskCount    int       `json:"task_count"`
	ImageCount   int       `json:"image_count"`
}

// job is one processing run and its cached outputs.
type job struct {
	id       string
	created  time.Time
	filename string
	assembly string

	mu      sync.Mutex
	status  JobStatus
	stage   string
	percent int
	errMsg  string
	result  *taskmill.Result
	pkg     *taskmill.Package
	pkgErr  error
}

func (j *job) progress(stage string, percent int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.stage = stage
	j.percent = percent
}

func (j *job) complete(res *taskmill.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusReady
	j.stage = "done"
	j.percent = 100
	j.result = res
}

func (j *job) fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusFailed
	j.errMsg = err.Error()
}

func (j *job) snapshot() (*taskmill.Result, JobStatus, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.status, j.errMsg
}

func (j *job) view() JobView {
	j.mu.Lock()
	defer j.mu.Unlock()
	v := JobView{
		ID:           j.id,
		Status:       j.status,
		Stage:        j.stage,
		Percent:      j.percent,
		Error:        j.errMsg,
		CreatedAt:    j.created,
		Filename:     j.filename,
		AssemblyName: j.assembly,
	}
	if j.result != nil {
		v.Strategy = j.result.Strategy
		v.TaskCount = len(j.result.Tasks)
		v.ImageCount = len(j.result.Images)
	}
	return v
}

// ensurePackage builds the download bundle on first request and caches
// the outcome, success or failure. Callers must only invoke it on a
// ready job.
func (j *job) ensurePackage() (*taskmill.Package, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.pkg != nil || j.pkgErr != nil {
		return j.pkg, j.pkgErr
	}
	j.pkg, j.pkgErr = taskmill.BuildPackage(j.result)
	return j.pkg, j.pkgErr
}

// jobStore holds jobs in memory. Nothing survives a restart; expired
// jobs are swept whenever a new one is created.
type jobStore struct {
	mu   sync.RWMutex
	ttl  time.Duration
	jobs map[string]*job
}

func newJobStore(ttl time.Duration) *jobStore {
	return &jobStore{ttl: ttl, jobs: make(map[string]*job)}
}

func (s *jobStore) create(filename, assemblyName string) *job {
	j := &job{
		id:       uuid.NewString(),
		created:  time.Now(),
		filename: filename,
		assembly: assemblyName,
		status:   StatusProcessing,
	}
	s.mu.Lock()
	s.sweepLocked(j.created)
	s.jobs[j.id] = j
	s.mu.Unlock()
	return j
}

func (s *jobStore) get(id string) (*job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok
}

func (s *jobStore) sweepLocked(now time.Time) {
	for id, j := range s.jobs {
		if now.Sub(j.created) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
