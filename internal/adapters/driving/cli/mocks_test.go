package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
)

type mockIngestService struct {
	results map[string]*driving.IngestResult
	err     error
	reqs    []driving.IngestRequest
}

func (m *mockIngestService) Ingest(_ context.Context, req driving.IngestRequest) (*driving.IngestResult, error) {
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return nil, m.err
	}
	if res, ok := m.results[req.Filename]; ok {
		return res, nil
	}
	return &driving.IngestResult{
		Document:   domain.Document{ID: "doc-" + req.Filename, Filename: req.Filename, Status: domain.StatusCompleted},
		ChunkCount: 1,
	}, nil
}

type mockAskService struct {
	response *domain.AskResponse
	err      error
	lastReq  driving.AskRequest
}

func (m *mockAskService) Ask(_ context.Context, req driving.AskRequest) (*domain.AskResponse, error) {
	m.lastReq = req
	return m.response, m.err
}

type mockJobService struct {
	job        *domain.Job
	match      *domain.MatchResponse
	err        error
	lastCreate driving.CreateJobRequest
	lastMatch  driving.MatchRequest
}

func (m *mockJobService) Create(_ context.Context, req driving.CreateJobRequest) (*domain.Job, error) {
	m.lastCreate = req
	return m.job, m.err
}

func (m *mockJobService) Get(_ context.Context, _ string) (*domain.Job, error) {
	return m.job, m.err
}

func (m *mockJobService) Match(_ context.Context, req driving.MatchRequest) (*domain.MatchResponse, error) {
	m.lastMatch = req
	return m.match, m.err
}

type mockDocumentService struct {
	list     *driving.DocumentList
	details  *driving.DocumentDetails
	content  string
	err      error
	lastList driving.ListOptions
	lastRole domain.Role
}

func (m *mockDocumentService) List(_ context.Context, opts driving.ListOptions) (*driving.DocumentList, error) {
	m.lastList = opts
	return m.list, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string, role domain.Role) (*driving.DocumentDetails, error) {
	m.lastRole = role
	return m.details, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

type mockSettingsService struct {
	values      []driving.SettingValue
	validateErr error
	setErr      error
	set         map[string]string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) SetValue(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) List() ([]driving.SettingValue, error) {
	return m.values, nil
}

type mockMaintenanceService struct {
	cache int
	keys  int
	err   error
}

func (m *mockMaintenanceService) PurgeExpired(_ context.Context) (cache, keys int, err error) {
	return m.cache, m.keys, m.err
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	ingest      *mockIngestService
	ask         *mockAskService
	jobs        *mockJobService
	documents   *mockDocumentService
	settings    *mockSettingsService
	maintenance *mockMaintenanceService
}

// setupTestServices installs fresh mocks and restores the previous state on cleanup.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	origBootstrap := bootstrap
	bootstrap = nil

	ts := &testServices{
		ingest:      &mockIngestService{},
		ask:         &mockAskService{response: &domain.AskResponse{}},
		jobs:        &mockJobService{},
		documents:   &mockDocumentService{list: &driving.DocumentList{}},
		settings:    &mockSettingsService{},
		maintenance: &mockMaintenanceService{},
	}
	SetServices(&Services{
		Ingest:      ts.ingest,
		Ask:         ts.ask,
		Jobs:        ts.jobs,
		Documents:   ts.documents,
		Settings:    ts.settings,
		Maintenance: ts.maintenance,
	})

	t.Cleanup(func() {
		SetServices(nil)
		bootstrap = origBootstrap
	})
	return ts
}

// executeCommand runs the root command with args and returns its combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
