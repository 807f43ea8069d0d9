package httpapi

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/samachar-ai/newsbot/internal/repository/session"
	healthuc "github.com/samachar-ai/newsbot/internal/usecase/health"
	searchuc "github.com/samachar-ai/newsbot/internal/usecase/search"
)

type mockSearch struct {
	resp     searchuc.Response
	err      error
	gotQuery string
}

func (m *mockSearch) Search(_ context.Context, q string) (searchuc.Response, error) {
	m.gotQuery = q
	return m.resp, m.err
}

// mockTranslate prefixes input with "gu:" unless a fixed output or error is set.
type mockTranslate struct {
	out string
	err error
}

func (m *mockTranslate) TranslateContent(_ context.Context, text string) (string, error) {
	if m.err != nil {
		return m.out, m.err
	}
	if m.out != "" {
		return m.out, nil
	}
	return "gu:" + text, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	return m.report
}

type testServer struct {
	*Server
	search    *mockSearch
	translate *mockTranslate
	sessions  *session.Store
	health    *mockHealth
}

func newTestServer() *testServer {
	ts := &testServer{
		search:    &mockSearch{},
		translate: &mockTranslate{},
		sessions:  session.NewStore(time.Hour),
		health: &mockHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"index": healthuc.CheckOK},
		}},
	}
	ts.Server = NewServer(ts.search, ts.translate, ts.sessions, ts.health, zap.NewNop())
	return ts
}
