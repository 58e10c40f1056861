package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mukunthans/pdf-qa/internal/models"
)

type fakeService struct {
	answer   *models.Answer
	err      error
	document *models.Document
	ready    bool
	asked    []string
}

func (f *fakeService) Ask(_ context.Context, req *models.AskRequest) (*models.Answer, error) {
	f.asked = append(f.asked, req.Question)
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func (f *fakeService) Document() *models.Document { return f.document }
func (f *fakeService) Ready() bool                { return f.ready }

func newTestModel(svc *fakeService) Model {
	m := New(svc)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func TestModel_ViewBeforeSize(t *testing.T) {
	m := New(&fakeService{})
	if got := m.View(); got != "Loading..." {
		t.Errorf("View before size = %q", got)
	}
}

func TestModel_ViewShowsDocument(t *testing.T) {
	svc := &fakeService{
		document: &models.Document{Name: "manual.pdf"},
		ready:    true,
	}
	m := newTestModel(svc)
	view := m.View()
	if !strings.Contains(view, "PDF Q&A") {
		t.Errorf("view missing title:\n%s", view)
	}
	if !strings.Contains(view, "manual.pdf") {
		t.Errorf("view missing document name:\n%s", view)
	}
	if !strings.Contains(view, "No questions yet") {
		t.Errorf("view missing empty-transcript hint:\n%s", view)
	}
}

func TestModel_ViewWithoutDocument(t *testing.T) {
	m := newTestModel(&fakeService{})
	view := m.View()
	if !strings.Contains(view, "(no document)") {
		t.Errorf("view missing placeholder:\n%s", view)
	}
	if !strings.Contains(view, "No document loaded") {
		t.Errorf("view missing not-ready hint:\n%s", view)
	}
}

func TestModel_EnterSubmitsQuestion(t *testing.T) {
	svc := &fakeService{
		ready: true,
		answer: &models.Answer{
			Answer: "The valve is in the pump house.",
			Status: models.StatusSuccess,
			Query:  "where is the valve",
			ContextChunks: []models.ScoredChunk{
				{Text: "pump house", Score: 0.91},
			},
			Model: "gpt-4o-mini",
		},
	}
	m := newTestModel(svc)

	m.input.SetValue("where is the valve")
	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter with a question should produce a command")
	}
	if !m.thinking {
		t.Error("model should be waiting for the answer")
	}
	if !strings.Contains(m.View(), "Thinking...") {
		t.Error("status should show progress")
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared, got %q", m.input.Value())
	}

	msg := cmd()
	am, ok := msg.(answerMsg)
	if !ok {
		t.Fatalf("command produced %T, want answerMsg", msg)
	}
	if am.question != "where is the valve" {
		t.Errorf("question = %q", am.question)
	}
	if len(svc.asked) != 1 || svc.asked[0] != "where is the valve" {
		t.Errorf("service calls = %v", svc.asked)
	}

	m, _ = apply(t, m, am)
	if m.thinking {
		t.Error("answer should clear the waiting state")
	}
	view := m.View()
	if !strings.Contains(view, "where is the valve") {
		t.Errorf("transcript missing question:\n%s", view)
	}
	if !strings.Contains(view, "The valve is in the pump") {
		t.Errorf("transcript missing answer:\n%s", view)
	}
	if !strings.Contains(view, "1 chunk(s)") {
		t.Errorf("transcript missing context meta:\n%s", view)
	}
	if !strings.Contains(view, "Answered with 1 context chunk(s).") {
		t.Errorf("status line not updated:\n%s", view)
	}
}

func TestModel_EnterIgnoresBlankInput(t *testing.T) {
	m := newTestModel(&fakeService{ready: true})
	m.input.SetValue("   ")
	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank input should not submit")
	}
	if m.thinking {
		t.Error("blank input should not start a request")
	}
}

func TestModel_EnterWhileThinking(t *testing.T) {
	m := newTestModel(&fakeService{ready: true})
	m.thinking = true
	m.input.SetValue("second question")
	_, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("a pending request should block new submissions")
	}
}

func TestModel_NoContextAnswer(t *testing.T) {
	m := newTestModel(&fakeService{ready: true})
	m, _ = apply(t, m, answerMsg{
		question: "what about quasars",
		answer: &models.Answer{
			Answer: "No sufficiently relevant content found in the document for this question.",
			Status: models.StatusNoContext,
			Query:  "what about quasars",
		},
	})
	view := m.View()
	if !strings.Contains(view, "No sufficiently relevant content") {
		t.Errorf("transcript missing message:\n%s", view)
	}
	if !strings.Contains(view, "No relevant content found.") {
		t.Errorf("status line not updated:\n%s", view)
	}
}

func TestModel_ErrorStatusAnswer(t *testing.T) {
	m := newTestModel(&fakeService{ready: true})
	m, _ = apply(t, m, answerMsg{
		question: "anything",
		answer: &models.Answer{
			Answer: "API quota exceeded. Please try again later.",
			Status: models.StatusQuotaError,
			Query:  "anything",
		},
	})
	view := m.View()
	if !strings.Contains(view, "[quota_error]") {
		t.Errorf("transcript missing status marker:\n%s", view)
	}
	if !strings.Contains(view, "quota_error") {
		t.Errorf("status line not updated:\n%s", view)
	}
}

func TestModel_HardError(t *testing.T) {
	svc := &fakeService{ready: true, err: errors.New("connection refused")}
	m := newTestModel(svc)
	m.input.SetValue("anything")
	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = apply(t, m, cmd())
	view := m.View()
	if !strings.Contains(view, "Error: connection refused") {
		t.Errorf("transcript missing error:\n%s", view)
	}
}

func TestModel_ArrowKeysCycleContext(t *testing.T) {
	m := newTestModel(&fakeService{ready: true})
	m, _ = apply(t, m, answerMsg{
		question: "how are the pumps cooled",
		answer: &models.Answer{
			Answer: "A glycol loop cools them.",
			Status: models.StatusSuccess,
			Query:  "how are the pumps cooled",
			ContextChunks: []models.ScoredChunk{
				{Text: "The glycol loop circulates through both pumps.", Score: 0.82},
				{Text: "Pump bearings are greased monthly.", Score: 0.44},
			},
		},
	})
	if strings.Contains(m.View(), "[Context 1/2") {
		t.Fatal("no chunk should be shown before cycling starts")
	}

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})
	view := m.View()
	if !strings.Contains(view, "[Context 1/2, score 0.82]") {
		t.Errorf("first chunk label missing:\n%s", view)
	}
	if !strings.Contains(view, "glycol loop circulates") {
		t.Errorf("first chunk text missing:\n%s", view)
	}

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if !strings.Contains(m.View(), "[Context 2/2, score 0.44]") {
		t.Errorf("second chunk not shown:\n%s", m.View())
	}

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if !strings.Contains(m.View(), "[Context 1/2") {
		t.Errorf("down should wrap back to the first chunk:\n%s", m.View())
	}

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if !strings.Contains(m.View(), "[Context 2/2") {
		t.Errorf("up should wrap to the last chunk:\n%s", m.View())
	}
}

func TestModel_ArrowKeysWithoutAnswers(t *testing.T) {
	m := newTestModel(&fakeService{ready: true})
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if strings.Contains(m.View(), "[Context") {
		t.Error("no context label should appear without an answered question")
	}
}

func TestModel_NewQuestionResetsContextCursor(t *testing.T) {
	svc := &fakeService{
		ready: true,
		answer: &models.Answer{
			Answer: "Second answer.",
			Status: models.StatusSuccess,
			ContextChunks: []models.ScoredChunk{
				{Text: "fresh context", Score: 0.7},
			},
		},
	}
	m := newTestModel(svc)
	m, _ = apply(t, m, answerMsg{
		question: "first",
		answer: &models.Answer{
			Answer: "First answer.",
			Status: models.StatusSuccess,
			ContextChunks: []models.ScoredChunk{
				{Text: "stale context", Score: 0.9},
			},
		},
	})
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if !strings.Contains(m.View(), "stale context") {
		t.Fatal("cycling should show the first answer's chunk")
	}

	m.input.SetValue("second")
	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = apply(t, m, cmd())
	view := m.View()
	if strings.Contains(view, "[Context") {
		t.Errorf("context cursor should reset on a new answer:\n%s", view)
	}
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if !strings.Contains(m.View(), "fresh context") {
		t.Errorf("cycling should now target the newest answer:\n%s", m.View())
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := newTestModel(&fakeService{})
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc} {
		_, cmd := apply(t, m, tea.KeyMsg{Type: key})
		if cmd == nil {
			t.Fatalf("%v should quit", key)
		}
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("%v produced %T, want tea.QuitMsg", key, msg)
		}
	}
}
