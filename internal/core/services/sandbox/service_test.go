package sandbox

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gitlab.com/learnhub.net/internal/adapter/logging"
	"gitlab.com/learnhub.net/internal/config"
	"gitlab.com/learnhub.net/internal/domain"
)

type panicEngine struct{}

func (panicEngine) Language() domain.Language { return domain.LanguageJavaScript }

func (panicEngine) Execute(ctx context.Context, code string) domain.ExecutionResult {
	panic("engine exploded")
}

func newTestService(loader *fakeLoader) *SandboxService {
	cfg := &config.SandboxConfig{ExecutionTimeout: time.Second}
	if loader == nil {
		return NewSandboxService(cfg, nil, logging.NewNopLogger())
	}
	return NewSandboxService(cfg, loader, logging.NewNopLogger())
}

func TestSandboxService_UnsupportedLanguage(t *testing.T) {
	svc := newTestService(nil)

	got := svc.ExecuteCode(context.Background(), "puts 'hi'", domain.Language("ruby"))
	if got.Output != "" {
		t.Errorf("Output = %q, want empty", got.Output)
	}
	if got.Error != "unsupported language: ruby" {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestSandboxService_Dispatch(t *testing.T) {
	svc := newTestService(outcomeLoader(domain.InterpreterOutcome{Output: "from python\n"}))

	tests := []struct {
		language domain.Language
		code     string
		want     string
	}{
		{domain.LanguageJavaScript, "console.log('js')", "js"},
		{domain.LanguageTypeScript, "const s: string = 'ts'; console.log(s)", "ts"},
		{domain.LanguagePython, "print('from python')", "from python"},
	}
	for _, tt := range tests {
		t.Run(tt.language.String(), func(t *testing.T) {
			got := svc.ExecuteCode(context.Background(), tt.code, tt.language)
			if got.Error != "" {
				t.Fatalf("Error = %q", got.Error)
			}
			if got.Output != tt.want {
				t.Errorf("Output = %q, want %q", got.Output, tt.want)
			}
		})
	}
}

func TestSandboxService_RecoversEnginePanic(t *testing.T) {
	svc := newSandboxService(nil, logging.NewNopLogger(), panicEngine{})

	got := svc.ExecuteCode(context.Background(), "anything", domain.LanguageJavaScript)
	if !strings.Contains(got.Error, "engine exploded") {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestSandboxService_AdversarialInput(t *testing.T) {
	svc := newTestService(&fakeLoader{err: errors.New("disabled")})

	inputs := []string{"", "\x00", "}}}}", "/*", "`", "interface {", "<<<>>>", strings.Repeat("(", 500)}
	for _, lang := range domain.Languages() {
		for _, in := range inputs {
			got := svc.ExecuteCode(context.Background(), in, lang)
			if lang == domain.LanguagePython && got.Error == "" {
				t.Errorf("%s %q: expected environment error", lang, in)
			}
		}
	}
}

func TestSandboxService_EmptyJavaScript(t *testing.T) {
	got := newTestService(nil).ExecuteCode(context.Background(), "", domain.LanguageJavaScript)
	if got.Output != "" || got.Error != "" {
		t.Errorf("got %+v, want empty result", got)
	}
}

func TestSandboxService_InterpreterState(t *testing.T) {
	if st := newTestService(nil).InterpreterState(); st.Status != domain.InterpreterIdle {
		t.Errorf("Status = %v, want idle without a loader", st.Status)
	}

	loader := &fakeLoader{state: domain.InterpreterState{Status: domain.InterpreterReady, Progress: 100}}
	if st := newTestService(loader).InterpreterState(); st.Status != domain.InterpreterReady {
		t.Errorf("Status = %v, want ready", st.Status)
	}
}

func TestSandboxService_PreloadInterpreter(t *testing.T) {
	loader := outcomeLoader(domain.InterpreterOutcome{})
	if err := newTestService(loader).PreloadInterpreter(context.Background()); err != nil {
		t.Fatalf("PreloadInterpreter: %v", err)
	}
	if loader.loads != 1 {
		t.Errorf("loads = %d, want 1", loader.loads)
	}

	failing := &fakeLoader{err: errors.New("no python")}
	if err := newTestService(failing).PreloadInterpreter(context.Background()); err == nil {
		t.Error("expected error from failing loader")
	}

	if err := newTestService(nil).PreloadInterpreter(context.Background()); err == nil {
		t.Error("expected error without a loader")
	}
}
